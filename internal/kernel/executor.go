// Package kernel implements the per-cell update kernels of the erosion
// pipeline. Every kernel is a pure function of its source views evaluated
// once per cell; no cell observes another cell's output from the same call.
package kernel

import (
	"fmt"
	"runtime"
	"sync"

	"erode/internal/core"
)

// Executor dispatches kernels across worker goroutines. Rows are striped
// over the workers and the call returns once every cell is written.
type Executor struct {
	workers int
}

// NewExecutor creates an executor with the given worker count. A
// non-positive count uses one worker per CPU.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Executor{workers: workers}
}

// Workers reports the number of goroutines used per dispatch.
func (e *Executor) Workers() int { return e.workers }

// run evaluates body for every cell of the destination grids' shared
// dimensions. It panics when a destination aliases a source, since that
// means a kernel would read its own write target.
func (e *Executor) run(name string, dst []*core.Grid, src []core.View, body func(x, y, i int)) {
	if len(dst) == 0 {
		panic(fmt.Sprintf("kernel %s: no destination", name))
	}
	w, h := dst[0].W, dst[0].H
	for di, d := range dst {
		if d.W != w || d.H != h {
			panic(fmt.Sprintf("kernel %s: destination %d is %dx%d, want %dx%d", name, di, d.W, d.H, w, h))
		}
		for si, s := range src {
			if s.Same(d) {
				panic(fmt.Sprintf("kernel %s: destination %d aliases source %d", name, di, si))
			}
		}
		for dj := di + 1; dj < len(dst); dj++ {
			if dst[dj] == d {
				panic(fmt.Sprintf("kernel %s: destinations %d and %d alias", name, di, dj))
			}
		}
	}
	for si, s := range src {
		if s.Width() != w || s.Height() != h {
			panic(fmt.Sprintf("kernel %s: source %d is %dx%d, want %dx%d", name, si, s.Width(), s.Height(), w, h))
		}
	}

	workers := e.workers
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		rows(body, w, h, 0, 1)
		return
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(offset int) {
			defer wg.Done()
			rows(body, w, h, offset, workers)
		}(i)
	}
	wg.Wait()
}

func rows(body func(x, y, i int), w, h, offset, stride int) {
	for y := offset; y < h; y += stride {
		base := y * w
		for x := 0; x < w; x++ {
			body(x, y, base+x)
		}
	}
}
