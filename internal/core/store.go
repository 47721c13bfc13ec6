package core

import (
	"errors"
	"fmt"
)

// ErrInvalidResolution is returned when a store is sized with a non-positive
// resolution.
var ErrInvalidResolution = errors.New("core: invalid resolution")

// Buffering selects how many buffers back a field.
type Buffering uint8

const (
	// DoubleBuffered fields own separate read and write buffers.
	DoubleBuffered Buffering = iota
	// SingleBuffered fields alias read and write to one buffer.
	SingleBuffered
)

// FieldSpec declares one named field of a Store.
type FieldSpec struct {
	Name      string
	Buffering Buffering
}

type bufferPair struct {
	read, write *Grid
}

// Store owns a fixed catalogue of square R×R fields addressed by name.
type Store struct {
	res   int
	specs []FieldSpec
	pairs map[string]*bufferPair
}

// NewStore allocates every declared field at the given resolution.
func NewStore(res int, specs []FieldSpec) (*Store, error) {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New("core: field with empty name")
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("core: field %q declared twice", spec.Name)
		}
		seen[spec.Name] = true
	}
	pairs, err := allocate(res, specs)
	if err != nil {
		return nil, err
	}
	return &Store{res: res, specs: append([]FieldSpec(nil), specs...), pairs: pairs}, nil
}

func allocate(res int, specs []FieldSpec) (map[string]*bufferPair, error) {
	if res <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, res)
	}
	pairs := make(map[string]*bufferPair, len(specs))
	for _, spec := range specs {
		read := NewGrid(res, res)
		write := read
		if spec.Buffering == DoubleBuffered {
			write = NewGrid(res, res)
		}
		pairs[spec.Name] = &bufferPair{read: read, write: write}
	}
	return pairs, nil
}

// Resolution reports the edge length shared by every field.
func (s *Store) Resolution() int { return s.res }

// Names lists the declared fields in declaration order.
func (s *Store) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Has reports whether name is declared.
func (s *Store) Has(name string) bool {
	_, ok := s.pairs[name]
	return ok
}

func (s *Store) pair(name string) *bufferPair {
	p, ok := s.pairs[name]
	if !ok {
		panic(fmt.Sprintf("core: undeclared field %q", name))
	}
	return p
}

// Read returns the front buffer of name.
func (s *Store) Read(name string) View { return ViewOf(s.pair(name).read) }

// Write returns the back buffer of name. Single-buffered fields return the
// same storage as Read.
func (s *Store) Write(name string) *Grid { return s.pair(name).write }

// Swap exchanges the front and back buffers of name.
func (s *Store) Swap(name string) {
	p := s.pair(name)
	p.read, p.write = p.write, p.read
}

// SwapAll swaps every named field.
func (s *Store) SwapAll(names ...string) {
	for _, name := range names {
		s.Swap(name)
	}
}

// Resize reallocates every field at res, discarding all contents. The new
// buffers are fully allocated before the old ones are released, so a failed
// resize leaves the store unchanged.
func (s *Store) Resize(res int) error {
	pairs, err := allocate(res, s.specs)
	if err != nil {
		return err
	}
	s.pairs = pairs
	s.res = res
	return nil
}

// ClearAll zeroes both buffers of every field.
func (s *Store) ClearAll() {
	for _, p := range s.pairs {
		p.read.Clear()
		if p.write != p.read {
			p.write.Clear()
		}
	}
}
