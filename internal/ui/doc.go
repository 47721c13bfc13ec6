// Package ui draws the parameter panel and the field overlays of the ebiten
// viewer. Everything here needs the ebiten build tag.
package ui
