// Package metatile cuts a grid rendered for a block of adjacent tiles
// (a metatile) into per-tile views.
package metatile

import (
	"errors"
	"fmt"
	"iter"

	"github.com/eak1mov/go-utfgrid/grid"
	"github.com/google/hilbert"
)

// TileID represents tile coordinates in the XYZ scheme (Tiled web map).
type TileID struct {
	X uint32
	Y uint32
	Z uint32
}

func (t TileID) Valid() bool {
	return t.Z < 32 && t.X < (1<<t.Z) && t.Y < (1<<t.Z)
}

var ErrInvalidMetatile = errors.New("utfgrid: invalid metatile")

// Splitter yields the tile views of a metatile grid.
type Splitter struct {
	grid       *grid.Grid
	origin     TileID
	size       int
	tileWidth  int
	tileHeight int
	curve      *hilbert.Hilbert
}

// NewSplitter prepares to split g, which covers size x size tiles starting
// at origin (the top-left tile). size must be a power of two and divide
// both grid dimensions.
func NewSplitter(g *grid.Grid, origin TileID, size int) (*Splitter, error) {
	curve, err := hilbert.NewHilbert(size)
	if err != nil {
		return nil, fmt.Errorf("%w: size %d: %w", ErrInvalidMetatile, size, err)
	}
	if g.Width()%size != 0 || g.Height()%size != 0 {
		return nil, fmt.Errorf("%w: %dx%d grid is not divisible into %dx%d tiles", ErrInvalidMetatile, g.Width(), g.Height(), size, size)
	}
	last := TileID{X: origin.X + uint32(size) - 1, Y: origin.Y + uint32(size) - 1, Z: origin.Z}
	if !origin.Valid() || !last.Valid() {
		return nil, fmt.Errorf("%w: tiles %v..%v out of zoom level range", ErrInvalidMetatile, origin, last)
	}

	return &Splitter{
		grid:       g,
		origin:     origin,
		size:       size,
		tileWidth:  g.Width() / size,
		tileHeight: g.Height() / size,
		curve:      curve,
	}, nil
}

// Len returns the number of tiles in the metatile.
func (s *Splitter) Len() int {
	return s.size * s.size
}

// VisitViews calls visitor for every tile along a Hilbert curve, so
// consecutive tiles are spatially adjacent.
func (s *Splitter) VisitViews(visitor func(TileID, *grid.View) error) error {
	for t := range s.Len() {
		dx, dy, err := s.curve.Map(t)
		if err != nil {
			return err
		}
		view, err := s.grid.View(dx*s.tileWidth, dy*s.tileHeight, s.tileWidth, s.tileHeight)
		if err != nil {
			return err
		}
		tileID := TileID{X: s.origin.X + uint32(dx), Y: s.origin.Y + uint32(dy), Z: s.origin.Z}
		if err := visitor(tileID, view); err != nil {
			return err
		}
	}
	return nil
}

var errVisitCancelled = errors.New("visit cancelled")

// Views returns an iterator over VisitViews. Iteration may panic on unrecoverable errors.
func (s *Splitter) Views() iter.Seq2[TileID, *grid.View] {
	return func(yield func(TileID, *grid.View) bool) {
		err := s.VisitViews(func(tileID TileID, view *grid.View) error {
			if !yield(tileID, view) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
