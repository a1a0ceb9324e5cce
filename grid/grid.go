// Package grid provides an in-memory interaction grid: a 2D array of feature
// identifiers rendered alongside a map tile, plus the feature attributes
// those identifiers refer to.
package grid

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"sync/atomic"
)

// ID is a feature identifier stored in a grid pixel.
type ID uint32

// NoFeature marks pixels not covered by any feature.
const NoFeature ID = math.MaxUint32

// DefaultKey is the key field name meaning "use the feature id as the key".
const DefaultKey = "__id__"

// Properties is an opaque feature attribute record.
type Properties map[string]any

var (
	ErrInvalidArgument = errors.New("utfgrid: invalid argument")
	ErrOutOfBounds     = errors.New("utfgrid: rectangle out of bounds")
	ErrIndexOutOfRange = errors.New("utfgrid: index out of range")
)

// Grid holds feature identifiers for every pixel of a rendered tile.
// It is safe for concurrent reads once fully populated.
type Grid struct {
	width  int
	height int
	pixels []ID

	keyName  string
	fields   map[string]struct{}
	keys     map[ID]string
	ids      map[string]ID
	features map[string]Properties

	holds atomic.Int64
}

type gridConfig struct {
	Key    string
	Fields []string
}

type Option func(*gridConfig)

// WithKey sets the property used as the legend key of a feature.
func WithKey(name string) Option {
	return func(c *gridConfig) { c.Key = name }
}

// WithFields restricts the attributes reported by Features.
func WithFields(names ...string) Option {
	return func(c *gridConfig) { c.Fields = names }
}

// New creates a width x height grid with every pixel set to NoFeature.
func New(width, height int, opts ...Option) (*Grid, error) {
	if width < 0 || height < 0 || (width > 0 && height > math.MaxInt/width) {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidArgument, width, height)
	}

	config := gridConfig{Key: DefaultKey}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Key == "" {
		return nil, fmt.Errorf("%w: empty key field", ErrInvalidArgument)
	}

	var fields map[string]struct{}
	if config.Fields != nil {
		fields = make(map[string]struct{}, len(config.Fields))
		for _, name := range config.Fields {
			fields[name] = struct{}{}
		}
	}

	pixels := make([]ID, width*height)
	for i := range pixels {
		pixels[i] = NoFeature
	}

	return &Grid{
		width:    width,
		height:   height,
		pixels:   pixels,
		keyName:  config.Key,
		fields:   fields,
		keys:     make(map[ID]string),
		ids:      make(map[string]ID),
		features: make(map[string]Properties),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// KeyName returns the property used as the legend key.
func (g *Grid) KeyName() string { return g.keyName }

func (g *Grid) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) At(x, y int) (ID, error) {
	if !g.contains(x, y) {
		return NoFeature, fmt.Errorf("%w: pixel (%d,%d) outside %dx%d grid", ErrIndexOutOfRange, x, y, g.width, g.height)
	}
	return g.pixels[y*g.width+x], nil
}

func (g *Grid) Set(x, y int, id ID) error {
	if !g.contains(x, y) {
		return fmt.Errorf("%w: pixel (%d,%d) outside %dx%d grid", ErrIndexOutOfRange, x, y, g.width, g.height)
	}
	g.pixels[y*g.width+x] = id
	return nil
}

// Fill sets every pixel of the rectangle to id.
func (g *Grid) Fill(x, y, w, h int, id ID) error {
	if err := g.checkRect(x, y, w, h); err != nil {
		return err
	}
	for row := y; row < y+h; row++ {
		line := g.pixels[row*g.width+x : row*g.width+x+w]
		for i := range line {
			line[i] = id
		}
	}
	return nil
}

func (g *Grid) checkRect(x, y, w, h int) error {
	if x < 0 || y < 0 || w < 0 || h < 0 || x > g.width || y > g.height || w > g.width-x || h > g.height-y {
		return fmt.Errorf("%w: rectangle (%d,%d %dx%d) outside %dx%d grid", ErrOutOfBounds, x, y, w, h, g.width, g.height)
	}
	return nil
}

// AddFeature registers the attributes of the feature drawn with id.
// The legend key is derived from the key field; features sharing a key
// share a single legend entry.
func (g *Grid) AddFeature(id ID, props Properties) error {
	if id == NoFeature {
		return fmt.Errorf("%w: feature id %d is reserved", ErrInvalidArgument, id)
	}

	var key string
	if g.keyName == DefaultKey {
		key = strconv.FormatUint(uint64(id), 10)
	} else {
		value, found := props[g.keyName]
		if !found {
			return fmt.Errorf("%w: feature %d has no key field %q", ErrInvalidArgument, id, g.keyName)
		}
		key = fmt.Sprint(value)
	}
	if key == "" {
		return fmt.Errorf("%w: feature %d has an empty key", ErrInvalidArgument, id)
	}

	g.keys[id] = key
	g.ids[key] = id
	g.features[key] = props
	return nil
}

// Key returns the legend key of id. NoFeature always maps to "".
func (g *Grid) Key(id ID) (string, bool) {
	if id == NoFeature {
		return "", true
	}
	key, found := g.keys[id]
	return key, found
}

// Features returns attribute records for the given legend keys, restricted
// to the configured fields. The empty key and keys without attributes are skipped.
func (g *Grid) Features(keys []string) map[string]Properties {
	result := make(map[string]Properties)
	for _, key := range keys {
		if key == "" {
			continue
		}
		props, found := g.features[key]
		if !found {
			continue
		}

		if g.fields == nil {
			result[key] = maps.Clone(props)
			continue
		}

		record := make(Properties)
		for name, value := range props {
			if _, ok := g.fields[name]; ok {
				record[name] = value
			}
		}
		if _, ok := g.fields[DefaultKey]; ok && g.keyName == DefaultKey {
			record[DefaultKey] = g.ids[key]
		}
		if len(record) > 0 {
			result[key] = record
		}
	}
	return result
}

// Acquire records an outstanding request holding the grid.
func (g *Grid) Acquire() {
	g.holds.Add(1)
}

// Release drops a hold taken by Acquire. Releasing more than acquired panics.
func (g *Grid) Release() {
	if g.holds.Add(-1) < 0 {
		panic("utfgrid: grid released more times than acquired")
	}
}

// InFlight returns the number of outstanding holds.
func (g *Grid) InFlight() int {
	return int(g.holds.Load())
}
