package utfgrid

import "github.com/eak1mov/go-utfgrid/grid"

// FeatureWriter supplies attribute records for the keys of an encoded
// legend. Keys without a record may be left out of the returned map.
type FeatureWriter interface {
	WriteFeatures(view *grid.View, keys []string) (map[string]grid.Properties, error)
}

// FeatureWriterFunc adapts a function to FeatureWriter.
type FeatureWriterFunc func(view *grid.View, keys []string) (map[string]grid.Properties, error)

func (f FeatureWriterFunc) WriteFeatures(view *grid.View, keys []string) (map[string]grid.Properties, error) {
	return f(view, keys)
}

// GridFeatures reads records from the view's parent grid.
var GridFeatures FeatureWriter = FeatureWriterFunc(func(view *grid.View, keys []string) (map[string]grid.Properties, error) {
	return view.Grid().Features(keys), nil
})
