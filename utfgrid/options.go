package utfgrid

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// DefaultResolution is the downsampling factor used when none is given.
const DefaultResolution = 4

type request struct {
	Resolution int
	Features   bool
}

func defaultRequest() request {
	return request{Resolution: DefaultResolution, Features: true}
}

// Option configures a single encode request.
type Option func(*request)

// WithResolution sets the downsampling factor.
func WithResolution(resolution int) Option {
	return func(r *request) { r.Resolution = resolution }
}

// WithFeatures controls whether feature attributes are collected.
func WithFeatures(features bool) Option {
	return func(r *request) { r.Features = features }
}

func newRequest(opts []Option) (request, error) {
	r := defaultRequest()
	for _, opt := range opts {
		opt(&r)
	}
	if r.Resolution < 0 {
		return request{}, fmt.Errorf("%w: 'resolution' must be a non-negative integer, got %d", ErrInvalidArgument, r.Resolution)
	}
	return r, nil
}

// ParseOptions converts a decoded options object (e.g. from JSON) into
// encode options. Recognized keys are "resolution" (integer) and
// "features" (boolean).
func ParseOptions(values map[string]any) ([]Option, error) {
	var opts []Option

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		value := values[name]
		switch name {
		case "resolution":
			resolution, ok := asInteger(value)
			if !ok || resolution < 0 {
				return nil, fmt.Errorf("%w: 'resolution' must be a non-negative integer, got %v", ErrInvalidArgument, value)
			}
			opts = append(opts, WithResolution(resolution))
		case "features":
			features, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: 'features' must be a boolean, got %v", ErrInvalidArgument, value)
			}
			opts = append(opts, WithFeatures(features))
		default:
			return nil, fmt.Errorf("%w: unknown option %q", ErrInvalidArgument, name)
		}
	}

	return opts, nil
}

func asInteger(value any) (int, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		return int(n), n >= math.MinInt && n <= math.MaxInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := v.Uint()
		return int(n), n <= math.MaxInt
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}
