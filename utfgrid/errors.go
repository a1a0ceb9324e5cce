package utfgrid

import (
	"errors"

	"github.com/eak1mov/go-utfgrid/grid"
)

var (
	// ErrInvalidArgument reports malformed options or arguments. It is always
	// returned synchronously, never through a completion callback.
	ErrInvalidArgument = grid.ErrInvalidArgument

	// ErrEncodingFailure reports a failure of the quantization and legend pass
	// or of the feature writer.
	ErrEncodingFailure = errors.New("utfgrid: encoding failed")

	// ErrUnknownFailure reports an unexpected fault in a background encode.
	ErrUnknownFailure = errors.New("utfgrid: unknown failure when encoding grid: please file a bug report")

	// ErrTooManyKeys is wrapped together with ErrEncodingFailure when a view
	// has more distinct keys than the codepoint space allows.
	ErrTooManyKeys = errors.New("utfgrid: too many keys")
)
