package utfgrid

import "context"

// Future is the single-assignment outcome of a submitted encode.
type Future struct {
	done   chan struct{}
	result *Result
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve must be called exactly once.
func (f *Future) resolve(result *Result, err error) {
	f.result, f.err = result, err
	close(f.done)
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the encode completes or ctx is done. Giving up on
// ctx does not cancel the encode.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
