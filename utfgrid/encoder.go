package utfgrid

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/eak1mov/go-utfgrid/grid"
)

// Scheduler runs tasks. The Encoder uses one scheduler to run encodes in
// the background and another to deliver completion notifications.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Schedule(task func()) { f(task) }

// Goroutines starts a new goroutine per task.
var Goroutines Scheduler = SchedulerFunc(func(task func()) { go task() })

// Inline runs tasks on the calling goroutine.
var Inline Scheduler = SchedulerFunc(func(task func()) { task() })

// Encoder encodes grid views synchronously or in the background.
type Encoder struct {
	scheduler  Scheduler
	completion Scheduler
	features   FeatureWriter
	logger     *slog.Logger
}

type encoderConfig struct {
	Scheduler  Scheduler
	Completion Scheduler
	Features   FeatureWriter
	Logger     *slog.Logger
}

type EncoderOption func(*encoderConfig)

// WithScheduler sets where background encodes run (default: Goroutines).
func WithScheduler(s Scheduler) EncoderOption {
	return func(c *encoderConfig) { c.Scheduler = s }
}

// WithCompletion sets where completion callbacks run (default: Inline,
// i.e. on the goroutine that finished the encode).
func WithCompletion(s Scheduler) EncoderOption {
	return func(c *encoderConfig) { c.Completion = s }
}

// WithFeatureWriter sets the source of feature attributes (default: GridFeatures).
func WithFeatureWriter(w FeatureWriter) EncoderOption {
	return func(c *encoderConfig) { c.Features = w }
}

func WithLogger(logger *slog.Logger) EncoderOption {
	return func(c *encoderConfig) { c.Logger = logger }
}

func NewEncoder(opts ...EncoderOption) *Encoder {
	config := encoderConfig{
		Scheduler:  Goroutines,
		Completion: Inline,
		Features:   GridFeatures,
		Logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Encoder{
		scheduler:  config.Scheduler,
		completion: config.Completion,
		features:   config.Features,
		logger:     config.Logger,
	}
}

// Encode encodes v on the calling goroutine with a default Encoder.
func Encode(v *grid.View, opts ...Option) (*Result, error) {
	return NewEncoder().EncodeSync(v, opts...)
}

func validate(v *grid.View, opts []Option) (request, error) {
	if v == nil {
		return request{}, fmt.Errorf("%w: nil view", ErrInvalidArgument)
	}
	return newRequest(opts)
}

// EncodeSync encodes v on the calling goroutine.
func (e *Encoder) EncodeSync(v *grid.View, opts ...Option) (*Result, error) {
	req, err := validate(v, opts)
	if err != nil {
		return nil, err
	}
	return e.encode(v, req)
}

// Encode encodes v in the background and calls done exactly once with
// either the result or the error. Invalid arguments and scheduler failures
// are returned directly and done is not called. The parent grid is held
// until done returns.
//
// done runs wherever the completion scheduler puts it. The default, Inline,
// calls it on the goroutine that finished the encode. To have notifications
// delivered in order on the caller's own goroutine, pass
// WithCompletion(workpool.NewLoop()) or another Scheduler drained by the caller.
func (e *Encoder) Encode(v *grid.View, done func(*Result, error), opts ...Option) error {
	if done == nil {
		return fmt.Errorf("%w: completion callback is nil", ErrInvalidArgument)
	}
	req, err := validate(v, opts)
	if err != nil {
		return err
	}
	return e.submit(v, req, done)
}

// Submit is like Encode but delivers the outcome through a Future.
func (e *Encoder) Submit(v *grid.View, opts ...Option) (*Future, error) {
	req, err := validate(v, opts)
	if err != nil {
		return nil, err
	}
	future := newFuture()
	if err := e.submit(v, req, future.resolve); err != nil {
		return nil, err
	}
	return future, nil
}

type task struct {
	view *grid.View
	req  request
	done func(*Result, error)
}

func (e *Encoder) submit(v *grid.View, req request, done func(*Result, error)) (err error) {
	t := &task{view: v, req: req, done: done}
	v.Grid().Acquire()

	// Release the hold only if the scheduler failed before running the task.
	var started atomic.Bool
	defer func() {
		if started.Load() {
			return
		}
		if r := recover(); r != nil {
			e.release(t)
			e.logger.Error("utfgrid: schedule failed", "panic", r)
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("utfgrid: schedule: %w", rerr)
			} else {
				err = fmt.Errorf("%w (schedule: %v)", ErrUnknownFailure, r)
			}
		}
	}()

	e.scheduler.Schedule(func() {
		started.Store(true)
		e.run(t)
	})
	return nil
}

func (e *Encoder) run(t *task) {
	result, err := e.encodeRecover(t.view, t.req)
	e.completion.Schedule(func() {
		defer e.release(t)
		t.done(result, err)
	})
}

func (e *Encoder) release(t *task) {
	t.view.Grid().Release()
	t.view = nil
	t.done = nil
}

func (e *Encoder) encodeRecover(v *grid.View, req request) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("utfgrid: panic while encoding", "panic", r)
			result, err = nil, fmt.Errorf("%w (%v)", ErrUnknownFailure, r)
		}
	}()
	return e.encode(v, req)
}

func (e *Encoder) encode(v *grid.View, req request) (*Result, error) {
	e.logger.Debug("utfgrid: encode", "width", v.Width(), "height", v.Height(), "resolution", req.Resolution)

	rows, keys, err := EncodeRows(v, req.Resolution)
	if err != nil {
		return nil, err
	}

	var data map[string]grid.Properties
	if req.Features {
		data, err = e.features.WriteFeatures(v, slices.Clone(keys))
		if err != nil {
			return nil, fmt.Errorf("%w: write features: %w", ErrEncodingFailure, err)
		}
	}

	e.logger.Debug("utfgrid: done!", "rows", len(rows), "keys", len(keys), "features", len(data))
	return newResult(rows, keys, data), nil
}
