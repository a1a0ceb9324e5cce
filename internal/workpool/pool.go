// Package workpool provides schedulers for background encodes: a fixed-size
// worker pool and a loop drained by its owner's goroutine.
package workpool

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
)

// ErrClosed is the panic value of Schedule on a closed Pool.
var ErrClosed = errors.New("workpool: schedule on closed pool")

// queue is an unbounded FIFO of tasks. Schedule never blocks.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *queue) push(task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		panic(ErrClosed)
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
}

// pop waits for a task. It returns false once the queue is closed and empty.
func (q *queue) pop(wait bool) (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) == 0 {
		if q.closed || !wait {
			return nil, false
		}
		q.cond.Wait()
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task, true
}

func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Pool runs scheduled tasks on a fixed number of worker goroutines.
type Pool struct {
	queue     *queue
	wg        sync.WaitGroup
	closeOnce sync.Once
	logger    *slog.Logger
}

type poolConfig struct {
	Workers int
	Logger  *slog.Logger
}

type Option func(*poolConfig)

// WithWorkers sets the number of workers (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *poolConfig) { c.Workers = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *poolConfig) { c.Logger = logger }
}

func New(opts ...Option) *Pool {
	config := poolConfig{
		Workers: runtime.NumCPU(),
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	p := &Pool{queue: newQueue(), logger: config.Logger}
	p.wg.Add(config.Workers)
	for i := range config.Workers {
		go p.work(i)
	}
	p.logger.Debug("workpool: started", "workers", config.Workers)
	return p
}

func (p *Pool) work(worker int) {
	defer p.wg.Done()
	for {
		task, ok := p.queue.pop(true)
		if !ok {
			p.logger.Debug("workpool: worker stopped", "worker", worker)
			return
		}
		task()
	}
}

// Schedule queues task for execution. It panics with ErrClosed after Close.
func (p *Pool) Schedule(task func()) {
	p.queue.push(task)
}

// Close stops accepting tasks, runs everything already queued and waits
// for the workers to exit.
func (p *Pool) Close() error {
	p.closeOnce.Do(p.queue.close)
	p.wg.Wait()
	return nil
}
