package workpool

import "context"

// Loop queues tasks from any goroutine and runs them, in order, on the
// goroutine that calls Run or Poll.
type Loop struct {
	queue  *queue
	notify chan struct{}
}

func NewLoop() *Loop {
	return &Loop{queue: newQueue(), notify: make(chan struct{}, 1)}
}

func (l *Loop) Schedule(task func()) {
	l.queue.push(task)
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Poll runs the tasks queued so far without waiting and returns their count.
func (l *Loop) Poll() int {
	n := 0
	for {
		task, ok := l.queue.pop(false)
		if !ok {
			return n
		}
		task()
		n++
	}
}

// Run runs tasks as they arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Poll()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.notify:
		}
	}
}

// RunN runs tasks until n of them have completed or ctx is done.
func (l *Loop) RunN(ctx context.Context, n int) error {
	for n > 0 {
		for n > 0 {
			task, ok := l.queue.pop(false)
			if !ok {
				break
			}
			task()
			n--
		}
		if n == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.notify:
		}
	}
	return nil
}
