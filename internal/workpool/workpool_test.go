package workpool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eak1mov/go-utfgrid/internal/workpool"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAll(t *testing.T) {
	pool := workpool.New(workpool.WithWorkers(4))

	var count atomic.Int64
	for range 1000 {
		pool.Schedule(func() { count.Add(1) })
	}
	require.NoError(t, pool.Close())
	require.Equal(t, int64(1000), count.Load())

	require.PanicsWithValue(t, workpool.ErrClosed, func() { pool.Schedule(func() {}) })
	require.NoError(t, pool.Close())
}

func TestPoolConcurrency(t *testing.T) {
	pool := workpool.New(workpool.WithWorkers(2))
	defer pool.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	release := make(chan struct{})
	for range 2 {
		pool.Schedule(func() {
			wg.Done()
			<-release
		})
	}

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not run concurrently")
	}
	close(release)
}

func TestLoopOrder(t *testing.T) {
	loop := workpool.NewLoop()

	var got []int
	for i := range 5 {
		loop.Schedule(func() { got = append(got, i) })
	}
	require.Equal(t, 5, loop.Poll())
	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
	require.Equal(t, 0, loop.Poll())
}

func TestLoopRunN(t *testing.T) {
	loop := workpool.NewLoop()
	pool := workpool.New(workpool.WithWorkers(3))
	defer pool.Close()

	caller := make(chan int, 10)
	for i := range 10 {
		pool.Schedule(func() {
			loop.Schedule(func() { caller <- i })
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, loop.RunN(ctx, 10))
	require.Len(t, caller, 10)
}

func TestLoopRunCancelled(t *testing.T) {
	loop := workpool.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	ran := false
	loop.Schedule(func() {
		ran = true
		cancel()
	})
	require.ErrorIs(t, loop.Run(ctx), context.Canceled)
	require.True(t, ran)
}
