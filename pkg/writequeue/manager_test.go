package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SerializesPerOwner(t *testing.T) {
	m := New(Config{}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	var running, maxRunning atomic.Int32
	var order []int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := m.Execute(context.Background(), "owner-1", func() error {
				n := running.Add(1)
				for {
					cur := maxRunning.Load()
					if n <= cur || maxRunning.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Len(t, order, 20)
	assert.Equal(t, 1, m.QueueCount())
}

func TestExecute_ReturnsError(t *testing.T) {
	m := New(Config{}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	want := errors.New("boom")
	assert.ErrorIs(t, m.Execute(context.Background(), "a", func() error { return want }), want)
}

func TestExecute_QueueFullAndTimeout(t *testing.T) {
	m := New(Config{QueueCapacity: 1, WriteTimeout: 20 * time.Millisecond}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "a", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// 占满队列
	go func() { _ = m.Execute(context.Background(), "a", func() error { return nil }) }()
	require.Eventually(t, func() bool {
		return errors.Is(m.Execute(context.Background(), "a", func() error { return nil }), ErrQueueFull)
	}, time.Second, time.Millisecond)
	close(release)
}

func TestExecute_TimedOutWriteNeverRuns(t *testing.T) {
	m := New(Config{WriteTimeout: 50 * time.Millisecond}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	release := make(chan struct{})
	started := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.Execute(context.Background(), "a", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var ran atomic.Bool
	err := m.Execute(context.Background(), "a", func() error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, ErrTimeout)

	close(release)
	require.NoError(t, <-firstDone)

	// 队列中的后续写操作仍能执行，被放弃的操作不会执行
	require.NoError(t, m.Execute(context.Background(), "a", func() error { return nil }))
	assert.False(t, ran.Load())
}

func TestExecute_CancelledWriteNeverRuns(t *testing.T) {
	m := New(Config{}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "a", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	done := make(chan error, 1)
	go func() {
		done <- m.Execute(ctx, "a", func() error {
			ran.Store(true)
			return nil
		})
	}()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.NoError(t, m.Execute(context.Background(), "a", func() error { return nil }))
	assert.False(t, ran.Load())
}

func TestExecute_RunningWriteReportsOutcome(t *testing.T) {
	m := New(Config{WriteTimeout: 10 * time.Millisecond}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	want := errors.New("late failure")
	err := m.Execute(context.Background(), "b", func() error {
		time.Sleep(50 * time.Millisecond)
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestIdleWorkerReleased(t *testing.T) {
	m := New(Config{IdleTimeout: 10 * time.Millisecond}, nil)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	require.NoError(t, m.Execute(context.Background(), "a", func() error { return nil }))
	require.Eventually(t, func() bool { return m.QueueCount() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Execute(context.Background(), "a", func() error { return nil }))
}

func TestShutdown(t *testing.T) {
	m := New(Config{}, nil)
	require.NoError(t, m.Execute(context.Background(), "a", func() error { return nil }))
	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.ErrorIs(t, m.Execute(context.Background(), "a", func() error { return nil }), ErrClosed)
}
