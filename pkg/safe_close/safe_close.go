// Package safe_close coordinates graceful shutdown of attached workers
// Package safe_close 协调已挂载协程的优雅退出
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached worker and waits
// for them to call done. The first non-nil error passed to SendCloseSignal
// is returned by WaitClosed.
// SafeClose 向所有挂载的协程广播关闭信号并等待其结束
type SafeClose struct {
	closeSignal chan struct{}
	wg          sync.WaitGroup
	once        sync.Once
	mu          sync.Mutex
	err         error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in a goroutine; fn must call done when it has finished
// Attach 在协程中运行 fn，fn 结束时必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	done := func() { doneOnce.Do(s.wg.Done) }
	go fn(done, s.closeSignal)
}

// SendCloseSignal closes the signal channel once; later calls only record err
// SendCloseSignal 只关闭一次信号通道
func (s *SafeClose) SendCloseSignal(err error) {
	if err != nil {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
	s.once.Do(func() { close(s.closeSignal) })
}

// CloseSignal channel closed once shutdown begins
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until every attached worker has called done
// WaitClosed 阻塞直到所有协程调用 done
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
