// Package writequeue serializes writes per owner
// Package writequeue 按所有者串行化写操作，避免 SQLite 出现 "database is locked"
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/chrono-journal-service/pkg/logger"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 所有者的写队列已满
	ErrQueueFull = errors.New("write queue is full")
	// ErrClosed 写队列管理器已关闭
	ErrClosed = errors.New("write queue is closed")
	// ErrTimeout 等待写操作结果超时
	ErrTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每个所有者的排队上限，默认 100
	QueueCapacity int
	// WriteTimeout 等待单个写操作的最长时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout 队列空闲多久后回收 worker，默认 10 分钟
	IdleTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 10 * time.Minute
	}
	return c
}

const (
	opPending int32 = iota
	opRunning
	opAbandoned
)

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
	state  atomic.Int32
}

// start 由 worker 调用，只有仍在等待的操作才会执行
func (op *writeOp) start() bool {
	return op.state.CompareAndSwap(opPending, opRunning)
}

// abandon 由调用方放弃等待时调用，已开始执行的操作返回 false
func (op *writeOp) abandon() bool {
	return op.state.CompareAndSwap(opPending, opAbandoned)
}

// Manager 为每个所有者懒加载一个 worker，同一所有者的写操作按 FIFO 顺序执行
type Manager struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[string]chan *writeOp
	closed bool

	stop    chan struct{}
	workers sync.WaitGroup
}

// New 创建写队列管理器，lg 为 nil 时使用 nop logger
func New(cfg Config, lg *zap.Logger) *Manager {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Manager{
		cfg:    cfg.withDefaults(),
		logger: lg,
		queues: make(map[string]chan *writeOp),
		stop:   make(chan struct{}),
	}
}

// Execute 将 fn 排入 owner 的队列并等待结果
// 返回 ErrTimeout 或 ctx 错误时 fn 保证没有执行；fn 已开始执行时等待其结果
func (m *Manager) Execute(ctx context.Context, owner string, fn func() error) error {
	op := &writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	q, ok := m.queues[owner]
	if !ok {
		q = make(chan *writeOp, m.cfg.QueueCapacity)
		m.queues[owner] = q
		m.workers.Add(1)
		go m.worker(owner, q)
	}
	select {
	case q <- op:
	default:
		m.mu.Unlock()
		return ErrQueueFull
	}
	m.mu.Unlock()

	timer := time.NewTimer(m.cfg.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		if op.abandon() {
			return ctx.Err()
		}
	case <-timer.C:
		if op.abandon() {
			return ErrTimeout
		}
	}
	return <-op.result
}

// worker 执行 owner 的写操作，空闲超时且队列为空时退出
func (m *Manager) worker(owner string, q chan *writeOp) {
	defer m.workers.Done()

	idle := time.NewTimer(m.cfg.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case op := <-q:
			m.run(op)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(m.cfg.IdleTimeout)
		case <-idle.C:
			m.mu.Lock()
			if len(q) == 0 {
				delete(m.queues, owner)
				m.mu.Unlock()
				m.logger.Debug("write queue released", zap.String(logger.FieldUID, owner))
				return
			}
			m.mu.Unlock()
			idle.Reset(m.cfg.IdleTimeout)
		case <-m.stop:
			for {
				select {
				case op := <-q:
					m.run(op)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) run(op *writeOp) {
	if !op.start() {
		return
	}
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- op.fn()
}

// QueueCount 当前活跃的所有者队列数
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// Shutdown 拒绝新的写操作，执行完已排队的操作后返回
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.stop)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}
