package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/chrono-journal-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type everySchedule time.Duration

func (e everySchedule) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

type countingTask struct {
	runs     atomic.Int32
	startup  bool
	schedule cron.Schedule
	fail     bool
}

func (t *countingTask) Name() string            { return "counting" }
func (t *countingTask) Schedule() cron.Schedule { return t.schedule }
func (t *countingTask) IsStartupRun() bool      { return t.startup }
func (t *countingTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	if t.fail {
		return errors.New("boom")
	}
	return nil
}

type panicTask struct{ countingTask }

func (t *panicTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	panic("task exploded")
}

type fakeMaintainer struct{ calls atomic.Int32 }

func (m *fakeMaintainer) Optimize(ctx context.Context) error {
	m.calls.Add(1)
	return nil
}

func TestScheduler_RunsUntilClosed(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc)

	looping := &countingTask{schedule: everySchedule(5 * time.Millisecond), fail: true}
	once := &countingTask{startup: true}
	s.AddTask(looping)
	s.AddTask(once)
	s.Start()

	require.Eventually(t, func() bool { return looping.runs.Load() >= 3 }, time.Second, time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())

	assert.Equal(t, int32(1), once.runs.Load())
	stopped := looping.runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, looping.runs.Load())
}

func TestScheduler_RecoversPanic(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc)

	p := &panicTask{countingTask{schedule: everySchedule(5 * time.Millisecond)}}
	s.AddTask(p)
	s.Start()

	require.Eventually(t, func() bool { return p.runs.Load() >= 2 }, time.Second, time.Millisecond)
	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
}

func TestNewDbOptimizeTask(t *testing.T) {
	m := &fakeMaintainer{}

	task, err := NewDbOptimizeTask(m, "")
	require.NoError(t, err)
	assert.Nil(t, task)

	_, err = NewDbOptimizeTask(m, "not a cron")
	assert.Error(t, err)

	task, err = NewDbOptimizeTask(m, "CRON_TZ=UTC 0 4 * * *")
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "DbOptimize", task.Name())
	assert.False(t, task.IsStartupRun())

	from := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	next := task.Schedule().Next(from)
	assert.True(t, next.Equal(time.Date(2024, 3, 2, 4, 0, 0, 0, time.UTC)), next.String())

	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, int32(1), m.calls.Load())
}
