package task

import (
	"context"

	"github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/internal/domain"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// DbOptimizeTask 刷新数据库查询规划器统计信息
type DbOptimizeTask struct {
	maintainer domain.Maintainer
	schedule   cron.Schedule
}

// Name 返回任务名称
func (t *DbOptimizeTask) Name() string {
	return "DbOptimize"
}

// Schedule 返回 cron 调度
func (t *DbOptimizeTask) Schedule() cron.Schedule {
	return t.schedule
}

// IsStartupRun 启动时不执行
func (t *DbOptimizeTask) IsStartupRun() bool {
	return false
}

// Run 执行维护
func (t *DbOptimizeTask) Run(ctx context.Context) error {
	return t.maintainer.Optimize(ctx)
}

// NewDbOptimizeTask 创建数据库维护任务，expr 为空时返回 nil
func NewDbOptimizeTask(maintainer domain.Maintainer, expr string) (Task, error) {
	if expr == "" || maintainer == nil {
		return nil, nil
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "parse task.db-optimize-cron %q", expr)
	}
	return &DbOptimizeTask{maintainer: maintainer, schedule: schedule}, nil
}

// init 自动注册数据库维护任务
func init() {
	Register(func(appContainer *app.App) (Task, error) {
		return NewDbOptimizeTask(appContainer.Dao, appContainer.Config().Task.DbOptimizeCron)
	})
}
