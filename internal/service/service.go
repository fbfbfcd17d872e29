package service

import (
	"context"
	"errors"

	"github.com/haierkeys/chrono-journal-service/pkg/code"
	"github.com/haierkeys/chrono-journal-service/pkg/logger"
	"github.com/haierkeys/chrono-journal-service/pkg/writequeue"

	"go.uber.org/zap"
)

// storageError logs err and reports it as a database failure
// storageError 记录存储错误并转换为数据库错误码
func storageError(lg *zap.Logger, method, uid string, err error) error {
	lg.Error("storage failure",
		zap.String(logger.FieldMethod, method),
		zap.String(logger.FieldUID, uid),
		zap.Error(err),
	)
	return code.ErrorDBQuery.WithDetails(err.Error())
}

// writeError maps write queue failures to response codes, everything else is a storage failure
// writeError 将写队列错误转换为对应错误码，其余按存储错误处理
func writeError(lg *zap.Logger, method, uid string, err error) error {
	switch {
	case errors.Is(err, writequeue.ErrQueueFull):
		lg.Warn("write queue full", zap.String(logger.FieldMethod, method), zap.String(logger.FieldUID, uid))
		return code.ErrorTooManyRequests
	case errors.Is(err, writequeue.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return code.ErrorRequestTimeout
	case errors.Is(err, writequeue.ErrClosed):
		return code.ErrorServerInternal.WithDetails(err.Error())
	}
	return storageError(lg, method, uid, err)
}
