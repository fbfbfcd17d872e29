package cmd

import (
	"os"

	"github.com/haierkeys/chrono-journal-service/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// debugEnv 非空时启动阶段输出 debug 日志
const debugEnv = "CHRONO_DEBUG"

// bootstrapLogger 配置文件加载前使用的控制台日志器，配置加载后由 pkg/logger 构建的日志器接替
var bootstrapLogger = newBootstrapLogger(os.Getenv(debugEnv) != "")

func newBootstrapLogger(debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	lg, err := logger.NewLogger(logger.Config{Level: level.String()})
	if err != nil {
		return zap.NewNop()
	}
	return lg.Named("bootstrap")
}
