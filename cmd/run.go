package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

// serverHolder 配置重载时替换当前 Server
type serverHolder struct {
	mu sync.Mutex
	s  *Server
}

func (h *serverHolder) get() *Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}

// restart 关闭旧服务并等待端口释放后启动新服务，新服务启动失败时保持停止状态
func (h *serverHolder) restart(runEnv *runFlags) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.s != nil {
		h.s.sc.SendCloseSignal(nil)
		if err := h.s.sc.WaitClosed(); err != nil {
			h.s.logger.Error("shutdown before reload failed", zap.Error(err))
		}
	}

	s, err := NewServer(runEnv)
	if err != nil {
		bootstrapLogger.Error("service restart err", zap.Error(err))
		h.s = nil
		return
	}
	h.s = s
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
					return
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			configPath, err := resolveConfigPath(runEnv.config)
			if err != nil {
				bootstrapLogger.Error("config file auto create error", zap.Error(err))
				return
			}
			runEnv.config = configPath

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			holder := &serverHolder{s: s}

			w := watcher.New()

			// 每个监听周期至多接收 1 个事件，只关注写入
			w.SetMaxEvents(1)
			w.FilterOps(watcher.Write)

			go func() {
				for {
					select {
					case event := <-w.Event:
						bootstrapLogger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
						holder.restart(runEnv)
					case err := <-w.Error:
						bootstrapLogger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						bootstrapLogger.Info("config watcher closed")
						return
					}
				}
			}()

			if err := w.Add(runEnv.config); err != nil {
				bootstrapLogger.Error("config watcher file error", zap.Error(err))
			} else {
				go func() {
					if err := w.Start(time.Second * 5); err != nil {
						bootstrapLogger.Error("config watcher start error", zap.Error(err))
					}
				}()
			}
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			bootstrapLogger.Info("Received shutdown signal, initiating graceful shutdown...")
			current := holder.get()
			if current == nil {
				return
			}
			current.sc.SendCloseSignal(nil)

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := current.sc.WaitClosed(); err != nil {
				current.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				current.logger.Info("Service has been shut down gracefully.")
			}
			_ = current.logger.Sync()
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
