package cmd

import (
	"strings"

	internalApp "github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/pkg/fileurl"
	"github.com/haierkeys/chrono-journal-service/pkg/util"

	"go.uber.org/zap"
)

// defaultConfigPath 找不到配置文件时写入默认配置的位置
const defaultConfigPath = "config/config.yaml"

// resolveConfigPath 按 config/config-dev.yaml、config.yaml、config/config.yaml 的顺序查找配置
// 都不存在时写入内嵌的默认配置，并把占位密钥替换为随机密钥
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", defaultConfigPath} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	content := strings.Replace(configDefault, internalApp.PlaceholderAuthTokenKey, util.GetRandomString(32), 1)
	if _, err := fileurl.WriteFileIfMissing(defaultConfigPath, []byte(content), 0o644); err != nil {
		return "", err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", defaultConfigPath))
	return defaultConfigPath, nil
}
