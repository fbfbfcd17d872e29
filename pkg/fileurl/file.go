// Package fileurl small file system helpers
// Package fileurl 文件系统辅助函数
package fileurl

import (
	"os"
	"path/filepath"
)

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的父目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// WriteFileIfMissing writes data to dst unless it already exists, creating
// parent directories. It reports whether the file was written.
// WriteFileIfMissing 文件不存在时写入（自动创建父目录），返回是否写入
func WriteFileIfMissing(dst string, data []byte, perm os.FileMode) (bool, error) {
	if IsExist(dst) {
		return false, nil
	}
	if err := CreatePath(dst, os.ModePerm); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, perm); err != nil {
		return false, err
	}
	return true, nil
}
