package util

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GetRandomString 生成指定长度的随机字符串
// Draws from crypto/rand; results seed signing keys.
func GetRandomString(length int) string {
	limit := big.NewInt(int64(len(randomCharset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b[i] = randomCharset[i%len(randomCharset)]
			continue
		}
		b[i] = randomCharset[n.Int64()]
	}
	return string(b)
}
