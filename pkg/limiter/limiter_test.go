package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMethodLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewMethodLimiter().AddBuckets(BucketRule{
		Key:          "/api/entries",
		FillInterval: time.Hour,
		Capacity:     2,
		Quantum:      1,
	})

	bucket, ok := l.GetBucket("/api/entries")
	assert.True(t, ok)
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(0), bucket.TakeAvailable(1))

	_, ok = l.GetBucket("/api/other")
	assert.False(t, ok)
}

func TestMethodLimiter_Key(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewMethodLimiter()

	var got string
	r := gin.New()
	r.GET("/api/entries/:id", func(c *gin.Context) {
		got = l.Key(c)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/entries/abc?x=1", nil))

	assert.Equal(t, "/api/entries/:id", got)
}
