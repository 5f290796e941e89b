package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponse serves successful GET responses from Redis for a short TTL,
// keyed by the full request URI. Best-effort: a nil client or any Redis
// failure falls through to the handler.
func CacheResponse(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "cache:" + c.Request.URL.RequestURI()
		if body, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		w := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK || w.buf.Len() == 0 {
			return
		}
		if err := rdb.Set(c.Request.Context(), key, w.buf.Bytes(), ttl).Err(); err != nil {
			log.Debug().
				Str("key", key).
				Err(err).
				Msg("response cache store failed")
		}
	}
}
