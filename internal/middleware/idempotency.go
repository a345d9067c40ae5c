package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mr-RSA369/leave-management-api/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CachedResponse is the first response persisted under an idempotency
// key. Status, message and body are replayed verbatim so a retry is
// indistinguishable from the original response.
type CachedResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Idempotency guards POST submissions against double-delivery. A cached
// response is replayed verbatim; an in-flight duplicate (lock present)
// is rejected so two identical submissions cannot both pass the
// conflict and balance checks.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached CachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil && cached.Status != 0 {
				c.AbortWithStatusJSON(cached.Status, response.Envelope{
					Success: true,
					Message: cached.Message,
					Data:    cached.Data,
				})
				return
			}
			// Malformed cache entry: fall through and process afresh.
		}

		// Short-lived lock so a crashed request cannot wedge the key.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "A request with this idempotency key is already being processed",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
