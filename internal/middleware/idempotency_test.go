package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mr-RSA369/leave-management-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success first request acquires lock", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", func(c *gin.Context) {
			c.Set("user_id", "u1")
		}, middleware.Idempotency(client), func(c *gin.Context) {
			assert.NotEmpty(t, c.GetString("idempotency_cache_key"))
			assert.NotEmpty(t, c.GetString("idempotency_lock_key"))
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		cacheKey := "idemp:/leave-requests:u1:abc-123"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success cached response replayed with original status and message", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		r := gin.New()
		handlerCalled := false
		r.POST("/leave-requests", func(c *gin.Context) {
			c.Set("user_id", "u1")
		}, middleware.Idempotency(client), func(c *gin.Context) {
			handlerCalled = true
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		cacheKey := "idemp:/leave-requests:u1:abc-123"
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"message":"Leave request submitted successfully","data":{"id":"cached-leave"}}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.False(t, handlerCalled)
		assert.Contains(t, w.Body.String(), "cached-leave")
		assert.Contains(t, w.Body.String(), "Leave request submitted successfully")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative malformed cache entry processed afresh", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", func(c *gin.Context) {
			c.Set("user_id", "u1")
		}, middleware.Idempotency(client), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		cacheKey := "idemp:/leave-requests:u1:abc-123"
		mock.ExpectGet(cacheKey).SetVal(`{"id":"cached-leave"}`)
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative duplicate in flight", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", func(c *gin.Context) {
			c.Set("user_id", "u1")
		}, middleware.Idempotency(client), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		cacheKey := "idemp:/leave-requests:u1:abc-123"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already being processed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success no key skips redis entirely", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", middleware.Idempotency(client), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
