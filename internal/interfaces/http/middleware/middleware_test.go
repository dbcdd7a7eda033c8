package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"pox-ledger.backend/pkg/crypto"
	"pox-ledger.backend/pkg/redis"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	redis.SetClient(cli)
	t.Cleanup(func() {
		redis.SetClient(nil)
		_ = cli.Close()
	})
	return srv
}

func idempotentRouter(handled *atomic.Int32, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/pay", IdempotencyMiddleware(), func(c *gin.Context) {
		n := handled.Add(1)
		c.JSON(status, gin.H{"attempt": n})
	})
	return r
}

func TestIdempotencyMiddleware_ReplaysRecordedResponse(t *testing.T) {
	setupTestRedis(t)

	var handled atomic.Int32
	r := idempotentRouter(&handled, http.StatusCreated)

	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set(IdempotencyHeader, "key-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, int32(1), handled.Load())
	firstBody := w.Body.String()

	// same key: handler is not invoked again
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "true", w.Header().Get("X-Idempotency-Hit"))
	require.JSONEq(t, firstBody, w.Body.String())
	require.Equal(t, int32(1), handled.Load())

	// different key runs the handler
	req2 := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req2.Header.Set(IdempotencyHeader, "key-2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req2)
	require.Equal(t, int32(2), handled.Load())
}

func TestIdempotencyMiddleware_NoHeaderPassesThrough(t *testing.T) {
	setupTestRedis(t)

	var handled atomic.Int32
	r := idempotentRouter(&handled, http.StatusOK)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pay", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, int32(2), handled.Load())
}

func TestIdempotencyMiddleware_FailureReleasesKey(t *testing.T) {
	setupTestRedis(t)

	var handled atomic.Int32
	r := idempotentRouter(&handled, http.StatusPaymentRequired)

	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set(IdempotencyHeader, "key-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	// the failed attempt is not replayed; the retry runs the handler again
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, int32(2), handled.Load())
}

func TestIdempotencyMiddleware_InFlightConflicts(t *testing.T) {
	srv := setupTestRedis(t)

	var handled atomic.Int32
	r := idempotentRouter(&handled, http.StatusOK)

	require.NoError(t, srv.Set("idempotency:/pay:key-1", "processing"))

	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set(IdempotencyHeader, "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "idempotency_conflict")
	require.Equal(t, int32(0), handled.Load())
}

func TestAppAccessMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hash, err := crypto.HashSecret("letmein")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/guarded", AppAccessMiddleware(hash), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// no secret
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/guarded", nil))
	require.Equal(t, http.StatusForbidden, w.Code)

	// wrong secret
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set(AppSecretHeader, "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	// correct secret
	req.Header.Set(AppSecretHeader, "letmein")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	// empty hash disables the gate entirely
	open := gin.New()
	open.POST("/guarded", AppAccessMiddleware(""), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	w = httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/guarded", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", RequestIDMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	// generated when absent
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Body.String())

	// propagated when supplied
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "req-42", w.Body.String())
}
