package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testSecret = "test-jwt-secret-32bytes-padded!!"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(99, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(99), claims.AccountID)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	tok, err := GenerateToken(1, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, "wrong-secret")
	assert.Error(t, err)

	expired, err := GenerateToken(1, testSecret, -time.Second)
	require.NoError(t, err)
	_, err = ParseToken(expired, testSecret)
	assert.Error(t, err)

	_, err = ParseToken("not.a.jwt", testSecret)
	assert.Error(t, err)
}

func newTraceRouter() *gin.Engine {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c))
	})
	return r
}

func TestTraceIDGenerated(t *testing.T) {
	r := newTraceRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trace", nil))
	require.Equal(t, http.StatusOK, w.Code)

	id := w.Body.String()
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Header().Get(TraceIDHeader))
}

func TestTraceIDFromClientHonored(t *testing.T) {
	r := newTraceRouter()
	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(TraceIDHeader, "client-supplied")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied", w.Body.String())
	assert.Equal(t, "client-supplied", w.Header().Get(TraceIDHeader))
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(rate.Limit(1), 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
