package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/auth"
)

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(ContextUserID),
			"username": c.GetString(ContextUsername),
		})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "middleware-test-secret", JWTExpiration: time.Minute}
	router := newAuthRouter(cfg)

	validToken, err := auth.GenerateJWT("user-1", "alice", cfg.JWTSecret, cfg.JWTExpiration)
	require.NoError(t, err)
	expiredToken, err := auth.GenerateJWT("user-1", "alice", cfg.JWTSecret, -time.Minute)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, `{"error":"unauthorized: authorization header required"}`},
		{"wrong scheme", "Token " + validToken, http.StatusUnauthorized, `{"error":"unauthorized: authorization header format must be Bearer {token}"}`},
		{"malformed token", "Bearer abc", http.StatusUnauthorized, `{"error":"Invalid or malformed authentication token."}`},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, `{"error":"Authentication token has expired."}`},
		{"valid token", "bearer " + validToken, http.StatusOK, `{"user_id":"user-1","username":"alice"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}
