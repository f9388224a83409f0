package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/auth"
	"github.com/kbukum/transcriptiond/auth/authctx"
	"github.com/kbukum/transcriptiond/server/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

func authRouter(v auth.TokenValidator) *gin.Engine {
	r := gin.New()
	r.POST("/transcribe", middleware.Auth(v), func(c *gin.Context) {
		sub, _ := authctx.Get[string](c.Request.Context())
		c.String(http.StatusOK, sub)
	})
	return r
}

func TestAuth(t *testing.T) {
	validator := auth.TokenValidatorFunc(func(token string) (any, error) {
		switch token {
		case "good":
			return "alice", nil
		case "old":
			return nil, auth.ErrTokenExpired
		default:
			return nil, errors.New("bad signature")
		}
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", "Bearer old", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"invalid", "Bearer nope", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid", "Bearer good", http.StatusOK, "alice"},
		{"lowercase scheme", "bearer good", http.StatusOK, "alice"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/transcribe", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			authRouter(validator).ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			if !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Fatalf("body %q does not contain %q", rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestAuth_NilValidatorAllowsAll(t *testing.T) {
	rr := httptest.NewRecorder()
	authRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transcribe", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", rr.Code)
	}
}
