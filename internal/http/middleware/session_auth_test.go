package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/services"
)

func authTestRouter(t *testing.T, tokens services.SessionTokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := gin.New()
	mw := NewSessionAuthMiddleware(log, tokens)
	r.Use(mw.RequireSession())
	r.GET("/guarded", func(c *gin.Context) {
		id, ok := SessionID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func newTokens(t *testing.T, secret string) services.SessionTokenService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return services.NewSessionTokenService(log, secret, time.Hour)
}

func TestRequireSessionAcceptsBearerToken(t *testing.T) {
	tokens := newTokens(t, "secret")
	r := authTestRouter(t, tokens)

	sessionID := uuid.New()
	token, err := tokens.Issue(sessionID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != sessionID.String() {
		t.Fatalf("session id: want=%s got=%s", sessionID, rec.Body.String())
	}
}

func TestRequireSessionAcceptsQueryToken(t *testing.T) {
	tokens := newTokens(t, "secret")
	r := authTestRouter(t, tokens)

	token, err := tokens.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/guarded?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
}

func TestRequireSessionRejectsMissingAndForgedTokens(t *testing.T) {
	tokens := newTokens(t, "secret")
	other := newTokens(t, "other-secret")
	r := authTestRouter(t, tokens)

	forged, err := other.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"missing token", func(*http.Request) {}},
		{"malformed header", func(req *http.Request) { req.Header.Set("Authorization", "Token abc") }},
		{"forged token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+forged) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: want=%d got=%d", http.StatusUnauthorized, rec.Code)
			}
		})
	}
}
