package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/probiller/purchase-gateway/internal/http/handlers"
)

func TestRouterServesHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{HealthHandler: httpH.NewHealthHandler()})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("body: want=ok got=%q", rec.Body.String())
	}
}

func TestRouterSkipsUnconfiguredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase/init", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
}
