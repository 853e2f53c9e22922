package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestServerShutdownBeforeStart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer(0, Deps{Registry: mustRegistry(t), Generator: testGenerator()})
	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.ErrorIs(t, srv.Start(), http.ErrServerClosed)
}

func TestServerHandlerServesRoutes(t *testing.T) {
	srv := NewServer(0, Deps{Registry: mustRegistry(t), Generator: testGenerator()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/consent", nil)
	req.Header.Set("Origin", "https://studio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
