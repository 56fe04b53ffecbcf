package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/productboard/pkg/config"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func Test_NewHTTPServer(t *testing.T) {
	var cfg config.HTTPConfig
	cfg.Port = 8080
	cfg.MaxHeaderBytes = 1 << 20
	cfg.Timeout.Read = time.Second
	cfg.Timeout.Write = 2 * time.Second
	cfg.Timeout.Idle = 3 * time.Second
	cfg.Timeout.ReadHeader = 4 * time.Second

	srv := NewHTTPServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)
}

func Test_NewChiRouter_RequestID(t *testing.T) {
	// given
	mux := NewChiRouter("test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	var reqID string
	mux.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		reqID = middleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	rr := httptest.NewRecorder()
	// when
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	// then
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotEmpty(t, reqID)
	assert.Equal(t, reqID, rr.Header().Get(middleware.RequestIDHeader))
}
