package service

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"
)

// HealthzServer answers liveness checks for a running regression.
type HealthzServer struct {
	log    log.Logger
	server *http.Server
}

func newHealthzServer(logger log.Logger, addr string) *HealthzServer {
	h := &HealthzServer{log: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Handle)
	h.server = &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return h
}

// ListenAndServe blocks until the server is shut down.
func (h *HealthzServer) ListenAndServe() error {
	return h.server.ListenAndServe()
}

func (h *HealthzServer) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handle reports the runner as alive. GET also covers HEAD.
func (h *HealthzServer) Handle(w http.ResponseWriter, r *http.Request) {
	h.log.Trace("Health check", "remote", r.RemoteAddr)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
