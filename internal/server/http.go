package server

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/logger"
)

type httpServer struct {
	server *nethttp.Server
	logger *logger.Logger
}

func newHTTPServer(router *chi.Mux, cfg config.Server, logger *logger.Logger) *httpServer {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return &httpServer{
		server: &nethttp.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           nethttp.TimeoutHandler(router, requestTimeout, "request timed out"),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       time.Minute,
		},
		logger: logger,
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		h.logger.Error().Err(err).Msg("HTTP server ListenAndServe")
	}
}

func (h *httpServer) Shutdown() {
	if err := h.server.Shutdown(context.Background()); err != nil {
		h.logger.Error().Err(err).Msg("HTTP server Shutdown")
	}
}
