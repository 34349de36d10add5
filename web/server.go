// Package web wires the HTTP server, routes and middleware around the widget
// handlers.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lhung/web-widgets/web/handlers"
	"github.com/lhung/web-widgets/web/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server is the widget HTTP front end.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New builds the server with its routes and middleware chain.
func New(addr string, deps handlers.Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
		deps.Logger = logger
	}

	api := handlers.NewAPIHandlers(deps)

	router := mux.NewRouter()
	router.HandleFunc("/api/offers", api.Offers).Methods(http.MethodGet)
	router.HandleFunc("/api/profile", api.Profile).Methods(http.MethodGet)
	router.HandleFunc("/api/reviews/latest", api.LatestReview).Methods(http.MethodGet)
	router.HandleFunc("/healthz", api.Health).Methods(http.MethodGet)

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.AccessLog(logger),
		middleware.SecurityHeaders,
	)

	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", zap.String("addr", s.srv.Addr))

		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.srv.Shutdown(shutdownCtx)
}
