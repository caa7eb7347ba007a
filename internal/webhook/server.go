package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/assetsync/internal/scalefusion"
)

// Server represents the webhook HTTP server.
type Server struct {
	config  Config
	syncer  DeviceSyncer
	journal EventJournal // nil when journaling is disabled
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new webhook server instance.
func New(config Config, syncer DeviceSyncer, journal EventJournal, logger *slog.Logger) *Server {
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	return &Server{
		config:  config,
		syncer:  syncer,
		journal: journal,
		logger:  logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "path", s.config.Path)

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post(s.config.Path, s.handleWebhook)

	return r
}

// loggingMiddleware logs HTTP requests (excludes payload contents).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook handles incoming webhook POST requests.
//
// The flow is linear: read body, authenticate, parse, journal, filter,
// fan out, acknowledge. The raw body and signature header are read before
// any JSON decode so verification always runs over the exact bytes sent.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Enforce body size limit
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusInternalServerError)
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	signature := r.Header.Get(s.config.SignatureHeader)

	switch err := verifySignature(body, signature, s.config.Secret); {
	case errors.Is(err, ErrMissingMaterial):
		s.logger.Warn("webhook missing signature or secret",
			"header", s.config.SignatureHeader,
			"request_id", middleware.GetReqID(ctx),
		)
		http.Error(w, "missing signature or secret", http.StatusBadRequest)
		return
	case err != nil:
		s.logger.Error("webhook signature mismatch",
			"request_id", middleware.GetReqID(ctx),
		)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	evt, err := scalefusion.Parse(body)
	if err != nil {
		s.logger.Error("invalid webhook payload", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	s.logger.Info("verified webhook received",
		"event", evt.Event,
		"event_id", evt.ID,
		"devices", len(evt.Data.Devices),
	)

	// Journal the verified event. Best-effort: failures are logged and do
	// not change the response.
	if s.journal != nil {
		if _, err := s.journal.Record(ctx, evt.ID, evt.Event, body, signature); err != nil {
			s.logger.Error("failed to journal webhook event", "event_id", evt.ID, "error", err)
		}
	}

	if evt.Event == scalefusion.EventDeviceEnrolled {
		s.dispatch(ctx, evt)
	} else {
		s.logger.Debug("ignoring event type", "event", evt.Event)
	}

	// Per-device outcomes never change the acknowledgement: the sender
	// cannot fix a downstream sync error by redelivering.
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

// dispatch forwards each device to the syncer, strictly in payload order.
// One device's failure never aborts the rest.
func (s *Server) dispatch(ctx context.Context, evt *scalefusion.Event) {
	for _, device := range evt.Data.Devices {
		if err := s.syncer.SyncDevice(ctx, device); err != nil {
			s.logger.Error("device sync failed",
				"event_id", evt.ID,
				"asset_tag", device.Name,
				"serial", device.SerialNo,
				"error", err,
			)
		}
	}
}
