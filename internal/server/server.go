// Package server wires the gateway's HTTP endpoints to the orchestration
// service and the audit store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chromabiz/chromabiz/internal/config"
	"github.com/chromabiz/chromabiz/internal/database"
	"github.com/chromabiz/chromabiz/internal/palette"
	"github.com/chromabiz/chromabiz/internal/quota"
	"github.com/chromabiz/chromabiz/internal/service"
)

const (
	statusCheckListLimit = 1000
	healthCheckTimeout   = 2 * time.Second
)

// PaletteService is the orchestration surface the router depends on.
// Satisfied by *service.Service.
type PaletteService interface {
	GeneratePalettes(ctx context.Context, req palette.BrandingRequest, clientID string) (*service.GenerationResult, error)
	Refine(ctx context.Context, chatCtx palette.ChatContext, message, clientID string) (*service.RefineResult, error)
	RateLimit(ctx context.Context, clientID string) (quota.Status, error)
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	svc         PaletteService
	store       database.Store
	validate    *validator.Validate
	corsOrigins []string
}

// NewRouter assembles routes with dependencies. store may be nil when no
// audit database is configured; the status endpoints then report 503.
func NewRouter(logger *slog.Logger, svc PaletteService, store database.Store, corsOrigins []string) *Router {
	r := &Router{
		mux:         http.NewServeMux(),
		logger:      logger.With("component", "http"),
		svc:         svc,
		store:       store,
		validate:    validator.New(),
		corsOrigins: corsOrigins,
	}
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux wrapped in CORS and logging.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.withLogging(r.withCORS(r.mux)).ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/api/", r.handleRoot)
	r.mux.HandleFunc("/healthz", r.handleHealthz)
	r.mux.HandleFunc("/api/generate-palettes", r.handleGeneratePalettes)
	r.mux.HandleFunc("/api/chat", r.handleChat)
	r.mux.HandleFunc("/api/rate-limit", r.handleRateLimit)
	r.mux.HandleFunc("/api/status", r.handleStatus)
}

func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/api/" && req.URL.Path != "/api" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ChromaBiz AI API"})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if r.store != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.store.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleGeneratePalettes(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}

	var payload palette.BrandingRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := r.validate.Struct(payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "missing required branding fields")
		return
	}

	result, err := r.svc.GeneratePalettes(req.Context(), payload, clientIP(req))
	if err != nil {
		if errors.Is(err, service.ErrQuotaExceeded) {
			writeError(w, http.StatusTooManyRequests, "Daily generation limit reached. Please try again tomorrow.")
			return
		}
		r.logger.ErrorContext(req.Context(), "Palette generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate palettes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	Message   string              `json:"message"    validate:"required"`
	Context   palette.ChatContext `json:"context"`
	SessionID string              `json:"session_id"`
}

func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}

	var payload chatRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := r.validate.Struct(payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	result, err := r.svc.Refine(req.Context(), payload.Context, payload.Message, clientIP(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "Daily revision limit reached. Please try again tomorrow.")
		case errors.Is(err, service.ErrProvider):
			r.logger.ErrorContext(req.Context(), "Chat refinement provider failure", "error", err)
			writeError(w, http.StatusBadGateway, "Failed to get AI response")
		default:
			r.logger.ErrorContext(req.Context(), "Chat refinement failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get AI response")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type rateLimitResponse struct {
	GenerationsRemaining int    `json:"generations_remaining"`
	RevisionsRemaining   int    `json:"revisions_remaining"`
	ResetTime            string `json:"reset_time"`
}

func (r *Router) handleRateLimit(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}

	status, err := r.svc.RateLimit(req.Context(), clientIP(req))
	if err != nil {
		r.logger.ErrorContext(req.Context(), "Rate limit status read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read rate limit status")
		return
	}

	writeJSON(w, http.StatusOK, rateLimitResponse{
		GenerationsRemaining: status.GenerationsRemaining,
		RevisionsRemaining:   status.RevisionsRemaining,
		ResetTime:            status.ResetTime.UTC().Format(time.RFC3339),
	})
}

type statusCheckCreate struct {
	ClientName string `json:"client_name" validate:"required"`
}

func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) {
	if r.store == nil {
		writeError(w, http.StatusServiceUnavailable, "audit store not configured")
		return
	}

	switch req.Method {
	case http.MethodPost:
		var payload statusCheckCreate
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := r.validate.Struct(payload); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "client_name is required")
			return
		}

		check := &database.StatusCheck{ClientName: payload.ClientName}
		if err := r.store.SaveStatusCheck(req.Context(), check); err != nil {
			r.logger.ErrorContext(req.Context(), "Failed to save status check", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save status check")
			return
		}
		writeJSON(w, http.StatusOK, check)

	case http.MethodGet:
		checks, err := r.store.ListStatusChecks(req.Context(), statusCheckListLimit)
		if err != nil {
			r.logger.ErrorContext(req.Context(), "Failed to list status checks", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list status checks")
			return
		}
		writeJSON(w, http.StatusOK, checks)

	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// NewHTTPServer builds the http.Server that serves the router with the
// configured timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
