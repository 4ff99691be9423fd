package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/normalize"
)

// pingFunc checks one dependency.
type pingFunc func(ctx context.Context) error

// healthCheck is the status of one dependency.
type healthCheck struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"` // "healthy" or "degraded"
	Checks    map[string]healthCheck `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// userSaver persists a user's display metadata.
type userSaver interface {
	SaveUser(ctx context.Context, info chat.UserInfo) error
}

// cacheInvalidator drops a cached display info entry.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// userSync mirrors profile changes pushed by the backend API into the users
// collection. cache is nil when Redis is not configured.
type userSync struct {
	store userSaver
	cache cacheInvalidator
}

type userRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// newAdminRouter serves health and metrics on the admin port, plus the user
// sync hook when users is set.
func newAdminRouter(logger zerolog.Logger, checks map[string]pingFunc, users *userSync) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthHandler(logger, checks))
	r.Handle("/metrics", promhttp.Handler())
	if users != nil {
		r.Put("/users/{id}", saveUserHandler(logger, users))
	}
	return r
}

// saveUserHandler stores the new profile, then evicts the cached copy so the
// next inbox emission renders it.
func saveUserHandler(logger zerolog.Logger, users *userSync) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := normalize.ID(chi.URLParam(r, "id"))
		if id == "" {
			http.Error(w, "user id is required", http.StatusBadRequest)
			return
		}
		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		log := logger.With().Str("user_id", id).Logger()
		info := chat.UserInfo{ID: id, DisplayName: req.DisplayName, AvatarURL: req.AvatarURL}
		if err := users.store.SaveUser(r.Context(), info); err != nil {
			log.Error().Err(err).Msg("saving user failed")
			code := http.StatusInternalServerError
			if errors.Is(err, chat.ErrStoreUnavailable) {
				code = http.StatusServiceUnavailable
			}
			http.Error(w, http.StatusText(code), code)
			return
		}

		if users.cache != nil {
			if err := users.cache.Invalidate(r.Context(), id); err != nil {
				// the stale entry lives until its TTL runs out
				log.Warn().Err(err).Msg("presence cache invalidation failed")
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func healthHandler(logger zerolog.Logger, checks map[string]pingFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:    "healthy",
			Checks:    make(map[string]healthCheck, len(checks)),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK

		for name, ping := range checks {
			start := time.Now()
			if err := ping(ctx); err != nil {
				logger.Warn().Err(err).Str("check", name).Msg("health check failed")
				resp.Checks[name] = healthCheck{Status: "fail", Message: "connection failed"}
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = healthCheck{Status: "pass", Latency: time.Since(start).String()}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
