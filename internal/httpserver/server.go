// internal/httpserver/server.go
//
// HTTP wiring for the wordcast backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     prometheus instrumentation).
//   - Public endpoints: "/", "/health", "/metrics", leaderboards.
//   - Game + profile endpoints (require identity): /game/*, /profile/*.
//   - Admin endpoints (require admin key): /auth/token, /rewards/preview,
//     /rewards/distribute.
//   - JWT identity handling: the mini-app host signs tokens carrying the
//     player's fid; this server only verifies them. /auth/token exists so
//     local development can mint tokens without the host.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Duplicate completions and practice completions return 200 with an
//     informational flag, never an error (client retry friendliness).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"wordcast/internal/metrics"
	"wordcast/internal/play"
	"wordcast/internal/repo"
	"wordcast/internal/rewards"
	"wordcast/internal/words"
)

// Server bundles the router and the service-layer collaborators.
type Server struct {
	r    *chi.Mux
	svc  *play.Service
	db   repo.Store
	dist *rewards.Distributor
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *play.Service, db repo.Store, dist *rewards.Distributor) *Server {
	s := &Server{r: chi.NewRouter(), svc: svc, db: db, dist: dist}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS
	s.r.Use(instrument)                      // prometheus request metrics

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordcast","endpoints":["/health","POST /game/start","POST /game/guess","POST /game/complete","/leaderboard/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Debug: word list counts
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		en, tr := words.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"en": en, "tr": tr})
	})

	// Game + profile — identity required
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireIdentity())
		r.Post("/game/start", s.handleStart)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/complete", s.handleComplete)
		r.Post("/game/hint", s.handleHint)
		r.Get("/profile/me", s.handleProfileMe)
		r.Post("/profile/wallet", s.handleSetWallet)
		r.Get("/rewards/history", s.handleRewardsHistory)
	})

	// Leaderboards — public
	s.r.Get("/leaderboard/daily", s.handleDailyBoard)
	s.r.Get("/leaderboard/weekly", s.handleWeeklyBoard)
	s.r.Get("/leaderboard/best", s.handleBestBoard)

	// Admin
	s.r.Group(func(r chi.Router) {
		r.Use(requireAdminKey)
		r.Post("/auth/token", s.handleMintToken)
		r.Get("/rewards/preview", s.handleRewardsPreview)
		r.Post("/rewards/distribute", s.handleRewardsDistribute)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request counts and latencies per route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestCounter.WithLabelValues(
			strconv.Itoa(ww.Status()), r.Method, path).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, path).
			Observe(time.Since(start).Seconds())
	})
}

// ------------------------------ identity -----------------------------------

// identity is placed into request context by requireIdentity.
type identity struct {
	FID      int64
	Username string
}

// ctxIdentityKey is the context key type for storing identity.
type ctxIdentityKey struct{}

// requireIdentity enforces a valid identity JWT (fid + username claims)
// and makes sure a profile row exists for the caller.
func (s *Server) requireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"unauthenticated"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
				return
			}
			fidF, _ := claims["fid"].(float64)
			username, _ := claims["username"].(string)
			if fidF <= 0 {
				http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
				return
			}
			id := identity{FID: int64(fidF), Username: username}
			if _, err := s.db.GetOrCreateProfile(r.Context(), id.FID, id.Username); err != nil {
				log.Error().Err(err).Int64("fid", id.FID).Msg("ensure profile")
				http.Error(w, `{"error":"upstream_failure"}`, http.StatusBadGateway)
				return
			}
			ctx := context.WithValue(r.Context(), ctxIdentityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// caller returns the request identity; requireIdentity guarantees presence.
func caller(r *http.Request) identity {
	id, _ := r.Context().Value(ctxIdentityKey{}).(identity)
	return id
}

// requireAdminKey gates operational endpoints behind a shared secret.
func requireAdminKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := os.Getenv("ADMIN_KEY")
		if key == "" || r.Header.Get("X-Admin-Key") != key {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const cookieName = "wordcast_token"

// bearerOrCookie extracts a token from Authorization header or cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); len(a) > 7 && (a[:7] == "Bearer " || a[:7] == "bearer ") {
		return a[7:]
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// handleMintToken signs a development identity token. In production the
// mini-app host is the token issuer and this endpoint stays admin-gated.
func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FID      int64  `json:"fid"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FID <= 0 {
		http.Error(w, `{"error":"validation_error"}`, http.StatusBadRequest)
		return
	}
	exp := time.Now().Add(14 * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"fid":      body.FID,
		"username": body.Username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(getEnv("JWT_SECRET", "dev_secret_change_me")))
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"token": ss, "expiresAt": exp.Unix()})
}

// ------------------------------ errors -------------------------------------

// writeServiceError maps the play error taxonomy onto distinct statuses.
// Genuine upstream outages are the only 5xx family member.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, play.ErrSessionNotFound):
		http.Error(w, `{"error":"session_expired"}`, http.StatusNotFound)
	case errors.Is(err, play.ErrForbidden):
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	case errors.Is(err, play.ErrInvalidGuess):
		http.Error(w, `{"error":"invalid_guess"}`, http.StatusBadRequest)
	case errors.Is(err, play.ErrInvalidProof):
		http.Error(w, `{"error":"invalid_proof"}`, http.StatusBadRequest)
	case errors.Is(err, play.ErrNoAttempts):
		http.Error(w, `{"error":"no_attempts_remaining"}`, http.StatusConflict)
	case errors.Is(err, play.ErrGameNotFinished):
		http.Error(w, `{"error":"game_not_finished"}`, http.StatusConflict)
	case errors.Is(err, play.ErrGameFinished):
		http.Error(w, `{"error":"game_finished"}`, http.StatusConflict)
	case errors.Is(err, play.ErrHintUsed):
		http.Error(w, `{"error":"hint_already_used"}`, http.StatusConflict)
	default:
		log.Error().Err(err).Msg("upstream failure")
		http.Error(w, `{"error":"upstream_failure"}`, http.StatusBadGateway)
	}
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
