package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/config"
	"github.com/dukerupert/larder/internal/handler"
	"github.com/dukerupert/larder/internal/middleware"
	"github.com/dukerupert/larder/internal/store"
	ws "github.com/dukerupert/larder/internal/websocket"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	hub           *ws.Hub
	authH         *handler.AuthHandler
	foodItemH     *handler.FoodItemHandler
	statsH        *handler.StatsHandler
	userSettingsH *handler.UserSettingsHandler
	issuer        *auth.Issuer
	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	apiKey        string
	allowedOrigin string
	logger        *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	foodItemStore := store.NewFoodItemStore(db)
	settingsStore := store.NewUserSettingsStore(db)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	return &Server{
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore, issuer, logger),
		foodItemH:     handler.NewFoodItemHandler(foodItemStore, hub, logger),
		statsH:        handler.NewStatsHandler(foodItemStore, logger),
		userSettingsH: handler.NewUserSettingsHandler(settingsStore, hub, logger),
		issuer:        issuer,
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		apiKey:        cfg.APIKey,
		allowedOrigin: cfg.AllowedOrigin,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	apiMux := http.NewServeMux()

	// Public routes (no auth required)
	apiMux.HandleFunc("POST /auth/signup", s.rateLimitedHandler(s.authH.SignUp))
	apiMux.HandleFunc("/auth/signup", handler.MethodNotAllowed)
	apiMux.HandleFunc("POST /auth/token", s.rateLimitedHandler(s.authH.Token))
	apiMux.HandleFunc("/auth/token", handler.MethodNotAllowed)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.issuer, s.sessionStore)
	apiMux.Handle("/", authMiddleware(protectedMux))

	outerMux := http.NewServeMux()
	outerMux.HandleFunc("GET /health", handler.Health)
	outerMux.Handle("/", middleware.RequireAPIKey(s.apiKey)(apiMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(
		middleware.CORS(s.allowedOrigin)(outerMux),
	)
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, authRateLimit, authRateWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/logout", s.authH.Logout)
	mux.HandleFunc("/auth/logout", handler.MethodNotAllowed)
	mux.HandleFunc("GET /auth/user", s.authH.User)
	mux.HandleFunc("/auth/user", handler.MethodNotAllowed)

	mux.HandleFunc("GET /food-items", s.foodItemH.List)
	mux.HandleFunc("POST /food-items", s.foodItemH.Create)
	mux.HandleFunc("PATCH /food-items", s.foodItemH.Update)
	mux.HandleFunc("DELETE /food-items", s.foodItemH.Delete)
	mux.HandleFunc("/food-items", handler.MethodNotAllowed)

	mux.HandleFunc("GET /dashboard-stats", s.statsH.Dashboard)
	mux.HandleFunc("/dashboard-stats", handler.MethodNotAllowed)

	mux.HandleFunc("GET /user-settings", s.userSettingsH.Get)
	mux.HandleFunc("POST /user-settings", s.userSettingsH.Ensure)
	mux.HandleFunc("PATCH /user-settings", s.userSettingsH.Update)
	mux.HandleFunc("/user-settings", handler.MethodNotAllowed)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger))
}

// RunCleanup periodically purges expired sessions and stale rate limit
// entries until ctx is cancelled.
func (s *Server) RunCleanup(ctx context.Context, interval time.Duration) {
	logger := s.logger.With("component", "cleanup")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessionStore.DeleteExpired()
			if err != nil {
				logger.Error("delete expired sessions", "error", err)
			} else if n > 0 {
				logger.Info("deleted expired sessions", "count", n)
			}
			s.rateLimiter.Cleanup()
		}
	}
}
