package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
	"github.com/Virenishere/backend-assignment-portal/internal/auth"
	"github.com/Virenishere/backend-assignment-portal/internal/config"
	"github.com/Virenishere/backend-assignment-portal/internal/metrics"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/service"
)

type Server struct {
	cfg     config.Config
	svc     *service.Service
	tokens  *auth.Tokens
	revoker auth.Revoker
	logger  *httplog.Logger
	limiter *ipLimiter
}

// NewServer wires the HTTP surface. A nil revoker disables logout revocation.
func NewServer(cfg config.Config, svc *service.Service, revoker auth.Revoker, logger *httplog.Logger) *Server {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &Server{
		cfg:     cfg,
		svc:     svc,
		tokens:  svc.Tokens(),
		revoker: revoker,
		logger:  logger,
		limiter: newIPLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	if s.cfg.TrustedProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", tokenHeader(model.KindUser), tokenHeader(model.KindAdmin)},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	requireUser := s.requirePrincipal(model.KindUser)
	requireAdmin := s.requirePrincipal(model.KindAdmin)

	r.Route("/user", func(r chi.Router) {
		r.With(s.rateLimit).Post("/register", s.handleRegister(model.KindUser))
		r.With(s.rateLimit).Post("/login", s.handleLogin(model.KindUser))
		r.With(requireUser).Post("/logout", s.handleLogout(model.KindUser))
		r.With(requireUser).Post("/upload", s.handleUpload)
		r.With(requireUser).Get("/admins", s.handleListAdmins)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(s.rateLimit).Post("/register", s.handleRegister(model.KindAdmin))
		r.With(s.rateLimit).Post("/login", s.handleLogin(model.KindAdmin))
		r.With(requireAdmin).Post("/logout", s.handleLogout(model.KindAdmin))
		r.With(requireAdmin).Get("/assignments", s.handleListAssignments)
		r.With(requireAdmin).Post("/assignments/{assignmentId}/accept", s.handleReview(model.StatusAccepted))
		r.With(requireAdmin).Post("/assignments/{assignmentId}/reject", s.handleReview(model.StatusRejected))
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		httplog.LogEntry(r.Context()).Warn("store ping failed", "error", err)
		writeError(w, apperr.New(http.StatusServiceUnavailable, apperr.CodeStoreUnavailable, "Store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
