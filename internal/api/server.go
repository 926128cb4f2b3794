package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/mongoadmin/internal/api/handler"
	mw "github.com/edvin/mongoadmin/internal/api/middleware"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/config"
	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/session"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency checked by /readyz. Failures are reported as
// "unavailable"; the error itself only goes to the log.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	cfg      *config.Config
	cookies  session.Cookies
	probes   map[string]Pinger
}

// NewServer wires routes for services. probes are pinged by /readyz, keyed
// by the name reported in its body.
func NewServer(logger zerolog.Logger, services *core.Services, cfg *config.Config, probes map[string]Pinger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		cfg:      cfg,
		cookies: session.Cookies{
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure && !cfg.DevMode,
		},
		probes: probes,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(mw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", mw.CSRFHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	s.router.Use(mw.Session(s.services.Auth, s.cookies))
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	engine := s.services.Engine
	auth := handler.NewAuth(s.services.Users, s.services.Auth, s.cookies)

	s.router.Group(func(r chi.Router) {
		r.Use(httprate.Limit(
			s.cfg.Security.LoginRateLimit,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				response.WriteError(w, r, http.StatusTooManyRequests, core.KindInvalidInput,
					"too many attempts, try again in a minute", nil)
			}),
		))
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/signup", auth.Signup)
	})
	s.router.Post("/auth/logout", auth.Logout)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.Pipeline(mw.Authenticated(), mw.CSRF(s.cfg.DevMode)))

		r.Get("/csrf-token", auth.CSRFToken)
		r.Get("/me", auth.Me)

		database := handler.NewDatabase(s.services.Databases)
		r.Get("/databases", database.List)
		r.With(mw.Pipeline(mw.RequireCapability(engine, model.CanCreateDB))).Post("/databases", database.Create)
		r.With(mw.Pipeline(mw.RequireCapability(engine, model.CanDeleteDB))).Delete("/databases/{db}", database.Delete)

		collection := handler.NewCollection(s.services.Collections)
		r.Get("/collections/{db}", collection.List)
		r.Group(func(r chi.Router) {
			r.Use(mw.Pipeline(mw.RequireCapability(engine, model.CanCreateCollection)))
			r.Post("/collection/add", collection.Create)
			r.Post("/collection/create", collection.Create)
		})
		r.With(mw.Pipeline(mw.RequireCapability(engine, model.CanDeleteCollection))).Post("/collection/delete", collection.Delete)

		document := handler.NewDocument(s.services.Documents)
		r.Get("/data/{db}/{collection}", document.List)
		r.Post("/document/add", document.Add)
		r.Post("/document/update", document.Update)
		r.Post("/document/delete", document.Delete)

		transfer := handler.NewTransfer(s.services.Transfer, s.cfg.HTTP.MaxUploadBytes)
		r.Group(func(r chi.Router) {
			r.Use(mw.Pipeline(mw.RequireCapability(engine, model.CanImport)))
			r.Post("/upload/preview", transfer.Preview)
			r.Post("/upload/import", transfer.Import)
		})
		r.With(mw.Pipeline(mw.RequireCapability(engine, model.CanExport))).Get("/export/{db}/{collection}", transfer.Export)

		diagnostics := handler.NewDiagnostics(s.services.Diagnostics)
		r.Get("/info", diagnostics.Info)
		r.Get("/metrics/overview", diagnostics.Overview)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]string, len(s.probes))
	healthy := true

	var g errgroup.Group
	for name, p := range s.probes {
		g.Go(func() error {
			result := "ok"
			if err := p.Ping(ctx); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Str("check", name).Msg("readiness check failed")
				result = "unavailable"
			}
			mu.Lock()
			defer mu.Unlock()
			checks[name] = result
			if result != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
