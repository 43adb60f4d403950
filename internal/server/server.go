package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/inkwell-blog/appserver/config"
	"github.com/inkwell-blog/appserver/internal/db"
	"github.com/inkwell-blog/appserver/internal/events"
	"github.com/inkwell-blog/appserver/internal/handlers"
	"github.com/inkwell-blog/appserver/internal/images"
	"github.com/inkwell-blog/appserver/internal/logger"
	"github.com/inkwell-blog/appserver/internal/services"
	"github.com/inkwell-blog/appserver/internal/sessions"
	"github.com/inkwell-blog/appserver/internal/store"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *events.Bus
	logger     zerolog.Logger
}

// New constructs a Server: opens the database, picks the configured
// session, image and event backends, and mounts the routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := logger.New("server")

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessionStore, err := newSessionStore(ctx, cfg, dbConn)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	bus, err := events.NewBusFromConfig(ctx, cfg.Events, log)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)

	authService := services.NewAuthService(userRepo, sessionStore)
	contentService := services.NewContentService(postRepo, commentRepo, bus)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)

	router.Group(func(r chi.Router) {
		r.Use(handlers.LoadIdentity(authService))

		handlers.AuthRouter(r, handlers.NewAuthHandler(authService, cfg.Session.TTL, log))
		handlers.PostRouter(r, handlers.NewPostHandler(contentService, log))

		pages := handlers.NewPageHandler(log)
		r.Get("/about", pages.About)
		r.Get("/contact", pages.Contact)

		if imageStore, err := newImageStore(ctx, cfg); err != nil {
			log.Warn().Err(err).Msg("image storage disabled")
		} else if imageStore != nil {
			handlers.ImageRouter(r, handlers.NewImageHandler(imageStore, log))
		}
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
		logger:     log,
	}, nil
}

// Router exposes the chi router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.bus != nil {
		_ = s.bus.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

func newSessionStore(ctx context.Context, cfg config.Config, dbConn *sql.DB) (sessions.Store, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := sessions.NewRedisClient(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return sessions.NewRedisStore(rdb, cfg.Session.TTL), nil
	case config.SessionBackendPostgres, "":
		return sessions.NewPostgresStore(dbConn, cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func newImageStore(ctx context.Context, cfg config.Config) (*images.Store, error) {
	var backend images.Backend
	switch cfg.Images.Backend {
	case config.ImageBackendMinio:
		b, err := images.NewMinioBackend(cfg.Images.Minio)
		if err != nil {
			return nil, err
		}
		backend = b
	case config.ImageBackendGCS:
		b, err := images.NewGCSBackend(ctx, cfg.Images.GCS)
		if err != nil {
			return nil, err
		}
		backend = b
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown image backend %q", cfg.Images.Backend)
	}

	imageStore := images.NewStore(backend, cfg.BaseURL)
	if err := imageStore.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return imageStore, nil
}
