package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/super-gamer/apiserver/config"
	"github.com/super-gamer/apiserver/internal/db"
	"github.com/super-gamer/apiserver/internal/events"
	"github.com/super-gamer/apiserver/internal/handlers"
	"github.com/super-gamer/apiserver/internal/kv"
	"github.com/super-gamer/apiserver/internal/seed"
	"github.com/super-gamer/apiserver/internal/services"
	"github.com/super-gamer/apiserver/internal/storage"
	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/internal/store/local"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
	logger     *zap.Logger
}

// New constructs a Server: picks the persistence backend, wires the
// services and routers, and connects the optional image storage and
// event publishing subsystems.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	var (
		userRepo    services.UserRepository
		itemRepo    services.ItemRepository
		commentRepo services.CommentRepository
		dbConn      *sql.DB
	)

	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dbConn = conn
		userRepo = store.NewUserRepository(conn)
		itemRepo = store.NewItemRepository(conn)
		commentRepo = store.NewCommentRepository(conn)
	case config.StoreBackendLocal:
		fileStore, err := kv.NewFileStore(cfg.Store.LocalPath)
		if err != nil {
			return nil, err
		}
		userRepo = local.NewUserRepository(fileStore)
		itemRepo = local.NewItemRepository(fileStore)
		commentRepo = local.NewCommentRepository(fileStore)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	userService := services.NewUserService(userRepo)
	itemService := services.NewItemService(itemRepo)
	commentService := services.NewCommentService(commentRepo, itemRepo)

	// The local backend has no migration step, so the admin account is
	// seeded here on first start.
	if cfg.Store.Backend == config.StoreBackendLocal {
		if err := seed.Admin(ctx, userService, cfg.Admin); err != nil {
			return nil, err
		}
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		if dbConn != nil {
			_ = dbConn.Close()
		}
		return nil, errors.New("JWT_SECRET is required")
	}

	imageStore, err := newImageStore(ctx, cfg)
	if err != nil {
		if dbConn != nil {
			_ = dbConn.Close()
		}
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		if dbConn != nil {
			_ = dbConn.Close()
		}
		return nil, err
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/items", func(r chi.Router) {
		handlers.ItemRouter(r, itemService, userService, imageStore, publisher, logger, authMiddleware)
	})
	router.Route("/comments", func(r chi.Router) {
		handlers.CommentRouter(r, commentService, userService, publisher, logger, authMiddleware)
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
		publisher:  publisher,
		logger:     logger,
	}, nil
}

func newImageStore(ctx context.Context, cfg config.Config) (*storage.ImageStore, error) {
	var backend storage.ObjectStorage
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case config.StorageBackendMinio:
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case config.StorageBackendGCS:
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	imageStore := storage.NewImageStore(backend)
	if err := imageStore.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return imageStore, nil
}

func newPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, error) {
	var backend events.Backend
	switch cfg.Events.Backend {
	case "":
		return nil, nil
	case config.EventsBackendRabbit:
		client, err := events.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		backend = client
	case config.EventsBackendPubSub:
		client, err := events.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}

	return events.NewPublisher(backend, cfg.Events.Topic), nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	if s.logger != nil {
		s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
