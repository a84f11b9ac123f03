package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/internal/config"
	"github.com/thereayou/classroom-chat/internal/database"
	"github.com/thereayou/classroom-chat/internal/handlers"
	"github.com/thereayou/classroom-chat/internal/metrics"
	"github.com/thereayou/classroom-chat/internal/middleware"
	"github.com/thereayou/classroom-chat/internal/services"
	ws "github.com/thereayou/classroom-chat/internal/websocket"
	"github.com/thereayou/classroom-chat/pkg/auth"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
	Metrics    *metrics.Metrics

	cfg    *config.Config
	logger *zap.Logger
	cancel context.CancelFunc
	closed sync.Once
}

// NewServer connects the stores and wires every component. The hub and the
// Redis relay start running immediately; Close stops them.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}

	if err := seedAdmin(db, cfg.Seed, logger); err != nil {
		db.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = connectRedis(cfg.Redis.URL)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	bg, cancel := context.WithCancel(context.Background())
	m := metrics.New()

	hub := ws.NewHub(logger.Named("hub"), m)
	go hub.Run(bg)

	var notifier ws.Notifier = hub
	if rdb != nil {
		relay := ws.NewRelay(rdb, cfg.Redis.Channel, hub, logger.Named("relay"))
		go func() {
			if err := relay.Run(bg); err != nil {
				logger.Error("relay subscription stopped, publishing continues", zap.Error(err))
			}
		}()
		notifier = relay
	}

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	auditSvc := services.NewAuditService(db, db, logger.Named("audit"))
	messageSvc := services.NewMessageService(db, db, auditSvc, notifier, m, logger.Named("messages"))
	authSvc := services.NewAuthService(db, jwtMgr, auditSvc, notifier, logger.Named("auth"))

	var revocations middleware.RevocationChecker
	if cfg.Auth.RevokeOnLogout && rdb != nil {
		blacklist := auth.NewBlacklist(rdb, jwtMgr)
		authSvc.WithRevoker(blacklist)
		revocations = blacklist
	}
	authn := middleware.NewAuthenticator(jwtMgr, revocations, logger)

	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.GinLogger(logger.Named("http")), m.Middleware())
	APIEndpoints(router, Handlers{
		Auth:      handlers.NewAuthHandler(authSvc),
		Messages:  handlers.NewHTTPMessageHandler(messageSvc),
		Users:     handlers.NewUserHandler(authSvc),
		Audit:     handlers.NewAuditHandler(auditSvc),
		WebSocket: handlers.NewWebSocketHandler(hub, notifier, logger.Named("ws")),
	}, authn, m)

	return &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Metrics:    m,
		cfg:        cfg,
		logger:     logger,
		cancel:     cancel,
	}, nil
}

func seedAdmin(db *database.Database, seed config.SeedConfig, logger *zap.Logger) error {
	hash, err := services.HashPassword(seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	created, err := db.SeedAdmin(context.Background(), seed.AdminUsername, hash)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Info("default admin created", zap.String("username", seed.AdminUsername))
	}
	return nil
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}
	return rdb, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown
	s.Hub.Stop()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close releases everything NewServer acquired. Safe to call more than once.
func (s *Server) Close() {
	s.closed.Do(func() {
		s.cancel()
		s.Hub.Stop()
		if s.Redis != nil {
			if err := s.Redis.Close(); err != nil {
				s.logger.Warn("redis close", zap.Error(err))
			}
		}
		if err := s.DB.Close(); err != nil {
			s.logger.Warn("database close", zap.Error(err))
		}
	})
}
