// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"greenwell-service/internal/config"
	"greenwell-service/internal/db"
	accountHandler "greenwell-service/internal/handlers/account"
	authHandler "greenwell-service/internal/handlers/auth"
	inventoryHandler "greenwell-service/internal/handlers/inventory"
	ledgerHandler "greenwell-service/internal/handlers/ledger"
	orderHandler "greenwell-service/internal/handlers/order"
	partyHandler "greenwell-service/internal/handlers/party"
	reportHandler "greenwell-service/internal/handlers/report"
	wsHandler "greenwell-service/internal/handlers/websocket"
	"greenwell-service/internal/middleware"
	"greenwell-service/internal/pkg/jwt"
	"greenwell-service/internal/pkg/session"
	"greenwell-service/internal/repository/postgres"
	accountsvc "greenwell-service/internal/service/account"
	authUsecase "greenwell-service/internal/service/auth"
	inventorysvc "greenwell-service/internal/service/inventory"
	ledgersvc "greenwell-service/internal/service/ledger"
	ordersvc "greenwell-service/internal/service/order"
	partysvc "greenwell-service/internal/service/party"
	reportsvc "greenwell-service/internal/service/report"
	"greenwell-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	httpServer  *http.Server
	pool        *pgxpool.Pool
	authService *authUsecase.AuthService
	cancelHub   context.CancelFunc
}

func NewServer(logger *zap.Logger) *Server {
	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager, s.logger)
	hubCtx, cancelHub := context.WithCancel(context.Background())
	s.cancelHub = cancelHub
	go hub.Run(hubCtx)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	authRepo := postgres.NewAuthRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		authRepo,
		jwtManager,
		sessionManager,
		rateLimiter,
		hub,
		s.cfg.SessionCap,
		s.logger,
	)
	s.authService = authService

	inventoryService := inventorysvc.NewInventoryService(productRepo, s.logger)
	partyService := partysvc.NewPartyService(partyRepo, s.logger)
	ledgerService := ledgersvc.NewLedgerService(ledgerRepo, partyRepo, dbWrapper, s.logger)
	orderService := ordersvc.NewOrderService(orderRepo, partyRepo, ledgerService, s.logger)
	accountService := accountsvc.NewAccountService(accountRepo, dbWrapper, s.logger)
	reportService := reportsvc.NewReportService(productRepo, orderRepo, partyRepo, s.logger)

	// ----- Bootstrap admin account -----
	if err := s.bootstrapAdmin(); err != nil {
		s.logger.Error("failed to bootstrap admin account", zap.Error(err))
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authService, s.logger),
		ProductHandler: inventoryHandler.NewProductHandler(inventoryService),
		PartyHandler:   partyHandler.NewPartyHandler(partyService),
		OrderHandler:   orderHandler.NewOrderHandler(orderService),
		LedgerHandler:  ledgerHandler.NewLedgerHandler(ledgerService),
		AccountHandler: accountHandler.NewAccountHandler(accountService),
		ReportHandler:  reportHandler.NewReportHandler(reportService),
		WSHandler:      wsHandler.NewWebSocketHandler(hub, s.logger),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener, the websocket hub and the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.cancelHub != nil {
		s.cancelHub()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// bootstrapAdmin creates the dashboard account on first boot.
func (s *Server) bootstrapAdmin() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mobile := os.Getenv("ADMIN_MOBILE")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if mobile == "" || password == "" {
		s.logger.Warn("ADMIN_MOBILE or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	if name == "" {
		name = "Administrator"
	}
	if len(password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	return s.authService.EnsureAdminExists(ctx, mobile, password, name)
}
