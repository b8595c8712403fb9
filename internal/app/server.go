// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"insurica-service/internal/config"
	"insurica-service/internal/db"
	authHandler "insurica-service/internal/handlers/auth"
	clientHandler "insurica-service/internal/handlers/client"
	dashboardHandler "insurica-service/internal/handlers/dashboard"
	leadHandler "insurica-service/internal/handlers/lead"
	notifyHandler "insurica-service/internal/handlers/notification"
	policyHandler "insurica-service/internal/handlers/policy"
	productHandler "insurica-service/internal/handlers/product"
	renewalHandler "insurica-service/internal/handlers/renewal"
	wsHandler "insurica-service/internal/handlers/websocket"
	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/jwt"
	"insurica-service/internal/pkg/session"
	"insurica-service/internal/repository/postgres"
	authUsecase "insurica-service/internal/service/auth"
	clientUsecase "insurica-service/internal/service/client"
	dashboardUsecase "insurica-service/internal/service/dashboard"
	"insurica-service/internal/service/email"
	leadUsecase "insurica-service/internal/service/lead"
	notifyUsecase "insurica-service/internal/service/notification"
	policyUsecase "insurica-service/internal/service/policy"
	productUsecase "insurica-service/internal/service/product"
	renewalUsecase "insurica-service/internal/service/renewal"
	"insurica-service/internal/service/whatsapp"
	"insurica-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.logger.Info("connected to PostgreSQL")

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
	s.logger.Info("connected to Redis")

	// ----- JWT -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Sessions -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	agentRepo := postgres.NewAgentRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	policyRepo := postgres.NewPolicyRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)

	// ----- WebSocket hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager, s.logger)
	go hub.Run(ctx)

	// ----- Delivery channels -----
	whatsappClient := whatsapp.NewClient(
		s.cfg.WhatsAppAPIURL,
		s.cfg.WhatsAppInstanceID,
		s.cfg.WhatsAppToken,
		s.cfg.WhatsAppTimeout,
		s.logger,
	)
	emailSender := email.NewSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Services -----
	authService := authUsecase.NewAuthService(agentRepo, jwtManager, sessionManager, rateLimiter, s.logger)
	clientService := clientUsecase.NewClientService(clientRepo, s.logger)
	policyService := policyUsecase.NewPolicyService(policyRepo, clientRepo, s.logger)
	notifService := notifyUsecase.NewNotificationService(notifyRepo, hub, s.logger)
	leadService := leadUsecase.NewLeadService(dbWrapper, leadRepo, clientRepo, notifService, hub, s.logger)
	productService := productUsecase.NewProductService(productRepo, s.logger)
	dashboardService := dashboardUsecase.NewDashboardService(clientService, policyService, leadService)

	runGuard := renewalUsecase.NewRedisRunGuard(redisClient)
	renewalService := renewalUsecase.NewService(
		policyRepo,
		whatsappClient,
		emailSender,
		runGuard,
		s.cfg.DeliveryAttempts,
		s.logger,
	)

	// ----- Super admin bootstrap -----
	if err := authService.EnsureSuperAdminExists(ctx, s.cfg.SuperAdminEmail, s.cfg.SuperAdminPass); err != nil {
		// Startup continues; the account can be created on a later restart.
		s.logger.Error("failed to ensure super admin exists", zap.Error(err))
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(authService),
		ClientHandler:    clientHandler.NewClientHandler(clientService),
		PolicyHandler:    policyHandler.NewPolicyHandler(policyService),
		LeadHandler:      leadHandler.NewLeadHandler(leadService),
		ProductHandler:   productHandler.NewProductHandler(productService),
		NotifHandler:     notifyHandler.NewNotificationHandler(notifService),
		DashboardHandler: dashboardHandler.NewDashboardHandler(dashboardService),
		RenewalHandler:   renewalHandler.NewRenewalHandler(renewalService, hub, s.cfg.CronSecret, s.logger),
		WSHandler:        wsHandler.NewWebSocketHandler(hub, s.logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(jwtManager.Verifier, sessionManager),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, handlers)

	s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
