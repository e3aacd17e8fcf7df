package server

import (
	"context"
	"log"
	"net/http"

	"account-service/internal/config"
	"account-service/internal/handler"
	"account-service/internal/rate"
	"account-service/internal/repository"
	"account-service/internal/router"
	authservice "account-service/internal/service/auth"
	"account-service/internal/service/verification"
	"account-service/internal/sms"
	"account-service/pkg/cache"
	"account-service/pkg/jwtutil"
	"account-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server struct {
	Cfg   config.Config
	DB    *pgxpool.Pool
	Cache *cache.Cache

	Handler http.Handler
}

func NewServer() *Server {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatalf("[FATAL] JWT_SECRET is required")
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DBConnString)
	if err != nil {
		log.Fatalf("[FATAL] failed to connect to DB: %v", err)
	}

	redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPass)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Printf("[WARN] failed to connect to Redis: %v", err)
	}

	issuer := jwtutil.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer)
	auth := middleware.New(issuer)

	smsClient := sms.NewClient(cfg.SMS)

	userRepo := repository.NewUserRepository(dbpool)
	verificationRepo := repository.NewVerificationRepository(dbpool)

	limiter := rate.NewLimiter(redisCache, cfg.CodeResendWindow, cfg.CodeResendMax, cfg.CodeResendCooldown)
	codeSvc := verification.NewService(verificationRepo, limiter)

	authSvc := authservice.NewService(userRepo, codeSvc, smsClient, issuer, cfg.TokenTTL)
	accHandler := handler.NewAccountHandler(authSvc)

	r := chi.NewRouter()
	router.SetupRoutes(r, accHandler, auth)

	return &Server{
		Cfg:     cfg,
		DB:      dbpool,
		Cache:   redisCache,
		Handler: r,
	}
}

func (s *Server) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Cache != nil {
		_ = s.Cache.Close()
	}
}
