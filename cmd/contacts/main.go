package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/avatar"
	myPostgresRepo "github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/email"
	myHttp "github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http"
	httpmw "github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/password"
	appsvc "github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/contact-service/internal/infra/log"
	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := db.AutoMigrate(&model.User{}); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	identityCache := myRedisRepo.NewRedisIdentityCache(redisCli, cfg.IdentityCacheTTL)
	jwtUtil, err := jwt.NewUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}
	hasher := password.NewHasher(cfg.PasswordPepper)
	sender := email.NewSMTPSender(cfg)
	uploader, err := avatar.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		zapLog.Fatal("failed to init avatar uploader", zap.Error(err))
	}

	svc := appsvc.New(userRepo, identityCache, jwtUtil, hasher,
		sender, uploader, cfg, appsvc.NewValidator(), zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.RateLimitPerIP(50, 100, 10_000, time.Hour))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	myHttp.NewHandler(svc).RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		zapLog.Info("shutdown signal received")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctxShutdown)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
