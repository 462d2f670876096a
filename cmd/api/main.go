package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/cache"
	"pantry-api/internal/core/config"
	"pantry-api/internal/core/database"
	"pantry-api/internal/core/events"
	"pantry-api/internal/core/logger"
	"pantry-api/internal/core/server"
	"pantry-api/internal/repo"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/handler"
	"pantry-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 缓存（可选）
	pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	rc := cache.Connect(pctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second, log.Named("cache"))
	cancel()
	defer func() { _ = rc.Close() }()

	// 事件（可选）
	pub := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Named("events"))
	defer func() { _ = pub.Close() }()

	// JWT
	jwter, err := auth.NewJWTer(
		cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.JWT.LeewaySec)*time.Second,
	)
	if err != nil {
		log.Fatal("jwt config", zap.Error(err))
	}

	// 依赖
	userRepo := repo.NewUserRepo(db)
	listRepo := repo.NewListRepo(db)
	userSvc := service.NewUserService(userRepo, jwter, rc, log.Named("user"))
	listSvc := service.NewListService(userRepo, listRepo, rc, pub, log.Named("list"))
	productSvc := service.NewProductService(userRepo, listRepo, repo.NewProductRepo(db), cfg.Images.BaseURL, rc, pub, log.Named("product"))
	permSvc := service.NewPermissionService(userRepo, listRepo, repo.NewPermissionRepo(db))
	profileSvc := service.NewProfileService(userRepo, repo.NewProfileRepo(db))

	reg := router.NewRegistry(
		handler.NewAuthHandler(userSvc),
		handler.NewListHandler(listSvc, permSvc),
		handler.NewProductHandler(productSvc),
		handler.NewProfileHandler(profileSvc),
	)

	// 路由（用户端）
	r := router.NewAPIEngine(cfg, log, jwter, reg)

	// HTTP Server
	errLog, _ := logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel)
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		errLog,
	)

	// 启动日志
	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.Bool("cache", rc != nil),
		zap.Int("kafka_brokers", len(cfg.Kafka.Brokers)),
	)

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("user api FAILED", zap.Error(err))
		return
	}
	log.Info("user api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
