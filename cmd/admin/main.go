package main

import (
	"context"
	"flag"
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
	"pantry-api/internal/core/logger"
	"pantry-api/internal/core/server"
	"pantry-api/internal/repo"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/handler"
	"pantry-api/internal/transport/http/router"
)

func main() {
	promote := flag.String("promote", "", "grant the admin role to this username and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	// DB 连接（失败直接 Fatal）；表结构由用户端服务迁移
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 依赖
	jwter, err := auth.NewJWTer(
		cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.JWT.LeewaySec)*time.Second,
	)
	if err != nil {
		log.Fatal("jwt config", zap.Error(err))
	}
	// 删号时要清掉该用户的缓存
	pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	rc := cache.Connect(pctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second, log.Named("cache"))
	cancel()
	defer func() { _ = rc.Close() }()

	userSvc := service.NewUserService(repo.NewUserRepo(db), jwter, rc, log.Named("user"))

	if *promote != "" {
		u, err := userSvc.Promote(context.Background(), *promote)
		if err != nil {
			log.Fatal("promote failed", zap.String("username", *promote), zap.Error(err))
		}
		log.Info("admin granted", zap.String("uid", u.UID), zap.String("username", u.Username))
		return
	}
	reg := router.NewRegistry(handler.NewAdminHandler(userSvc))

	// 路由（后台端）
	r := router.NewAdminEngine(cfg, log, jwter, reg)

	// HTTP Server
	errLog, _ := logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel)
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second, errLog)

	// 启动前打印可点击地址
	baseURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("admin api FAILED", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
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
