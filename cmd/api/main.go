package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-office-rental/internal/core/alert"
	"go-office-rental/internal/core/auth"
	"go-office-rental/internal/core/billing"
	"go-office-rental/internal/core/cache"
	"go-office-rental/internal/core/config"
	"go-office-rental/internal/core/database"
	"go-office-rental/internal/core/logger"
	"go-office-rental/internal/core/server"
	"go-office-rental/internal/core/storage"
	featauth "go-office-rental/internal/feature/auth"
	"go-office-rental/internal/feature/credentials"
	"go-office-rental/internal/feature/feedback"
	"go-office-rental/internal/feature/notification"
	"go-office-rental/internal/feature/office"
	"go-office-rental/internal/feature/payment"
	"go-office-rental/internal/feature/user"
	"go-office-rental/internal/repo"
	"go-office-rental/internal/service"
	mdw "go-office-rental/internal/transport/http/middleware"
	"go-office-rental/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 对账告警（Sentry 可选）
	alerter, flush, err := alert.New(log, cfg.Sentry.DSN, cfg.Sentry.Environment)
	if err != nil {
		log.Fatal("sentry init", zap.Error(err))
	}
	defer flush()

	// 可选依赖：Redis 缓存、对象存储
	var officeOpts []service.OfficeOption
	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rc.Close()
		officeOpts = append(officeOpts, service.WithCache(rc, time.Duration(cfg.Redis.OfficeTTLSec)*time.Second))
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}
	if objs, err := storage.NewMinio(cfg.Storage); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := objs.EnsureBucket(ctx); err != nil {
			log.Fatal("object storage bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		cancel()
		officeOpts = append(officeOpts, service.WithUploader(objs))
		log.Info("object storage enabled", zap.String("endpoint", cfg.Storage.Endpoint))
	} else if !errors.Is(err, storage.ErrDisabled) {
		log.Fatal("object storage", zap.Error(err))
	}

	if cfg.Billing.SecretKey == "" {
		log.Warn("billing.secretKey is empty; payment calls will be rejected by the processor")
	}
	gateway := billing.NewStripe(cfg.Billing.SecretKey, cfg.Billing.Retries, log)

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 服务
	store := repo.NewStore(db)
	offices := service.NewOfficeService(store, log, officeOpts...)
	payments := service.NewPaymentService(store, gateway, offices, alerter, cfg.Billing.Currency, log)
	users := service.NewUserService(store)

	reg := router.NewRegistry(
		featauth.New(service.NewAuthService(store, jwter, payments, log)),
		user.New(users),
		office.New(offices),
		credentials.New(service.NewOwnedService(store.Credentials, "credentials")),
		feedback.New(service.NewOwnedService(store.Feedback, "feedback")),
		notification.New(service.NewOwnedService(store.Notifications, "notification")),
		payment.New(payments),
	)

	r := router.NewAPIEngine(router.Options{
		Log:         log,
		Limits:      cfg.Limits,
		CORSOrigins: cfg.App.HTTP.CORSOrigins,
		Guard:       &mdw.Guard{JWT: jwter, Users: users, Log: log},
		Registry:    reg,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			if rc != nil {
				return rc.Ping(ctx)
			}
			return nil
		},
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("office api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("office api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("office api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
