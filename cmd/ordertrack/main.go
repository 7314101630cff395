package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitfantasy/ordertrack/internal/config"
	"github.com/bitfantasy/ordertrack/internal/middleware"
	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/handler"
	"github.com/bitfantasy/ordertrack/internal/order/lock"
	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/service"
	"github.com/bitfantasy/ordertrack/internal/order/sse"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting ordertrack service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("AutoMigrate order tables failed", zap.Error(err))
	}

	// 订单锁：配置了 redis 时跨实例加锁
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled() {
		rdb := initRedis(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		cancel()
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.KeyPrefix, cfg.Redis.LockTTL, zapLogger)
		zapLogger.Info("Using redis order lock", zap.String("addr", cfg.Redis.Addr()))
	}

	repos := repository.NewRepositories(db)
	hub := sse.NewHub(zapLogger)
	services := service.NewServices(repos, service.Options{
		Locker: locker,
		Audit:  audit.NewGormSink(repos.Audit, zapLogger),
		Hub:    hub,
		Logger: zapLogger,
	})
	handlers := handler.NewHandlers(services, hub, handler.Options{
		Resolver:       policy.NewResolver(cfg.Auth.FallbackRole),
		MaxUploadBytes: cfg.Import.MaxUploadBytes(),
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/orders/events"})))

	registerRoutes(router, handlers, cfg, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // SSE 长连接
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config, zapLogger *zap.Logger) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// 身份来源：配置了 JWT 密钥时校验令牌，否则读取 X-Role 请求头
	var auth gin.HandlerFunc
	if cfg.JWT.Secret != "" {
		auth = middleware.JWTAuth(cfg.JWT.Secret)
	} else {
		zapLogger.Warn("jwt.secret not set, trusting X-Role header")
		auth = middleware.RoleHeader()
	}

	h.RegisterRoutes(r.Group("/api/v1", auth))
}
