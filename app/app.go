package app

import (
	"context"
	"log"
	"time"

	"Gin_postgres_redis_task_api/config"
	"Gin_postgres_redis_task_api/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Logger *zap.Logger
	Config config.Config
}

// MustNew 连接 Postgres/sqlite 与 Redis，失败直接退出
func MustNew(cfg config.Config) *App {
	logger, err := NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// --- DB ---
	dbConn, err := db.Connect(cfg.DSN())
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	return New(cfg, dbConn, rdb, logger)
}

// New 组装 gin 引擎；测试里直接传入内存 DB 和 miniredis
func New(cfg config.Config, dbConn *gorm.DB, rdb *redis.Client, logger *zap.Logger) *App {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	useCORS(r, cfg.CORSOrigins)

	return &App{Router: r, DB: dbConn, RDB: rdb, Logger: logger, Config: cfg}
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.Logger.Sync()
}
