package cmd

import (
	"context"
	"fmt"
	"time"

	"minicourse/config"
	"minicourse/database"
	"minicourse/logger"
	"minicourse/ordering"
	"minicourse/repository"
	"minicourse/services/content"
	"minicourse/services/hierarchy"
	"minicourse/services/suggest"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const lockTTL = 10 * time.Second

// runtime is the wired object graph shared by every command.
type runtime struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *gorm.DB
	redis     *redis.Client
	hierarchy *hierarchy.Service
	content   *content.Facade
	generator suggest.Generator
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log, db: db}

	var locker ordering.Locker = ordering.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rt.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			rt.close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		locker = ordering.NewRedisLocker(rt.redis, lockTTL)
		log.Info("Using redis sibling-set locks", "addr", cfg.RedisAddr)
	}

	store := repository.New(db, log)
	rt.hierarchy = hierarchy.New(store, locker, log)
	rt.content = content.New(store, log)

	if cfg.AIServiceURL != "" {
		rt.generator = suggest.NewRemote(cfg.AIServiceURL, cfg.AIAPIKey, time.Duration(cfg.AITimeoutSeconds)*time.Second, log)
		log.Info("Using remote suggestion service", "url", cfg.AIServiceURL)
	} else {
		rt.generator = suggest.NewPlaceholder(0)
	}

	return rt, nil
}

func (rt *runtime) close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	rt.log.Sync()
}
