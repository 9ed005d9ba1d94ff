package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/socialnet/friendship/server/api/rest"
	"github.com/socialnet/friendship/server/api/sse"
	"github.com/socialnet/friendship/server/audit"
	"github.com/socialnet/friendship/server/cache"
	"github.com/socialnet/friendship/server/config"
	dbadapter "github.com/socialnet/friendship/server/db"
	mw "github.com/socialnet/friendship/server/middleware"
	"github.com/socialnet/friendship/server/model"
	"github.com/socialnet/friendship/server/scheduler"
	"github.com/socialnet/friendship/server/social"
	"github.com/socialnet/friendship/server/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache / PubSub ----
	cacheConfig := cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
		LocalPubSubBuf:  cfg.Cache.LocalPubSubBuf,
	}
	c, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cacheConfig)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Stores / Engine ----
	users := store.NewUsers(db)
	friends := store.NewFriendships(db)
	subs := store.NewSubscriptions(db)
	blocks := store.NewBlocks(db)
	svc := social.NewService(users, friends, subs, blocks, c, pubsub, logger)
	if cfg.Cache.FriendListTTL > 0 {
		svc.FriendListTTL = cfg.Cache.FriendListTTL
	}

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("graph_stats", 5*time.Minute, func() {
		var userCount, edgeCount int64
		db.Model(&model.User{}).Count(&userCount)
		db.Model(&model.Friendship{}).Count(&edgeCount)
		logger.Info("graph stats",
			zap.Int64("users", userCount),
			zap.Int64("friendships", edgeCount))
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	friendshipH := apirest.NewFriendshipHandler(svc, auditSvc)
	friendshipH.RegisterRoutes(r)

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, logger)
	r.GET("/events", sseH.ServeSSE)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
