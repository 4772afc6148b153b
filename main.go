package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/openstreets/server/api/rest"
	"github.com/openstreets/server/api/sse"
	"github.com/openstreets/server/cache"
	"github.com/openstreets/server/config"
	dbadapter "github.com/openstreets/server/db"
	"github.com/openstreets/server/game/mission"
	"github.com/openstreets/server/game/world"
	"github.com/openstreets/server/journal"
	mw "github.com/openstreets/server/middleware"
	"github.com/openstreets/server/model"
	"github.com/openstreets/server/resource"
	"github.com/openstreets/server/scheduler"
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

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

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

	// ---- Event journal ----
	journalSvc, err := journal.New(db, pubsub, world.EventChannel, logger)
	if err != nil {
		log.Fatalf("journal: %v", err)
	}
	defer journalSvc.Stop()

	// ---- World ----
	reg := mission.NewRegistry(logger)
	w := world.New(cfg.Game, reg, pubsub, logger,
		rand.New(rand.NewSource(time.Now().UnixNano())))

	res := resource.NewLoader(cfg.Game.MapsDir, logger)
	if err := res.Load(); err != nil {
		logger.Warn("map load failed, using default world", zap.Error(err))
		w.Seed()
	} else if def := res.Map(cfg.Game.StartMap); def != nil {
		if err := w.ApplyMap(def); err != nil {
			log.Fatalf("apply map: %v", err)
		}
	} else {
		logger.Warn("start map not found, using default world",
			zap.String("map", cfg.Game.StartMap))
		w.Seed()
	}

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	tick := time.Duration(cfg.Game.TickMs) * time.Millisecond
	sched.AddTicker("world_tick", tick, func() {
		w.Tick(float64(cfg.Game.TickMs))
		// A touched save point persists to slot 1.
		if w.ConsumeSaveRequest() {
			if err := w.Save(db, 1, "save point"); err != nil {
				logger.Error("save point write failed", zap.Error(err))
			}
		}
	})
	sched.AddTicker("auto_save", time.Duration(cfg.Game.AutosaveS)*time.Second, func() {
		if err := w.Save(db, 1, "autosave"); err != nil {
			logger.Error("autosave failed", zap.Error(err))
		}
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
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	worldH := apirest.NewWorldHandler(w)
	missionH := apirest.NewMissionHandler(w)
	saveH := apirest.NewSaveHandler(db, w, logger)
	adminH := apirest.NewAdminHandler(db, w, sched, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		worldG := api.Group("/world")
		worldG.Use(mw.Auth(cfg.Security, c))
		worldG.GET("/state", worldH.State)
		worldG.POST("/move", worldH.Move)
		worldG.POST("/interact", worldH.Interact)
		worldG.POST("/attack/melee", worldH.AttackMelee)
		worldG.POST("/attack/ranged", worldH.AttackRanged)
		worldG.POST("/vehicle/enter", worldH.EnterVehicle)
		worldG.POST("/vehicle/exit", worldH.ExitVehicle)

		missionsG := api.Group("/missions")
		missionsG.Use(mw.Auth(cfg.Security, c))
		missionsG.GET("", missionH.List)
		missionsG.GET("/available", missionH.Available)
		missionsG.GET("/active", missionH.Active)
		missionsG.GET("/completed", missionH.Completed)
		missionsG.GET("/:id", missionH.Get)
		missionsG.POST("/:id/start", missionH.Start)

		savesG := api.Group("/saves")
		savesG.Use(mw.Auth(cfg.Security, c))
		savesG.GET("", saveH.List)
		savesG.POST("/:slot", saveH.Save)
		savesG.POST("/:slot/load", saveH.Load)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.GET("/archetypes", adminH.Archetypes)
		adminG.POST("/npcs", adminH.SpawnNPC)
		adminG.POST("/triggers", adminH.FireTrigger)
	}

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, c, cfg.Security, logger)
	r.GET("/sse", sseH.ServeSSE)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
