package main

import (
	"fmt"
	"log"

	"github.com/23WH1A0515/Arogyasetu/agents"
	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/handlers"
	"github.com/23WH1A0515/Arogyasetu/middleware"
	"github.com/23WH1A0515/Arogyasetu/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Printf("db connected")

	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		// Cache degrades to pass-through; predictions still work.
		log.Printf("redis unavailable, serving without cache: %v", err)
	}
	defer cache.Close()

	store := services.NewSignalStore(db, cfg.Engine)
	agent := agents.NewAgent(store, cfg)

	if cfg.LLM.APIKey != "" {
		log.Printf("external scorer enabled: model=%s timeout=%ds", cfg.LLM.Model, cfg.LLM.TimeoutSec)
	} else {
		log.Printf("external scorer disabled, using rule-based path")
	}

	surgeHandler := handlers.NewSurgeHandler(agent, cache)
	balanceHandler := handlers.NewBalanceHandler(agent, cache)
	hospitalsHandler := handlers.NewHospitalsHandler(db, agent, cache)
	historyHandler := handlers.NewHistoryHandler(db, cache)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "ArogyaSetu surge prediction API is running",
		})
	})

	router.GET("/hospitals", hospitalsHandler.GetHospitals)
	router.GET("/hospitals/:id/status", hospitalsHandler.GetHospitalStatus)
	router.GET("/surge", surgeHandler.GetSurge)
	router.GET("/balance", balanceHandler.GetBalance)
	router.GET("/analysis", balanceHandler.GetFullAnalysis)
	router.GET("/history", historyHandler.GetHistory)
	router.GET("/ws/alerts", handlers.LiveAlerts(cache))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
