package main

import (
	"context"
	"log"
	"time"

	"kitabi-buddy/backend/internal/agent"
	"kitabi-buddy/backend/internal/config"
	"kitabi-buddy/backend/internal/handler"
	"kitabi-buddy/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[FATAL] Invalid configuration: %v", err)
	}
	log.Printf("[INFO] Starting KitabiBuddy env=%s model=%s backend=%s", cfg.Env, cfg.Model, cfg.ModelBackend)

	var recognizer handler.Recognizer
	llm, err := agent.NewLLMClient(context.Background(), cfg)
	if err != nil {
		log.Printf("[WARN] Failed to initialize model client: %v", err)
		log.Println("[WARN] Book scanning will be unavailable")
	} else {
		recognizer = agent.NewRecognizer(llm, cfg)
		log.Println("[INFO] Recognizer initialized successfully")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery())
	r.Use(middleware.RequestID(), middleware.ProcessTime())

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	h := handler.New(recognizer, cfg)

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/ready", h.Readiness)

	api := r.Group("/api")
	{
		api.POST("/book/scan", h.Scan)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"success": false, "error": "Not found"})
	})

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v", cfg.Port, cfg.AllowedOrigins)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}

// corsConfig allows every origin when none are configured or "*" is listed
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, middleware.ProcessTimeHeader},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
