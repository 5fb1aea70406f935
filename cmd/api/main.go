// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/api/handlers"
	"github.com/atlas-pm/portfolio-backend/internal/config"
	"github.com/atlas-pm/portfolio-backend/internal/cron"
	"github.com/atlas-pm/portfolio-backend/internal/db"
	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/seed"
	"github.com/atlas-pm/portfolio-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sqlx)
	// ============================================
	pgDB, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to create pgx pool: %v", err)
	}
	defer pgDB.Close()

	sqlxDB, err := db.NewSQLxDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to open sqlx DB: %v", err)
	}
	defer sqlxDB.Close()

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pgDB.Pool, sqlxDB)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional report cache)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis report cache enabled")
		}
	}

	// ============================================
	// Initialize Member Directory
	// ============================================
	// The core always talks to the directory over its capability
	// interface. In development the in-process mock serves both the
	// HTTP endpoints and the lookups.
	var directory members.Directory
	mockDirectory := members.NewMockDirectory()
	if cfg.Environment == "production" {
		directory = members.NewHTTPDirectory(cfg.MembersAPIURL, cfg.MembersAPITimeout)
		log.Printf("🔗 Members API client pointed at %s", cfg.MembersAPIURL)
	} else {
		directory = mockDirectory
		log.Println("🔗 Using in-process mock member directory")
	}

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(repos, directory, redisDB, cfg.ReportCacheTTL)
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services, mockDirectory)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(services)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"database":  "connected",
			"cache":     getCacheStatus(redisDB),
		})
	})

	// Mock external members API (directory of record in development)
	external := r.Group("/external/members")
	{
		external.POST("", h.Member.Create)
		external.GET("/:id", h.Member.Get)
	}

	// API routes
	api := r.Group("/api")
	{
		projects := api.Group("/projects")
		{
			projects.POST("", h.Project.Create)
			projects.GET("", h.Project.List)
			projects.GET("/:id", h.Project.Get)
			projects.PUT("/:id", h.Project.Update)
			projects.DELETE("/:id", h.Project.Delete)

			projects.PATCH("/:id/status", h.Project.ChangeStatus)

			projects.POST("/:id/allocations", h.Project.AllocateMembers)
			projects.GET("/:id/allocations", h.Project.ListAllocatedMembers)
			projects.DELETE("/:id/allocations/:memberId", h.Project.RemoveMemberAllocation)
		}

		portfolio := api.Group("/portfolio")
		{
			portfolio.GET("/report", h.Portfolio.Report)
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}
