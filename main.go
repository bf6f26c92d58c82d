// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"klyra/api/database"
	"klyra/api/handlers"
	"klyra/api/middleware"
	"klyra/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (for tenant accounts) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()
	if err := dbClient.EnsureSchema(); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// --- Initialize MongoDB (document store for events and presence) ---
	mongoClient, err := database.NewMongoDB()
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer mongoClient.Close()

	// --- Initialize Stores ---
	tenantStore := store.NewTenantStore(dbClient.DB)
	docStore := store.NewMongoStore(mongoClient.Client, mongoClient.DBName)
	analyticsStore := store.NewAnalyticsStore(docStore, tenantStore)
	presenceTracker := store.NewPresenceTracker(docStore, tenantStore)

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(tenantStore)
	trackHandlers := handlers.NewTrackHandlers(analyticsStore, presenceTracker)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the Klyra API!")
	})

	// Account endpoints (no authentication required)
	r.POST("/signup", authHandlers.Signup)
	r.POST("/login", authHandlers.Login)
	r.POST("/logout", authHandlers.Logout)

	// Ingest endpoints, called fire-and-forget from customer pages and
	// authenticated by the API key inside each payload.
	r.POST("/updatePageViewCount", trackHandlers.UpdatePageViewCount)
	r.POST("/updateButtonClickAnalytics", trackHandlers.UpdateButtonClickAnalytics)
	r.POST("/userJourneyAnalytics", trackHandlers.UserJourneyAnalytics)
	r.POST("/deviceInfoAnalytics", trackHandlers.DeviceInfoAnalytics)
	r.POST("/activeUserIncrement", trackHandlers.ActiveUserIncrement)
	r.POST("/activeUserHeartbeat", trackHandlers.ActiveUserHeartbeat)
	r.POST("/activeUserDecrement", trackHandlers.ActiveUserDecrement)

	// Analyst endpoints, keyed by the API key itself.
	r.GET("/getAnalytics", trackHandlers.GetRawAnalytics)
	r.GET("/analysisReport", trackHandlers.GetAnalysisReport)

	// Dashboard endpoints (require a valid JWT token)
	protected := r.Group("/")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/profile", authHandlers.Profile)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Klyra API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Klyra API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
