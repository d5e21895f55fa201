package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"book-recommender/backend/internal/config"
	"book-recommender/backend/internal/embed"
	"book-recommender/backend/internal/handler"
	"book-recommender/backend/internal/middleware"
	"book-recommender/backend/internal/recommend"
	"book-recommender/backend/internal/vectorstore"
)

func main() {
	godotenv.Load(".env.local")

	env := os.Getenv("ENV")
	log.Printf("[INFO] Starting book recommender env=%s", env)

	recommender, err := buildRecommender()
	if err != nil {
		log.Printf("[WARN] Failed to initialize recommendation engine: %v", err)
		log.Println("[WARN] Chat functionality will be unavailable")
	} else {
		log.Println("[INFO] Recommendation engine initialized successfully")
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := []string{}
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}
	if extraOrigins := os.Getenv("ALLOWED_ORIGINS"); extraOrigins != "" {
		allowedOrigins = append(allowedOrigins, strings.Split(extraOrigins, ",")...)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept-Language"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	ipLimiter := middleware.NewIPRateLimiter(rate.Every(1*time.Second), 3)
	dailyQuota := middleware.NewDailyQuota(500)
	log.Printf("[INFO] Rate limiting enabled")

	chatHandler := handler.NewChatHandler(recommender)

	r.GET("/health", chatHandler.HandleHealth)
	r.GET("/ready", chatHandler.HandleReadiness)
	r.GET("/hello_world", handler.HandleHelloWorld)
	r.POST("/chat", middleware.RateLimitMiddleware(ipLimiter, dailyQuota), chatHandler.HandleChat)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v", port, allowedOrigins)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}

// buildRecommender wires the engine from configuration. A nil engine (with
// error) leaves the HTTP surface up but chat unavailable.
func buildRecommender() (handler.Recommender, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "data/config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.AI.EndpointURL != "" {
		clientConfig.BaseURL = cfg.AI.EndpointURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	index := vectorstore.NewChromaIndex(cfg.ChromaDB.Host, cfg.ChromaDB.Port, vectorstore.DefaultCollection)
	embedder := embed.NewOpenAIEmbedder(client, cfg.AI.EmbeddingModel)
	retriever := recommend.NewRetriever(embedder, index, recommend.DefaultCandidateCount)

	summaries, err := recommend.NewFileSummaryStore(cfg.Summaries.Path)
	if err != nil {
		return nil, err
	}

	gate := recommend.NewClassifierGate(client, cfg.AI)
	return recommend.NewRecommender(client, gate, retriever, summaries, cfg.AI), nil
}
