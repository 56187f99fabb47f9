package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"financial-guardian/api/agents"
	"financial-guardian/api/db"
	"financial-guardian/api/handlers"
	"financial-guardian/api/llm"
	"financial-guardian/api/logger"
	"financial-guardian/api/middleware"
	"financial-guardian/api/qdrant"
	"financial-guardian/api/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func init() {
	// Missing .env is fine in containers where env comes from the runtime.
	_ = godotenv.Load()

	development := os.Getenv("APP_ENV") != "production"
	level := logger.LogLevel(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = logger.InfoLevel
	}
	if err := logger.Init(development, level); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
}

func main() {
	defer logger.Sync()

	if err := db.InitDB(); err != nil {
		logger.Get().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	if seed, _ := strconv.ParseBool(os.Getenv("SEED_DB")); seed {
		if err := db.SeedDemoUser(); err != nil {
			logger.Get().Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Get().Info("Demo data ready")
	}

	// Qdrant is optional: the knowledge agent degrades gracefully without it.
	if err := qdrant.InitQdrantClient(); err != nil {
		logger.Get().Warn("Qdrant unavailable, knowledge search disabled", zap.Error(err))
	}
	defer qdrant.CloseQdrantClient()

	llmClient := llm.NewClient()
	embedder := llm.NewEmbeddingsClient()

	handlers.LLMClient = llmClient
	handlers.Assistant = agents.NewSupervisor(llmClient, &agents.VectorSearcher{Embedder: embedder})

	pool := worker.NewPool(workerCount(), handlers.ProcessChatJob)
	pool.Start()
	defer pool.Stop()
	handlers.ChatPool = pool

	scheduler := cron.New()
	scheduler.AddFunc("@hourly", func() {
		if n, err := db.SweepExpiredInsights(); err != nil {
			logger.Get().Error("Insight sweep failed", zap.Error(err))
		} else if n > 0 {
			logger.Get().Info("Swept expired insights", zap.Int64("removed", n))
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})
	router.Use(middleware.CorsMiddleware)

	router.GET("/", handlers.HandleRoot)
	router.GET("/health", handlers.HandleHealth)
	router.GET("/metrics", gin.WrapF(pool.MetricsHandler))

	api := router.Group("/api")
	{
		api.POST("/chat/message", handlers.HandleChatMessage)
		api.POST("/chat/stream", handlers.HandleChatStream)
		api.GET("/chat/stream/:sessionID", handlers.HandleSSE)

		api.GET("/budgets", handlers.HandleGetBudgets)
		api.POST("/budgets", handlers.HandleSaveBudget)
		api.PUT("/budgets", handlers.HandleSaveBudget)
		api.DELETE("/budgets/:category", handlers.HandleDeleteBudget)

		api.GET("/goals", handlers.HandleGetGoals)
		api.POST("/goals", handlers.HandleCreateGoal)
		api.PUT("/goals/:goalID", handlers.HandleUpdateGoal)
		api.DELETE("/goals/:goalID", handlers.HandleDeleteGoal)

		api.GET("/transactions", handlers.HandleGetTransactions)
		api.POST("/transactions/manual", handlers.HandleAddManualTransaction)
		api.GET("/transactions/manual", handlers.HandleGetManualTransactions)

		api.GET("/snapshot", handlers.HandleGetSnapshot)
		api.GET("/liabilities", handlers.HandleGetLiabilities)

		api.POST("/agent/analyze", handlers.HandleAnalyze)

		internal := api.Group("/data")
		internal.Use(middleware.MicroserviceAuthMiddleware)
		{
			internal.POST("/sync-setu", handlers.HandleSyncSetu)
			internal.POST("/freshness", handlers.HandleDataFreshness)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Get().Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Get().Error("Forced shutdown", zap.Error(err))
	}
}

func workerCount() int {
	if raw := os.Getenv("CHAT_WORKERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 4
}
