package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LiSiruiRay/hacktech/db"
	"github.com/LiSiruiRay/hacktech/internal/handler"
	"github.com/LiSiruiRay/hacktech/internal/repository"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
	"github.com/LiSiruiRay/hacktech/pkg/news"
	"github.com/LiSiruiRay/hacktech/pkg/pipeline"
	"github.com/LiSiruiRay/hacktech/pkg/predict"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}
	openAIClient := llm.NewOpenAIClient(openAIKey)

	var completion llm.CompletionClient = openAIClient
	if os.Getenv("LLM_PROVIDER") == "anthropic" {
		anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
		if anthropicKey == "" {
			log.Fatal("LLM_PROVIDER=anthropic but ANTHROPIC_API_KEY is not set")
		}
		completion = llm.NewAnthropicClient(anthropicKey)
	}
	slog.Info("completion backend selected", "model", completion.Name())

	var source news.Client
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		source = news.NewAlphaVantageClient(key)
	} else if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		source = news.NewFinnHubClient(key)
	} else {
		log.Fatal("no news source API key configured")
	}

	embedder := llm.NewEmbedder(openAIClient, llm.DefaultEmbedConfig())
	summarizer := pipeline.NewSummarizer(completion, 150)
	pipe := pipeline.New(source, embedder, summarizer, pipeline.DefaultConfig())

	predictors := make(map[string]handler.EventPredictor)

	market, err := predict.New(predict.ProfileMarket, openAIKey, "", "")
	if err != nil {
		log.Fatalf("error building market predictor: %v", err)
	}
	predictors["market"] = market

	if baseURL := os.Getenv("PRIVATE_LLM_BASE_URL"); baseURL != "" {
		personal, err := predict.New(predict.ProfilePrivate, os.Getenv("PRIVATE_LLM_API_KEY"), baseURL, os.Getenv("PRIVATE_LLM_MODEL"))
		if err != nil {
			log.Fatalf("error building personal predictor: %v", err)
		}
		predictors["personal"] = personal
	} else {
		slog.Warn("PRIVATE_LLM_BASE_URL not set, personal predictions disabled")
	}

	var cache handler.ResponseCache
	if os.Getenv("REDIS_URL") != "" {
		if err := db.ConnectRedis(); err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()
		cache = redisCache{}
	}

	var loader handler.EventLoader
	if os.Getenv("DATABASE_URL") != "" {
		if err := db.Connect(); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()
		loader = repository.NewEventRepository(db.DB)
	} else {
		slog.Warn("DATABASE_URL not set, prediction from history disabled")
	}

	newsHandler := handler.NewNewsHandler(pipe)
	predictHandler := handler.NewPredictHandler(pipe, predictors, loader, cache, db.PredictionCacheTTL)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", newsHandler.GetHealth)
	r.GET("/news", newsHandler.GetNews)
	r.GET("/predict-from-news/:source", predictHandler.PredictFromNews)
	r.GET("/predict-from-history/:source", predictHandler.PredictFromHistory)
	r.POST("/predict", predictHandler.PredictFromEvents)

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// redisCache adapts the shared redis helpers to the handler cache interface.
type redisCache struct{}

func (redisCache) Get(ctx context.Context, key string) (string, bool) {
	return db.CacheGet(ctx, key)
}

func (redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return db.CacheSet(ctx, key, value, ttl)
}
