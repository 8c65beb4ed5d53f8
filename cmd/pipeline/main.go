package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/LiSiruiRay/hacktech/db"
	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/internal/repository"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
	"github.com/LiSiruiRay/hacktech/pkg/news"
	"github.com/LiSiruiRay/hacktech/pkg/pipeline"
	"github.com/LiSiruiRay/hacktech/pkg/predict"
)

func main() {

	timeRange := flag.String("range", "day", "time range to query: day, week, or month")
	numPredictions := flag.Int("predictions", 3, "number of predictions to request")
	withAdvisor := flag.Bool("advisor", false, "also generate tactical portfolio signals")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var source news.Client
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		source = news.NewAlphaVantageClient(key)
	} else if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		source = news.NewFinnHubClient(key)
	} else {
		log.Fatal("no news source API key configured")
	}

	openAIClient := llm.NewOpenAIClient(openAIKey)
	embedder := llm.NewEmbedder(openAIClient, llm.DefaultEmbedConfig())
	summarizer := pipeline.NewSummarizer(openAIClient, 150)
	pipe := pipeline.New(source, embedder, summarizer, pipeline.DefaultConfig())

	ctx := context.Background()

	shares, err := pipe.Query(ctx, *timeRange, nil)
	if err != nil {
		log.Fatalf("error running pipeline: %v", err)
	}

	if len(shares) == 0 {
		slog.Info("no articles in window, nothing to do", "range", *timeRange)
		return
	}

	events := make([]model.Event, 0, len(shares))
	for _, share := range shares {
		events = append(events, share.Event)
	}

	eventRepo := repository.NewEventRepository(db.DB)
	if err := eventRepo.SaveEvents(events); err != nil {
		log.Fatalf("error saving events: %v", err)
	}
	slog.Info("events saved", "count", len(events))

	predictor, err := predict.New(predict.ProfileMarket, openAIKey, "", "")
	if err != nil {
		log.Fatalf("error building predictor: %v", err)
	}

	pastEvents := make([]predict.PastEvent, 0, len(events))
	for _, ev := range events {
		pastEvents = append(pastEvents, predict.PastEvent{EventRef: ev.Ref(), Articles: ev.Articles})
	}

	batch, err := predictor.Predict(ctx, pastEvents, *numPredictions)
	if err != nil {
		log.Fatalf("error predicting events: %v", err)
	}

	predictionRepo := repository.NewPredictionRepository(db.DB)
	if err := predictionRepo.SaveBatch(string(predict.ProfileMarket), batch); err != nil {
		log.Fatalf("error saving predictions: %v", err)
	}
	slog.Info("predictions saved", "count", len(batch.Predictions))

	if *withAdvisor {
		signals, err := pipeline.TacticalSignals(ctx, openAIClient, events)
		if err != nil {
			slog.Error("error generating tactical signals", "error", err)
		} else {
			slog.Info("tactical signals", "signals", signals)
		}
	}
}
