package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/LiSiruiRay/hacktech/db"
	"github.com/LiSiruiRay/hacktech/internal/repository"
	"github.com/LiSiruiRay/hacktech/pkg/news"
	"github.com/LiSiruiRay/hacktech/pkg/pipeline"
)

func main() {

	hours := flag.Int("hours", 24, "how many hours back to fetch")
	limit := flag.Int("limit", 200, "maximum articles to fetch")
	tickers := flag.String("tickers", "", "comma-separated tickers to filter on")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := db.Connect(); err != nil {
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

	var keywords []string
	if *tickers != "" {
		keywords = strings.Split(*tickers, ",")
	}

	ctx := context.Background()
	to := time.Now()
	from := to.Add(-time.Duration(*hours) * time.Hour)

	raw, err := source.FetchWindow(ctx, from, to, keywords, *limit)
	if err != nil {
		log.Fatalf("error fetching news: %v", err)
	}

	records := make([]any, len(raw))
	for i := range raw {
		records[i] = raw[i]
	}
	articles := news.Normalize(records, pipeline.DefaultConfig().Location)

	repo := repository.NewArticleRepository(db.DB)
	if err := repo.SaveArticles(source.Name(), articles); err != nil {
		log.Fatalf("error saving articles: %v", err)
	}

	slog.Info("articles saved", "source", source.Name(), "count", len(articles))
}
