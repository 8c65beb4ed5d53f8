package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
	"github.com/LiSiruiRay/hacktech/pkg/news"
)

// ErrInvalidTimeRange marks a caller-supplied time range token the pipeline
// does not understand. Surfaced immediately, no partial processing.
var ErrInvalidTimeRange = errors.New("invalid time range")

// Config holds the per-run tunables of the pipeline.
type Config struct {
	MaxClusters int
	MaxWords    int
	// Location is the time zone articles are normalized into.
	Location *time.Location
}

func DefaultConfig() Config {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		loc = time.UTC
	}
	return Config{
		MaxClusters: 5,
		MaxWords:    150,
		Location:    loc,
	}
}

// Pipeline is one synchronous pass from raw feed to summarized events. All
// collaborators are injected; the pipeline owns no global state.
type Pipeline struct {
	source     news.Client
	embedder   *llm.Embedder
	summarizer *Summarizer
	cfg        Config
}

func New(source news.Client, embedder *llm.Embedder, summarizer *Summarizer, cfg Config) *Pipeline {
	if cfg.MaxClusters <= 0 {
		cfg.MaxClusters = DefaultConfig().MaxClusters
	}
	if cfg.Location == nil {
		cfg.Location = DefaultConfig().Location
	}
	return &Pipeline{
		source:     source,
		embedder:   embedder,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// windowPlan maps a time range token to how many day slices to query and the
// per-day article budget. Tighter budgets for longer ranges keep the total
// article count roughly constant.
func windowPlan(timeRange string) (days, dailyLimit int, err error) {
	switch timeRange {
	case "day":
		return 1, 200, nil
	case "week":
		return 7, 30, nil
	case "month":
		return 31, 5, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, timeRange)
	}
}

// Query runs the full pass: fetch the window day by day, normalize, embed,
// cluster, aggregate, summarize. The result is each event with its share of
// the total article count, largest first.
func (p *Pipeline) Query(ctx context.Context, timeRange string, keywords []string) ([]model.EventShare, error) {
	days, dailyLimit, err := windowPlan(timeRange)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var articles []model.Article
	for offset := 0; offset < days; offset++ {
		to := now.AddDate(0, 0, -offset)
		from := now.AddDate(0, 0, -(offset + 1))

		raw, err := p.source.FetchWindow(ctx, from, to, keywords, dailyLimit)
		if err != nil {
			slog.Error("news fetch failed for day slice", "source", p.source.Name(), "offset", offset, "error", err)
			continue
		}

		records := make([]any, len(raw))
		for i := range raw {
			records[i] = raw[i]
		}
		articles = append(articles, news.Normalize(records, p.cfg.Location)...)
	}

	if len(articles) == 0 {
		return []model.EventShare{}, nil
	}

	events, err := p.Process(ctx, articles)
	if err != nil {
		return nil, err
	}

	return shares(events, len(articles)), nil
}

// Process clusters already-normalized articles into summarized events.
func (p *Pipeline) Process(ctx context.Context, articles []model.Article) (map[int]*model.Event, error) {
	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.Summary
	}

	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding articles: %w", err)
	}

	labels := Cluster(embeddings, p.cfg.MaxClusters)
	events := Group(labels, articles)

	slog.Info("clustered articles into events", "articles", len(articles), "events", len(events))

	p.summarizer.SummarizeAll(ctx, events)

	return events, nil
}

func shares(events map[int]*model.Event, total int) []model.EventShare {
	labels := make([]int, 0, len(events))
	for label := range events {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	result := make([]model.EventShare, 0, len(events))
	for _, label := range labels {
		ev := events[label]
		result = append(result, model.EventShare{
			Percentage: 100 * len(ev.Articles) / total,
			Event:      *ev,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return len(result[i].Event.Articles) > len(result[j].Event.Articles)
	})

	return result
}
