package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
	"github.com/LiSiruiRay/hacktech/pkg/news"
)

// fakeSource serves a fixed set of raw articles on the first day slice.
type fakeSource struct {
	articles []news.RawArticle
	calls    int
}

func (f *fakeSource) FetchWindow(ctx context.Context, from, to time.Time, keywords []string, limit int) ([]news.RawArticle, error) {
	f.calls++
	if f.calls == 1 {
		return f.articles, nil
	}
	return nil, nil
}

func (f *fakeSource) Name() string { return "fake" }

// topicBackend embeds by keyword so articles about the same subject land on
// the same axis.
type topicBackend struct{}

func (topicBackend) CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		switch {
		case strings.Contains(text, "Fed"):
			vectors[i] = []float64{1, 0.05, 0}
		case strings.Contains(text, "OPEC"):
			vectors[i] = []float64{0, 1, 0.05}
		default:
			vectors[i] = []float64{0, 0, 1}
		}
	}
	return vectors, nil
}

// topicClient answers the summary call by echoing the subject word, and the
// topic call with a matching label.
type topicClient struct{}

func (topicClient) Complete(ctx context.Context, system, user string) (string, error) {
	if strings.Contains(system, "topic") {
		if strings.Contains(user, "Fed") {
			return `{"topic": "Fed Rates"}`, nil
		}
		return `{"topic": "Oil Supply"}`, nil
	}
	if strings.Contains(user, "Fed") {
		return "Coverage of the Fed rate hike.", nil
	}
	return "Coverage of OPEC oil production.", nil
}

func (topicClient) Name() string { return "topic" }

func newTestPipeline(src news.Client) *Pipeline {
	embedder := llm.NewEmbedder(topicBackend{}, llm.EmbedConfig{
		BatchSize:         100,
		MaxRetries:        1,
		BaseBackoff:       time.Millisecond,
		RequestsPerMinute: 600000,
		TokensPerMinute:   1 << 30,
		Dim:               3,
	})
	summarizer := NewSummarizer(topicClient{}, 150)
	return New(src, embedder, summarizer, Config{MaxClusters: 5, MaxWords: 150, Location: time.UTC})
}

func TestQueryInvalidTimeRange(t *testing.T) {
	p := newTestPipeline(&fakeSource{})

	_, err := p.Query(context.Background(), "fortnight", nil)

	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("got %v, want ErrInvalidTimeRange", err)
	}
}

func TestQueryEmptyFeed(t *testing.T) {
	p := newTestPipeline(&fakeSource{})

	shares, err := p.Query(context.Background(), "day", nil)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(shares))
}

func TestQueryEndToEndTwoTopics(t *testing.T) {
	src := &fakeSource{articles: []news.RawArticle{
		{Title: "Fed hikes rates", NewsContent: "Fed raised rates by 50bp.", PublishedAt: time.Now()},
		{Title: "Fed decision shakes markets", NewsContent: "Markets dropped after the Fed hike.", PublishedAt: time.Now()},
		{Title: "OPEC cuts output", NewsContent: "OPEC agreed to cut oil production.", PublishedAt: time.Now()},
		{Title: "Oil rallies on OPEC move", NewsContent: "Crude rose as OPEC cut supply.", PublishedAt: time.Now()},
	}}

	p := newTestPipeline(src)

	shares, err := p.Query(context.Background(), "day", nil)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(shares))

	topics := make(map[string]int)
	for _, share := range shares {
		ev := share.Event
		assert.Equal(t, 2, len(ev.Articles))
		assert.Equal(t, 50, share.Percentage)
		assert.NotEqual(t, "", ev.EventID)
		assert.NotEqual(t, "", ev.Summary)
		topics[ev.Topic]++
	}

	// Each cluster got its own distinct subject tag.
	assert.Equal(t, 1, topics["Fed Rates"])
	assert.Equal(t, 1, topics["Oil Supply"])
}

func TestProcessEventIDsDistinct(t *testing.T) {
	p := newTestPipeline(&fakeSource{})

	articles := []model.Article{
		{Title: "Fed hikes", Summary: "Fed raised rates."},
		{Title: "OPEC cuts", Summary: "OPEC cut output."},
	}

	events, err := p.Process(context.Background(), articles)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(events))
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
}
