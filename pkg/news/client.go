package news

import (
	"context"
	"time"
)

// RawArticle is an article as a source delivers it, before normalization.
type RawArticle struct {
	Title       string
	NewsContent string
	URL         string
	Publisher   string
	PublishedAt time.Time
}

// Client fetches raw articles for a time window. Keywords narrow the query to
// specific tickers when the source supports it; sources that cannot filter
// server-side may ignore them.
type Client interface {
	FetchWindow(ctx context.Context, from, to time.Time, keywords []string, limit int) ([]RawArticle, error)
	Name() string
}
