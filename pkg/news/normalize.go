package news

import (
	"fmt"
	"time"

	"github.com/LiSiruiRay/hacktech/internal/model"
)

// feedTimeLayout is the compact timestamp format used by feed payloads.
const feedTimeLayout = "20060102T150405"

// Normalize converts heterogeneous raw feed records into model.Article values.
// It accepts three shapes, tried in order: a RawArticle (or pointer to one), a
// map with either a "news_content" or a "summary" body key, and anything else,
// which is stringified into a title with empty content. A malformed record
// degrades to an empty-content article instead of failing the batch.
//
// Timestamps are converted into loc before storage; re-applying the conversion
// is a no-op.
func Normalize(records []any, loc *time.Location) []model.Article {
	articles := make([]model.Article, 0, len(records))
	for _, rec := range records {
		articles = append(articles, normalizeOne(rec, loc))
	}
	return articles
}

func normalizeOne(rec any, loc *time.Location) model.Article {
	switch v := rec.(type) {
	case RawArticle:
		return fromRaw(v, loc)
	case *RawArticle:
		if v == nil {
			return model.Article{}
		}
		return fromRaw(*v, loc)
	case map[string]any:
		return fromMap(v, loc)
	default:
		return model.Article{Title: fmt.Sprint(rec)}
	}
}

func fromRaw(r RawArticle, loc *time.Location) model.Article {
	return model.Article{
		PostTime: NormalizeTime(r.PublishedAt, loc),
		Title:    r.Title,
		Link:     r.URL,
		Summary:  r.NewsContent,
	}
}

func fromMap(m map[string]any, loc *time.Location) model.Article {
	a := model.Article{
		Title: stringField(m, "title"),
		Link:  stringField(m, "url"),
	}
	if a.Link == "" {
		a.Link = stringField(m, "link")
	}

	// Body key varies by producer.
	a.Summary = stringField(m, "news_content")
	if a.Summary == "" {
		a.Summary = stringField(m, "summary")
	}

	if ts := stringField(m, "time_published"); ts != "" {
		if parsed, err := time.Parse(feedTimeLayout, ts); err == nil {
			a.PostTime = NormalizeTime(parsed.UTC(), loc)
		}
	} else if ts := stringField(m, "post_time"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			a.PostTime = NormalizeTime(parsed, loc)
		}
	}

	return a
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// NormalizeTime moves t into loc. Zero times stay zero so missing timestamps
// remain detectable. Idempotent: normalizing an already-normalized time
// yields the same instant and location.
func NormalizeTime(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(loc)
}
