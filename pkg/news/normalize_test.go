package news

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	return loc
}

func TestNormalizeRawArticle(t *testing.T) {
	loc := testLocation(t)
	published := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)

	got := Normalize([]any{RawArticle{
		Title:       "Fed Holds Rates Steady",
		NewsContent: "The Federal Reserve kept interest rates unchanged.",
		URL:         "https://example.com/fed-rates",
		PublishedAt: published,
	}}, loc)

	assert.Equal(t, 1, len(got))
	assert.Equal(t, "Fed Holds Rates Steady", got[0].Title)
	assert.Equal(t, "The Federal Reserve kept interest rates unchanged.", got[0].Summary)
	assert.Equal(t, "https://example.com/fed-rates", got[0].Link)
	assert.Equal(t, loc, got[0].PostTime.Location())
	if !got[0].PostTime.Equal(published) {
		t.Errorf("normalization changed the instant: %v vs %v", got[0].PostTime, published)
	}
}

func TestNormalizeMapWithNewsContent(t *testing.T) {
	loc := testLocation(t)

	got := Normalize([]any{map[string]any{
		"title":          "OPEC Extends Output Cuts",
		"news_content":   "OPEC members agreed to extend production cuts.",
		"url":            "https://example.com/opec",
		"time_published": "20260226T120000",
	}}, loc)

	assert.Equal(t, 1, len(got))
	assert.Equal(t, "OPEC Extends Output Cuts", got[0].Title)
	assert.Equal(t, "OPEC members agreed to extend production cuts.", got[0].Summary)
	assert.Equal(t, "https://example.com/opec", got[0].Link)
}

func TestNormalizeMapWithSummaryKey(t *testing.T) {
	got := Normalize([]any{map[string]any{
		"title":   "Oil prices rise",
		"summary": "Brent crude rose 2%.",
		"link":    "https://example.com/oil",
	}}, time.UTC)

	assert.Equal(t, "Brent crude rose 2%.", got[0].Summary)
	assert.Equal(t, "https://example.com/oil", got[0].Link)
}

func TestNormalizeUnrecognizedShape(t *testing.T) {
	got := Normalize([]any{42, "just a headline"}, time.UTC)

	assert.Equal(t, 2, len(got))
	assert.Equal(t, "42", got[0].Title)
	assert.Equal(t, "", got[0].Summary)
	assert.Equal(t, "just a headline", got[1].Title)
}

func TestNormalizeNeverDropsItems(t *testing.T) {
	records := []any{
		RawArticle{Title: "a"},
		map[string]any{"title": "b"},
		nil,
		(*RawArticle)(nil),
	}

	got := Normalize(records, time.UTC)
	assert.Equal(t, len(records), len(got))
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	loc := testLocation(t)
	original := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)

	once := NormalizeTime(original, loc)
	twice := NormalizeTime(once, loc)

	assert.Equal(t, once, twice)
}

func TestNormalizeTimeKeepsZero(t *testing.T) {
	loc := testLocation(t)
	got := NormalizeTime(time.Time{}, loc)
	assert.Equal(t, true, got.IsZero())
}
