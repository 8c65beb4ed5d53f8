package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestAlphaVantageFetchWindow(t *testing.T) {
	payload := map[string]interface{}{
		"feed": []map[string]interface{}{
			{
				"title":          "Fed Holds Rates Steady",
				"summary":        "The Federal Reserve kept interest rates unchanged.",
				"url":            "https://example.com/fed-rates",
				"source":         "Reuters",
				"time_published": "20260226T120000",
			},
		},
	}

	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := &AlphaVantageClient{
		apiKey:     "test-key",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}

	from := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)

	articles, err := client.FetchWindow(context.Background(), from, to, []string{"SPY", "TLT"}, 30)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))

	a := articles[0]
	assert.Equal(t, "Fed Holds Rates Steady", a.Title)
	assert.Equal(t, "The Federal Reserve kept interest rates unchanged.", a.NewsContent)
	assert.Equal(t, "https://example.com/fed-rates", a.URL)
	assert.Equal(t, "Reuters", a.Publisher)
	assert.NotEqual(t, time.Time{}, a.PublishedAt)

	assert.Equal(t, "NEWS_SENTIMENT", gotQuery["function"][0])
	assert.Equal(t, "20260225T0000", gotQuery["time_from"][0])
	assert.Equal(t, "20260226T0000", gotQuery["time_to"][0])
	assert.Equal(t, "SPY,TLT", gotQuery["tickers"][0])
	assert.Equal(t, "30", gotQuery["limit"][0])
}

func TestAlphaVantageBadTimestampDegrades(t *testing.T) {
	payload := map[string]interface{}{
		"feed": []map[string]interface{}{
			{
				"title":          "Broken timestamp",
				"summary":        "still delivered",
				"url":            "https://example.com/x",
				"time_published": "not-a-time",
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := &AlphaVantageClient{apiKey: "k", baseURL: srv.URL, httpClient: srv.Client()}

	articles, err := client.FetchWindow(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, true, articles[0].PublishedAt.IsZero())
}
