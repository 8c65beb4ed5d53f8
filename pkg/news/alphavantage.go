package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    alphaVantageBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) FetchWindow(ctx context.Context, from, to time.Time, keywords []string, limit int) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("time_from", from.UTC().Format("20060102T1504"))
	params.Set("time_to", to.UTC().Format("20060102T1504"))
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("apikey", c.apiKey)
	if len(keywords) > 0 {
		params.Set("tickers", strings.Join(keywords, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	articles := make([]RawArticle, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		publishedAt, err := time.Parse(feedTimeLayout, item.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, RawArticle{
			Title:       item.Title,
			NewsContent: item.Summary,
			URL:         item.URL,
			Publisher:   item.Source,
			PublishedAt: publishedAt.UTC(),
		})
	}

	return articles, nil
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

type avFeedItem struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	TimePublished string `json:"time_published"`
}
