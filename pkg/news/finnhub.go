package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

// FetchWindow pulls general market news and filters to the window client-side,
// since the market news endpoint takes no time parameters. Keywords are
// ignored for the same reason.
func (c *FinnHubClient) FetchWindow(ctx context.Context, from, to time.Time, keywords []string, limit int) ([]RawArticle, error) {
	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	var articles []RawArticle
	for _, item := range res {
		if len(articles) >= limit {
			break
		}

		a := RawArticle{}

		if item.Headline != nil {
			a.Title = *item.Headline
		}
		if item.Summary != nil {
			a.NewsContent = *item.Summary
		}
		if item.Url != nil {
			a.URL = *item.Url
		}
		if item.Source != nil {
			a.Publisher = *item.Source
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0).UTC()
		}

		if a.PublishedAt.Before(from) || a.PublishedAt.After(to) {
			continue
		}

		articles = append(articles, a)
	}

	return articles, nil
}
