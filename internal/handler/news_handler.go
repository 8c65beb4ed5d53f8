package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/pipeline"
)

// maxNewsPerEvent bounds how many member articles an event response carries.
const maxNewsPerEvent = 3

type NewsQuerier interface {
	Query(ctx context.Context, timeRange string, keywords []string) ([]model.EventShare, error)
}

type NewsHandler struct {
	querier NewsQuerier
}

func NewNewsHandler(querier NewsQuerier) *NewsHandler {
	return &NewsHandler{querier: querier}
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	timePeriod := getTimePeriod(c)
	limit := getQueryLimit(c)

	shares, err := h.querier.Query(c.Request.Context(), timePeriod, nil)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time period"})
			return
		}
		slog.Error("error querying news events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "News query failed"})
		return
	}

	if len(shares) > limit {
		shares = shares[:limit]
	}

	c.JSON(http.StatusOK, NewsResponse{Events: formatEvents(shares)})
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Event prediction API is running"})
}

func formatEvents(shares []model.EventShare) []EventResponse {
	events := make([]EventResponse, 0, len(shares))
	for _, share := range shares {
		ev := share.Event

		newsList := make([]NewsItemResponse, 0, maxNewsPerEvent)
		for i, a := range ev.Articles {
			if i >= maxNewsPerEvent {
				break
			}
			newsList = append(newsList, NewsItemResponse{
				Title:       a.Title,
				NewsContent: a.Summary,
			})
		}

		events = append(events, EventResponse{
			EventID:      ev.EventID,
			EventContent: ev.Summary,
			Topic:        ev.Topic,
			Risk:         ev.Risk,
			Opportunity:  ev.Opportunity,
			Percentage:   share.Percentage,
			NewsList:     newsList,
		})
	}
	return events
}

func getTimePeriod(c *gin.Context) string {
	period := c.DefaultQuery("time_period", "week")
	switch period {
	case "day", "week", "month":
		return period
	default:
		return "week"
	}
}

func getQueryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		return 5
	}
	return limit
}
