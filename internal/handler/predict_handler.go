package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LiSiruiRay/hacktech/db"
	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/pipeline"
	"github.com/LiSiruiRay/hacktech/pkg/predict"
)

const defaultNumPredictions = 3

type EventPredictor interface {
	Predict(ctx context.Context, events []predict.PastEvent, numPredictions int) (*model.PredictionBatch, error)
	PredictFromJSON(ctx context.Context, jsonStr string, numPredictions int) (*model.PredictionBatch, error)
}

// ResponseCache stores rendered prediction responses with a TTL so repeated
// identical requests do not re-run the pipeline.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// EventLoader reads back recently persisted events so predictions can run
// against history without refetching the feed.
type EventLoader interface {
	GetLatestEvents(limit int) ([]model.EventRef, error)
}

type PredictHandler struct {
	querier    NewsQuerier
	predictors map[string]EventPredictor
	loader     EventLoader
	cache      ResponseCache
	cacheTTL   time.Duration
}

// NewPredictHandler wires the news querier and one predictor per data source
// ("market", "personal"). loader and cache may be nil to disable prediction
// from history and response caching respectively.
func NewPredictHandler(querier NewsQuerier, predictors map[string]EventPredictor, loader EventLoader, cache ResponseCache, cacheTTL time.Duration) *PredictHandler {
	return &PredictHandler{
		querier:    querier,
		predictors: predictors,
		loader:     loader,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// PredictFromNews runs the full pass: query events for the window, then ask
// the selected backend for predictions attributed to them.
func (h *PredictHandler) PredictFromNews(c *gin.Context) {
	source := c.Param("source")
	predictor, ok := h.predictors[source]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data source '" + source + "'. Must be 'personal' or 'market'."})
		return
	}

	timePeriod := getTimePeriod(c)
	limit := getQueryLimit(c)
	ctx := c.Request.Context()

	cacheKey := db.PredictionCacheKey(source, timePeriod, limit)
	if h.cache != nil {
		if cached, ok := h.cache.Get(ctx, cacheKey); ok {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	shares, err := h.querier.Query(ctx, timePeriod, nil)
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

	if len(shares) == 0 {
		c.JSON(http.StatusOK, PredictFromNewsResponse{Events: []EventResponse{}, Predictions: []PredictionResponse{}})
		return
	}

	pastEvents := make([]predict.PastEvent, 0, len(shares))
	for _, share := range shares {
		ev := share.Event
		articles := ev.Articles
		if len(articles) > maxNewsPerEvent {
			articles = articles[:maxNewsPerEvent]
		}
		pastEvents = append(pastEvents, predict.PastEvent{
			EventRef: ev.Ref(),
			Articles: articles,
		})
	}

	batch, err := predictor.Predict(ctx, pastEvents, defaultNumPredictions)
	if err != nil {
		var schemaErr *predict.SchemaError
		if errors.As(err, &schemaErr) {
			slog.Error("prediction schema violation", "source", source, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Prediction backend returned a malformed result"})
			return
		}
		slog.Error("prediction failed", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	res := PredictFromNewsResponse{
		Events:      formatEvents(shares),
		Predictions: formatPredictions(batch),
	}

	if h.cache != nil {
		if body, err := json.Marshal(res); err == nil {
			if err := h.cache.Set(ctx, cacheKey, string(body), h.cacheTTL); err != nil {
				slog.Warn("failed to cache prediction response", "key", cacheKey, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, res)
}

// PredictFromHistory predicts from the most recently persisted events instead
// of refetching and reprocessing the feed.
func (h *PredictHandler) PredictFromHistory(c *gin.Context) {
	source := c.Param("source")
	predictor, ok := h.predictors[source]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data source '" + source + "'. Must be 'personal' or 'market'."})
		return
	}

	if h.loader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event history is not configured"})
		return
	}

	refs, err := h.loader.GetLatestEvents(getQueryLimit(c))
	if err != nil {
		slog.Error("error loading event history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Event history query failed"})
		return
	}

	if len(refs) == 0 {
		c.JSON(http.StatusOK, gin.H{"predictions": []PredictionResponse{}})
		return
	}

	pastEvents := make([]predict.PastEvent, len(refs))
	for i, ref := range refs {
		pastEvents[i] = predict.PastEvent{EventRef: ref}
	}

	batch, err := predictor.Predict(c.Request.Context(), pastEvents, defaultNumPredictions)
	if err != nil {
		var schemaErr *predict.SchemaError
		if errors.As(err, &schemaErr) {
			slog.Error("prediction schema violation", "source", source, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Prediction backend returned a malformed result"})
			return
		}
		slog.Error("prediction failed", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": formatPredictions(batch)})
}

// PredictFromEvents predicts from caller-supplied bare events in the request
// body (a JSON array of {event_id, event_content}).
func (h *PredictHandler) PredictFromEvents(c *gin.Context) {
	source := c.DefaultQuery("source", "market")
	predictor, ok := h.predictors[source]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data source '" + source + "'. Must be 'personal' or 'market'."})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read request body"})
		return
	}

	batch, err := predictor.PredictFromJSON(c.Request.Context(), string(body), defaultNumPredictions)
	if err != nil {
		var inputErr *predict.InputError
		if errors.As(err, &inputErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error()})
			return
		}
		var schemaErr *predict.SchemaError
		if errors.As(err, &schemaErr) {
			slog.Error("prediction schema violation", "source", source, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Prediction backend returned a malformed result"})
			return
		}
		slog.Error("prediction failed", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": formatPredictions(batch)})
}

func formatPredictions(batch *model.PredictionBatch) []PredictionResponse {
	predictions := make([]PredictionResponse, 0, len(batch.Predictions))
	for _, p := range batch.Predictions {
		pr := PredictionResponse{
			Content:         p.Content,
			ConfidenceScore: p.ConfidenceScore,
			Reason:          p.Reason,
			Cause:           make([]CauseResponse, 0, len(p.Cause)),
		}
		for _, cause := range p.Cause {
			cr := CauseResponse{Weight: cause.Weight}
			cr.Event.EventID = cause.Event.EventID
			cr.Event.EventContent = cause.Event.Content
			pr.Cause = append(pr.Cause, cr)
		}
		predictions = append(predictions, pr)
	}
	return predictions
}
