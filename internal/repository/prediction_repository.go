package repository

import (
	"database/sql"

	"github.com/LiSiruiRay/hacktech/internal/model"
)

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// SaveBatch stores one predictor invocation's predictions with their weighted
// causes, atomically.
func (r *PredictionRepository) SaveBatch(profile string, batch *model.PredictionBatch) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, pred := range batch.Predictions {
		var pk int64
		err := tx.QueryRow(`
			INSERT INTO prediction(profile, content, confidence_score, reason, weight_sum)
			VALUES($1, $2, $3, $4, $5)
			RETURNING id
		`, profile, pred.Content, pred.ConfidenceScore, pred.Reason, pred.WeightSum()).Scan(&pk)
		if err != nil {
			return err
		}

		for _, cause := range pred.Cause {
			_, err := tx.Exec(`
				INSERT INTO prediction_cause(prediction_pk, weight, event_id, event_content)
				VALUES($1, $2, $3, $4)
			`, pk, cause.Weight, cause.Event.EventID, cause.Event.Content)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
