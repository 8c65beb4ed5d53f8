package repository

import (
	"database/sql"

	"github.com/LiSiruiRay/hacktech/internal/model"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// SaveEvents stores a run's events and their member articles in one
// transaction so a run is either fully recorded or absent.
func (r *EventRepository) SaveEvents(events []model.Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ev := range events {
		var pk int64
		err := tx.QueryRow(`
			INSERT INTO event(event_id, summary, topic, risk, opportunity, rationale)
			VALUES($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, ev.EventID, ev.Summary, ev.Topic, ev.Risk, ev.Opportunity, nullIfEmpty(ev.Rationale)).Scan(&pk)
		if err != nil {
			return err
		}

		for _, a := range ev.Articles {
			_, err := tx.Exec(`
				INSERT INTO event_article(event_pk, post_time, title, link, summary)
				VALUES($1, $2, $3, $4, $5)
			`, pk, a.PostTime, a.Title, a.Link, a.Summary)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetLatestEvents returns the most recently stored events as bare references
// suitable for predictor input.
func (r *EventRepository) GetLatestEvents(limit int) ([]model.EventRef, error) {
	rows, err := r.db.Query(`
		SELECT event_id, summary
		FROM event
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []model.EventRef
	for rows.Next() {
		var ref model.EventRef
		if err := rows.Scan(&ref.EventID, &ref.Content); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
