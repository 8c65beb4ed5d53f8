package repository

import (
	"database/sql"

	"github.com/LiSiruiRay/hacktech/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// SaveArticles stores normalized articles from one fetch in a single
// transaction, keyed by source name.
func (r *ArticleRepository) SaveArticles(source string, articles []model.Article) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range articles {
		_, err := tx.Exec(`
			INSERT INTO article(source, post_time, title, link, summary)
			VALUES($1, $2, $3, $4, $5)
		`, source, a.PostTime, a.Title, a.Link, a.Summary)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
