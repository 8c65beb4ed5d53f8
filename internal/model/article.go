package model

import "time"

// Article is a single normalized news item. Immutable once produced by
// news.Normalize; downstream stages only ever read it.
type Article struct {
	PostTime time.Time `json:"post_time"`
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Summary  string    `json:"summary"`
}
