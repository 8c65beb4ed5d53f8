package pipeline

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/LiSiruiRay/hacktech/internal/model"
)

// EventID derives a stable event identifier from a cluster label by one-way
// hashing. Identical labels always map to the same id within a run.
func EventID(label int) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(label)))
	return fmt.Sprintf("%x", sum)
}

// Group builds one Event per distinct label, with each event's articles kept
// in original feed order. Every article lands in exactly one event; summary
// and topic are left empty for the summarizer to fill.
func Group(labels []int, articles []model.Article) map[int]*model.Event {
	events := make(map[int]*model.Event)
	for idx, label := range labels {
		ev, ok := events[label]
		if !ok {
			ev = &model.Event{EventID: EventID(label)}
			events[label] = ev
		}
		ev.Articles = append(ev.Articles, articles[idx])
	}
	return events
}
