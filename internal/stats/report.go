// Package stats contains statistics calculations and reporting.
package stats

import (
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/picverb/internal/ledger"
	"github.com/verte-zerg/picverb/internal/model"
)

// Report contains precomputed ledger views for rendering.
type Report struct {
	Attempts  int
	Correct   int
	Accuracy  int
	UpdatedAt time.Time
	Hardest   []HardItem
}

// HardItem is a hardest-items row with its catalog labels resolved.
type HardItem struct {
	ID         string
	Infinitive string
	Spanish    string
	Misses     int
	Hits       int
}

// BuildReport derives the summary and the top hardest items from l.
// Items missing from the catalog keep their ID as label.
func BuildReport(l ledger.Ledger, items []model.Item, top int) Report {
	byID := lo.KeyBy(items, func(item model.Item) string {
		return item.ID
	})
	hardest := lo.Map(l.Hardest(top), func(m ledger.Miss, _ int) HardItem {
		row := HardItem{
			ID:         m.ItemID,
			Infinitive: m.ItemID,
			Misses:     m.Count,
			Hits:       l.Hits[m.ItemID],
		}
		if item, ok := byID[m.ItemID]; ok {
			row.Infinitive = item.Infinitive
			row.Spanish = item.Spanish
		}
		return row
	})
	return Report{
		Attempts:  l.Total,
		Correct:   l.Correct,
		Accuracy:  l.Accuracy(),
		UpdatedAt: l.UpdatedAt,
		Hardest:   hardest,
	}
}
