// Package ledger tracks quiz performance and persists it between sessions.
package ledger

import (
	"math"
	"sort"
	"time"
)

// HardestLimit caps the hardest-items view.
const HardestLimit = 5

// Ledger is the aggregate and per-item attempt record.
// Values are treated as immutable: Record returns a copy.
type Ledger struct {
	Total     int
	Correct   int
	Hits      map[string]int
	Misses    map[string]int
	UpdatedAt time.Time
}

// Miss is one entry of the hardest-items view.
type Miss struct {
	ItemID string
	Count  int
}

// New returns an empty ledger stamped with at.
func New(at time.Time) Ledger {
	return Ledger{
		Hits:      map[string]int{},
		Misses:    map[string]int{},
		UpdatedAt: at,
	}
}

// Record returns a new ledger with one attempt for itemID added.
// Exactly one of the hit or miss counters of itemID is incremented.
func (l Ledger) Record(itemID string, correct bool, at time.Time) Ledger {
	next := Ledger{
		Total:     l.Total + 1,
		Correct:   l.Correct,
		Hits:      copyCounts(l.Hits),
		Misses:    copyCounts(l.Misses),
		UpdatedAt: at,
	}
	if correct {
		next.Correct++
		next.Hits[itemID]++
	} else {
		next.Misses[itemID]++
	}
	return next
}

// Accuracy returns the rounded percentage of correct attempts, 0 when empty.
func (l Ledger) Accuracy() int {
	if l.Total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(l.Correct) / float64(l.Total)))
}

// Hardest returns up to n items with misses, most missed first.
// Ties keep item ID order. n <= 0 means no cap.
func (l Ledger) Hardest(n int) []Miss {
	ids := make([]string, 0, len(l.Misses))
	for id, count := range l.Misses {
		if count > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]Miss, 0, len(ids))
	for _, id := range ids {
		out = append(out, Miss{ItemID: id, Count: l.Misses[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
