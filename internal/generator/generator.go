// Package generator builds quiz rounds.
package generator

import (
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/picverb/internal/model"
)

// DefaultOptions is the option count used when none is configured.
const DefaultOptions = 4

const (
	baseWeight  = 1.0
	missBoost   = 3.0
	hitPenalty  = 0.5
	minWeight   = 1.0
	avoidFactor = 0.15
	minOptions  = 2
)

// Performance is the per-item history targets are weighted by.
type Performance struct {
	Hits   map[string]int
	Misses map[string]int
}

// Generator produces randomized quiz rounds.
type Generator struct {
	rnd Source
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src Source) *Generator {
	return &Generator{rnd: src}
}

// Weight returns the unadjusted selection weight for an item history.
// Never below 1.0, so every item stays reachable.
func Weight(hits, misses int) float64 {
	w := baseWeight + float64(misses)*missBoost - float64(hits)*hitPenalty
	if w < minWeight {
		return minWeight
	}
	return w
}

// Weights returns the selection weight of every item, damping avoidID.
func Weights(items []model.Item, perf Performance, avoidID string) []float64 {
	weights := make([]float64, len(items))
	for i, item := range items {
		w := Weight(perf.Hits[item.ID], perf.Misses[item.ID])
		if avoidID != "" && item.ID == avoidID {
			w *= avoidFactor
		}
		weights[i] = w
	}
	return weights
}

// BuildRound selects a weighted target and optionCount-1 uniform distractors,
// then shuffles the option order. An empty catalog yields a zero Round.
func (g *Generator) BuildRound(items []model.Item, perf Performance, avoidID string, optionCount int) model.Round {
	if len(items) == 0 {
		return model.Round{}
	}
	if optionCount < minOptions {
		optionCount = minOptions
	}

	weights := Weights(items, perf, avoidID)
	target := items[g.pickWeighted(weights)]

	others := lo.Filter(items, func(item model.Item, _ int) bool {
		return item.ID != target.ID
	})
	distractors := g.pickN(others, optionCount-1)

	options := make([]model.Item, 0, len(distractors)+1)
	options = append(options, target)
	options = append(options, distractors...)
	g.shuffle(options)

	return model.Round{Target: target, Options: options}
}

// pickWeighted performs a cumulative-weight draw. Falls back to the last
// index when float drift keeps the remainder above zero.
func (g *Generator) pickWeighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rnd.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// pickN returns n items drawn without replacement using a partial
// Fisher-Yates shuffle over a copy of items.
func (g *Generator) pickN(items []model.Item, n int) []model.Item {
	pool := make([]model.Item, len(items))
	copy(pool, items)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n && i < len(pool)-1; i++ {
		j := i + g.intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func (g *Generator) shuffle(items []model.Item) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func (g *Generator) intn(n int) int {
	j := int(g.rnd.Float64() * float64(n))
	if j >= n {
		j = n - 1
	}
	if j < 0 {
		j = 0
	}
	return j
}
