package ledger

import (
	"encoding/json"
	"math"
	"time"
)

const (
	fieldTotal   = "total"
	fieldCorrect = "correct"
	fieldHits    = "hitCount"
	fieldMisses  = "missCount"
	fieldUpdated = "lastUpdated"
)

// maxCount keeps decoded counters within exact float64 integers.
const maxCount = 1 << 53

type persisted struct {
	Total       int            `json:"total"`
	Correct     int            `json:"correct"`
	HitCount    map[string]int `json:"hitCount"`
	MissCount   map[string]int `json:"missCount"`
	LastUpdated string         `json:"lastUpdated"`
}

// Encode serializes a ledger to its persisted JSON form.
func Encode(l Ledger) ([]byte, error) {
	p := persisted{
		Total:       l.Total,
		Correct:     l.Correct,
		HitCount:    l.Hits,
		MissCount:   l.Misses,
		LastUpdated: l.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.HitCount == nil {
		p.HitCount = map[string]int{}
	}
	if p.MissCount == nil {
		p.MissCount = map[string]int{}
	}
	return json.Marshal(p)
}

// Decode rebuilds a ledger from persisted data. Every field is validated on
// its own; a missing or malformed field falls back to its default
// (0, empty map, now) without discarding the others. Decode never fails.
func Decode(raw []byte, now time.Time) Ledger {
	l := New(now)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return l
	}
	if v, ok := decodeCount(fields[fieldTotal]); ok {
		l.Total = v
	}
	if v, ok := decodeCount(fields[fieldCorrect]); ok {
		l.Correct = v
	}
	l.Hits = decodeCounts(fields[fieldHits])
	l.Misses = decodeCounts(fields[fieldMisses])
	if ts, ok := decodeTime(fields[fieldUpdated]); ok {
		l.UpdatedAt = ts
	}
	if l.Correct > l.Total {
		l.Correct = l.Total
	}
	return l
}

func decodeCount(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return 0, false
	}
	v := *f
	if v < 0 || v > maxCount || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func decodeCounts(raw json.RawMessage) map[string]int {
	out := map[string]int{}
	if len(raw) == 0 {
		return out
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}
	for id, value := range entries {
		if id == "" {
			continue
		}
		if v, ok := decodeCount(value); ok {
			out[id] = v
		}
	}
	return out
}

// decodeTime accepts RFC 3339 strings and Unix milliseconds.
func decodeTime(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	var ms *float64
	if err := json.Unmarshal(raw, &ms); err != nil || ms == nil {
		return time.Time{}, false
	}
	if *ms < 0 || *ms > maxCount {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(*ms)).UTC(), true
}
