// Package model defines shared data structures.
package model

// Item is one catalog entry: a verb, its display forms and an image reference.
type Item struct {
	ID             string `json:"id"`
	Spanish        string `json:"spanish"`
	Pronunciation  string `json:"pronunciation,omitempty"`
	Infinitive     string `json:"infinitive"`
	Past           string `json:"past"`
	PastParticiple string `json:"past_participle"`
	Gerund         string `json:"gerund"`
	Image          string `json:"image"`
}

// Round is one quiz presentation. Options contains Target exactly once.
type Round struct {
	Target  Item
	Options []Item
}

// HasOption reports whether id is one of the round's options.
func (r Round) HasOption(id string) bool {
	for _, opt := range r.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Config defines quiz settings.
type Config struct {
	CatalogPath string
	Options     int
	AvoidRepeat bool
	DBPath      string
	LogLevel    string
	LogFile     string
}

// StatsConfig defines options for stats output.
type StatsConfig struct {
	CatalogPath string
	DBPath      string
	Top         int
	Plain       bool
}
