package catalog

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/picverb/internal/model"
)

var (
	toPrefix      = regexp.MustCompile(`^to\s+`)
	unsplashPhoto = regexp.MustCompile(`^/photos/([A-Za-z0-9_-]+)`)
)

// Normalize cleans catalog entries: whitespace is collapsed, verb forms are
// lowercased, a leading "to " is dropped from the infinitive and a missing ID
// is derived as "to_<infinitive>". Entries without an infinitive are removed.
func Normalize(items []model.Item) []model.Item {
	cleaned := lo.Map(items, func(item model.Item, _ int) model.Item {
		item.ID = clean(item.ID)
		item.Spanish = clean(item.Spanish)
		item.Pronunciation = clean(item.Pronunciation)
		item.Infinitive = toPrefix.ReplaceAllString(strings.ToLower(clean(item.Infinitive)), "")
		item.Past = strings.ToLower(clean(item.Past))
		item.PastParticiple = strings.ToLower(clean(item.PastParticiple))
		item.Gerund = strings.ToLower(clean(item.Gerund))
		item.Image = clean(item.Image)
		if item.ID == "" && item.Infinitive != "" {
			item.ID = "to_" + strings.ReplaceAll(item.Infinitive, " ", "_")
		}
		return item
	})
	return lo.Filter(cleaned, func(item model.Item, _ int) bool {
		return item.Infinitive != ""
	})
}

// NormalizeImageURL rewrites Unsplash photo page URLs into direct image URLs.
// Anything else is returned unchanged.
func NormalizeImageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() != "unsplash.com" {
		return raw
	}
	m := unsplashPhoto.FindStringSubmatch(u.Path)
	if len(m) < 2 {
		return raw
	}
	return "https://images.unsplash.com/photo-" + m[1] + "?auto=format&fit=crop&w=1200&q=60"
}

// clean collapses runs of whitespace, including non-breaking spaces.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
