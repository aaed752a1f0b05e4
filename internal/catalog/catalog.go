// Package catalog loads and validates the verb catalog.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/picverb/internal/model"
)

// ErrUnavailable marks a catalog that could not be fetched, parsed or validated.
var ErrUnavailable = errors.New("catalog unavailable")

// maxBlobSize bounds remote catalog downloads.
const maxBlobSize = 16 << 20

//go:embed verbs.json
var defaultVerbs []byte

// Default returns the embedded catalog.
func Default() ([]model.Item, error) {
	return Parse(defaultVerbs)
}

// Load reads a catalog from a file path or an http(s) URL. An empty source
// selects the embedded catalog. Every failure wraps ErrUnavailable.
func Load(ctx context.Context, source string) ([]model.Item, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Default()
	}
	var (
		data []byte
		err  error
	)
	if isRemote(source) {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Parse(data)
}

// Parse decodes, normalizes and validates a JSON catalog blob.
func Parse(data []byte) ([]model.Item, error) {
	var raw []model.Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid catalog json: %v", ErrUnavailable, err)
	}
	items := Normalize(raw)
	if err := Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Validate checks that items is non-empty and IDs are unique.
func Validate(items []model.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrUnavailable)
	}
	dups := lo.FindDuplicatesBy(items, func(item model.Item) string {
		return item.ID
	})
	if len(dups) > 0 {
		ids := lo.Map(dups, func(item model.Item, _ int) string {
			return item.ID
		})
		return fmt.Errorf("%w: duplicate ids: %s", ErrUnavailable, strings.Join(ids, ", "))
	}
	return nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close for read-only response.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to load %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
