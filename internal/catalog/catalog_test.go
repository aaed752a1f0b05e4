package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	items, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(items) < 5 {
		t.Fatalf("expected a usable default catalog, got %d items", len(items))
	}
	for _, item := range items {
		if item.ID == "" || item.Infinitive == "" {
			t.Fatalf("incomplete item %+v", item)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.json")
	data := `[{"id":"to_run","infinitive":"run"},{"infinitive":"To  Eat","past":"ATE"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	items, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].ID != "to_eat" || items[1].Infinitive != "eat" || items[1].Past != "ate" {
		t.Fatalf("unexpected normalized item %+v", items[1])
	}
}

func TestLoadEmptySourceUsesDefault(t *testing.T) {
	items, err := Load(context.Background(), "  ")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("expected embedded catalog")
	}
}

func TestLoadFailuresAreUnavailable(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	sources := map[string]string{
		"missing":   filepath.Join(dir, "nope.json"),
		"malformed": write("bad.json", `{"id":`),
		"empty":     write("empty.json", `[]`),
		"blank":     write("blank.json", `[{"id":"x","infinitive":"  "}]`),
		"duplicate": write("dup.json", `[{"id":"a","infinitive":"run"},{"id":"a","infinitive":"eat"}]`),
	}
	for name, source := range sources {
		if _, err := Load(context.Background(), source); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("%s: expected ErrUnavailable, got %v", name, err)
		}
	}
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verbs.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"to_go","infinitive":"go"},{"id":"to_see","infinitive":"see"}]`))
	}))
	defer srv.Close()

	items, err := Load(context.Background(), srv.URL+"/verbs.json")
	if err != nil {
		t.Fatalf("load remote: %v", err)
	}
	if len(items) != 2 || items[0].ID != "to_go" {
		t.Fatalf("unexpected items %+v", items)
	}

	if _, err := Load(context.Background(), srv.URL+"/missing.json"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for 404, got %v", err)
	}
}
