package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-auction-query/catalog"
)

func TestLoadFixtureJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category.json")
	if err := os.WriteFile(path, []byte(`{"id":3,"name":"Lighting","parent":{"id":1,"name":"Home"}}`), 0644); err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}

	var category catalog.Category
	LoadFixtureJSON(t, path, &category)

	if category.Name != "Lighting" || category.Parent == nil || category.Parent.ID != 1 {
		t.Errorf("unexpected category %+v", category)
	}
}

func TestLoadGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "out.json")

	t.Setenv(UpdateGoldenEnv, "1")
	if got := LoadGolden(t, path, []byte("fresh")); string(got) != "fresh" {
		t.Errorf("expected update mode to echo actual, got %q", got)
	}

	t.Setenv(UpdateGoldenEnv, "")
	if got := LoadGolden(t, path, []byte("ignored")); string(got) != "fresh" {
		t.Errorf("expected stored golden, got %q", got)
	}
}

func TestPaths(t *testing.T) {
	if got := FixturePath("a.json"); got != filepath.Join("testdata", "a.json") {
		t.Errorf("FixturePath = %q", got)
	}
	if got := GoldenPath("a.json"); got != filepath.Join("testdata", "golden", "a.json") {
		t.Errorf("GoldenPath = %q", got)
	}
}

func TestSampleCatalog(t *testing.T) {
	items := SampleCatalog(SampleNow)
	if len(items) != 8 {
		t.Fatalf("expected 8 items, got %d", len(items))
	}

	seen := map[int]bool{}
	for _, item := range items {
		if item.ID != SampleItemID(item.Name) {
			t.Errorf("%s: unstable id", item.Name)
		}
		for _, b := range item.Bids {
			if seen[b.ID] {
				t.Errorf("duplicate bid id %d", b.ID)
			}
			seen[b.ID] = true
			if b.ItemID != item.ID {
				t.Errorf("%s: bid %d points at %s", item.Name, b.ID, b.ItemID)
			}
		}
	}

	if len(seen) != 8 {
		t.Errorf("expected 8 bids, got %d", len(seen))
	}
}
