package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if len(c.Movies) != 4 {
		t.Fatalf("movies = %d, want 4", len(c.Movies))
	}
	if len(c.Series) != 3 {
		t.Fatalf("series = %d, want 3", len(c.Series))
	}
	for _, item := range append(c.Movies, c.Series...) {
		if item.ID <= 0 || item.Title == "" {
			t.Fatalf("invalid seed item: %+v", item)
		}
		if item.Likes != 0 || item.Dislikes != 0 {
			t.Fatalf("seed item must start with zero counts: %+v", item)
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Movies) == 0 || len(c.Series) == 0 {
		t.Fatalf("expected default catalog, got %+v", c)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
movies:
  - id: 1
    title: "Arrival"
    description: "A linguist decodes an alien language."
    rating: 7.9
    year: 2016
    genre: ["Drama", "Sci-Fi"]
series:
  - id: 1
    title: "The Wire"
    year: 2002
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Movies) != 1 || c.Movies[0].Title != "Arrival" {
		t.Fatalf("unexpected movies: %+v", c.Movies)
	}
	if c.Movies[0].Genres[1] != "Sci-Fi" {
		t.Fatalf("genres lost: %+v", c.Movies[0])
	}
	if len(c.Series) != 1 || c.Series[0].Year != 2002 {
		t.Fatalf("unexpected series: %+v", c.Series)
	}
}

func TestLoadRejectsBadSeeds(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"duplicate_id", "movies:\n  - id: 1\n    title: A\n  - id: 1\n    title: B\n"},
		{"zero_id", "movies:\n  - id: 0\n    title: A\n"},
		{"missing_title", "series:\n  - id: 3\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write catalog: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
