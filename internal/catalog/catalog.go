// Package catalog holds the fixed set of rateable titles. Items are seeded
// once at startup and never created or destroyed afterwards.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reelrate/pkg/domain"
)

// Catalog is the seeded item set per category.
type Catalog struct {
	Movies []domain.ContentItem
	Series []domain.ContentItem
}

type seedFile struct {
	Movies []seedItem `yaml:"movies"`
	Series []seedItem `yaml:"series"`
}

type seedItem struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"imageUrl"`
	Rating      float64  `yaml:"rating"`
	Year        int      `yaml:"year"`
	Genres      []string `yaml:"genre"`
}

// Load returns the catalog from a YAML seed file, or the built-in default
// when path is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	movies, err := toItems("movies", file.Movies)
	if err != nil {
		return Catalog{}, err
	}
	series, err := toItems("series", file.Series)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Movies: movies, Series: series}, nil
}

func toItems(section string, seeds []seedItem) ([]domain.ContentItem, error) {
	seen := make(map[int]struct{}, len(seeds))
	items := make([]domain.ContentItem, 0, len(seeds))
	for _, s := range seeds {
		if s.ID <= 0 {
			return nil, fmt.Errorf("catalog: %s item %q: id must be positive", section, s.Title)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("catalog: %s: duplicate item id %d", section, s.ID)
		}
		if s.Title == "" {
			return nil, fmt.Errorf("catalog: %s item %d: title required", section, s.ID)
		}
		seen[s.ID] = struct{}{}
		items = append(items, domain.ContentItem{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			ImageURL:    s.ImageURL,
			Rating:      s.Rating,
			Year:        s.Year,
			Genres:      s.Genres,
		})
	}
	return items, nil
}

// Default is the built-in catalog used when no seed file is configured.
func Default() Catalog {
	return Catalog{
		Movies: []domain.ContentItem{
			{
				ID:          1,
				Title:       "The Dark Knight",
				Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
				ImageURL:    "/images/dark-knight.jpg",
				Rating:      9.0,
				Year:        2008,
				Genres:      []string{"Action", "Crime", "Drama"},
			},
			{
				ID:          2,
				Title:       "Inception",
				Description: "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
				ImageURL:    "/images/inception.jpg",
				Rating:      8.8,
				Year:        2010,
				Genres:      []string{"Action", "Adventure", "Sci-Fi"},
			},
			{
				ID:          3,
				Title:       "Interstellar",
				Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
				ImageURL:    "/images/interstellar.jpg",
				Rating:      8.6,
				Year:        2014,
				Genres:      []string{"Adventure", "Drama", "Sci-Fi"},
			},
			{
				ID:          4,
				Title:       "The Matrix",
				Description: "A computer programmer discovers that reality as he knows it is a simulation created by machines, and joins a rebellion to break free.",
				ImageURL:    "/images/matrix.jpg",
				Rating:      8.7,
				Year:        1999,
				Genres:      []string{"Action", "Sci-Fi"},
			},
		},
		Series: []domain.ContentItem{
			{
				ID:          1,
				Title:       "Breaking Bad",
				Description: "A high school chemistry teacher turned methamphetamine manufacturer partners with a former student to secure his family's financial future as he battles terminal lung cancer.",
				ImageURL:    "/images/breaking-bad.jpg",
				Rating:      9.5,
				Year:        2008,
				Genres:      []string{"Crime", "Drama", "Thriller"},
			},
			{
				ID:          2,
				Title:       "Game of Thrones",
				Description: "Nine noble families fight for control over the lands of Westeros, while an ancient enemy returns after being dormant for millennia.",
				ImageURL:    "/images/got.jpg",
				Rating:      9.3,
				Year:        2011,
				Genres:      []string{"Action", "Adventure", "Drama"},
			},
			{
				ID:          3,
				Title:       "Stranger Things",
				Description: "When a young boy disappears, his mother, a police chief, and his friends must confront terrifying supernatural forces in order to get him back.",
				ImageURL:    "/images/stranger-things.jpg",
				Rating:      8.7,
				Year:        2016,
				Genres:      []string{"Drama", "Fantasy", "Horror"},
			},
		},
	}
}
