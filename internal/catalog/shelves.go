package catalog

import (
	"github.com/nbamra/folio-bff/internal/view"
	"github.com/nbamra/folio-bff/model"
)

// movieShelf is the film review shelf. Genre is the only filter; views
// sort by release year or personal rating.
func movieShelf() Shelf {
	return Shelf{
		Descriptor: view.Descriptor{
			ShelfID:     "movies",
			Filterable:  []string{"genre"},
			Sortable:    []string{"year", "rating"},
			DefaultSort: view.SortDirective{Key: "rating", Direction: view.Descending},
		},
		Snapshot: model.Snapshot{
			{
				ID:         "inception",
				Attributes: map[string][]string{"genre": {"Sci-Fi", "Thriller"}},
				Ordinals:   map[string]float64{"year": 2010, "rating": 9.0},
				Payload: map[string]any{
					"title":    "Inception",
					"director": "Christopher Nolan",
					"review":   "A heist film that folds in on itself. The ending still sparks arguments.",
				},
			},
			{
				ID:         "parasite",
				Attributes: map[string][]string{"genre": {"Drama", "Thriller"}},
				Ordinals:   map[string]float64{"year": 2019, "rating": 9.4},
				Payload: map[string]any{
					"title":    "Parasite",
					"director": "Bong Joon-ho",
					"review":   "Shifts tone scene to scene without ever losing its grip.",
				},
			},
			{
				ID:         "spirited-away",
				Attributes: map[string][]string{"genre": {"Animation", "Fantasy"}},
				Ordinals:   map[string]float64{"year": 2001, "rating": 9.3},
				Payload: map[string]any{
					"title":    "Spirited Away",
					"director": "Hayao Miyazaki",
					"review":   "Every frame earns its place. The bathhouse is a world of its own.",
				},
			},
			{
				ID:         "blade-runner-2049",
				Attributes: map[string][]string{"genre": {"Sci-Fi"}},
				Ordinals:   map[string]float64{"year": 2017, "rating": 8.8},
				Payload: map[string]any{
					"title":    "Blade Runner 2049",
					"director": "Denis Villeneuve",
					"review":   "Slow on purpose, and better for it.",
				},
			},
			{
				ID:         "whiplash",
				Attributes: map[string][]string{"genre": {"Drama"}},
				Ordinals:   map[string]float64{"year": 2014, "rating": 8.9},
				Payload: map[string]any{
					"title":    "Whiplash",
					"director": "Damien Chazelle",
					"review":   "Not quite my tempo. Watched it three times anyway.",
				},
			},
		},
	}
}

// bookShelf filters on genre and reading status.
func bookShelf() Shelf {
	return Shelf{
		Descriptor: view.Descriptor{
			ShelfID:     "books",
			Filterable:  []string{"genre", "status"},
			Sortable:    []string{"year", "rating"},
			DefaultSort: view.SortDirective{Key: "year", Direction: view.Descending},
		},
		Snapshot: model.Snapshot{
			{
				ID:         "the-pragmatic-programmer",
				Attributes: map[string][]string{"genre": {"Technical"}, "status": {"read"}},
				Ordinals:   map[string]float64{"year": 2019, "rating": 9.0},
				Payload: map[string]any{
					"title":  "The Pragmatic Programmer",
					"author": "David Thomas, Andrew Hunt",
				},
			},
			{
				ID:         "dune",
				Attributes: map[string][]string{"genre": {"Sci-Fi"}, "status": {"read"}},
				Ordinals:   map[string]float64{"year": 1965, "rating": 9.2},
				Payload: map[string]any{
					"title":  "Dune",
					"author": "Frank Herbert",
				},
			},
			{
				ID:         "piranesi",
				Attributes: map[string][]string{"genre": {"Fantasy"}, "status": {"reading"}},
				Ordinals:   map[string]float64{"year": 2020, "rating": 8.6},
				Payload: map[string]any{
					"title":  "Piranesi",
					"author": "Susanna Clarke",
				},
			},
			{
				ID:         "designing-data-intensive-applications",
				Attributes: map[string][]string{"genre": {"Technical"}, "status": {"reading"}},
				Ordinals:   map[string]float64{"year": 2017, "rating": 9.5},
				Payload: map[string]any{
					"title":  "Designing Data-Intensive Applications",
					"author": "Martin Kleppmann",
				},
			},
			{
				ID:         "the-left-hand-of-darkness",
				Attributes: map[string][]string{"genre": {"Sci-Fi"}, "status": {"to-read"}},
				Ordinals:   map[string]float64{"year": 1969, "rating": 8.9},
				Payload: map[string]any{
					"title":  "The Left Hand of Darkness",
					"author": "Ursula K. Le Guin",
				},
			},
		},
	}
}

// albumShelf is the music review shelf.
func albumShelf() Shelf {
	return Shelf{
		Descriptor: view.Descriptor{
			ShelfID:     "albums",
			Filterable:  []string{"genre"},
			Sortable:    []string{"year", "rating"},
			DefaultSort: view.SortDirective{Key: "year", Direction: view.Descending},
		},
		Snapshot: model.Snapshot{
			{
				ID:         "in-rainbows",
				Attributes: map[string][]string{"genre": {"Alternative"}},
				Ordinals:   map[string]float64{"year": 2007, "rating": 9.1},
				Payload: map[string]any{
					"title":  "In Rainbows",
					"artist": "Radiohead",
				},
			},
			{
				ID:         "to-pimp-a-butterfly",
				Attributes: map[string][]string{"genre": {"Hip-Hop"}},
				Ordinals:   map[string]float64{"year": 2015, "rating": 9.4},
				Payload: map[string]any{
					"title":  "To Pimp a Butterfly",
					"artist": "Kendrick Lamar",
				},
			},
			{
				ID:         "kind-of-blue",
				Attributes: map[string][]string{"genre": {"Jazz"}},
				Ordinals:   map[string]float64{"year": 1959, "rating": 9.6},
				Payload: map[string]any{
					"title":  "Kind of Blue",
					"artist": "Miles Davis",
				},
			},
			{
				ID:         "random-access-memories",
				Attributes: map[string][]string{"genre": {"Electronic"}},
				Ordinals:   map[string]float64{"year": 2013, "rating": 8.7},
				Payload: map[string]any{
					"title":  "Random Access Memories",
					"artist": "Daft Punk",
				},
			},
		},
	}
}
