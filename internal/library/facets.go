package library

import (
	"sort"

	"fonograf/pkg/models"
)

// facetKey is the comparable dedup key for a facet. Nullness is tracked
// separately so the empty string and NULL stay distinct values.
type facetKey struct {
	artist     string
	artistNull bool
	album      string
	albumNull  bool
}

// BuildFacets derives the deduplicated grouping view over a track catalog
// snapshot: one facet per distinct (album-artist-or-artist, album) pair,
// where album-artist-or-artist is the album artist when present and the
// artist otherwise. The result is sorted by that pair, NULL before any
// value, with the single "all" sentinel facet prepended. The function is
// pure and holds no incremental state; callers rebuild it whenever the
// catalog changes.
func BuildFacets(tracks []models.Track) []models.Facet {
	seen := make(map[facetKey]models.Facet)
	for _, t := range tracks {
		artist := t.AlbumArtist
		if artist == nil {
			artist = t.Artist
		}

		key := facetKey{artistNull: artist == nil, albumNull: t.Album == nil}
		if artist != nil {
			key.artist = *artist
		}
		if t.Album != nil {
			key.album = *t.Album
		}

		if _, ok := seen[key]; !ok {
			seen[key] = models.Facet{AlbumArtistOrArtist: artist, Album: t.Album}
		}
	}

	sorted := make([]models.Facet, 0, len(seen))
	for _, f := range seen {
		sorted = append(sorted, f)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if c := compareOptional(sorted[i].AlbumArtistOrArtist, sorted[j].AlbumArtistOrArtist); c != 0 {
			return c < 0
		}
		return compareOptional(sorted[i].Album, sorted[j].Album) < 0
	})

	facets := make([]models.Facet, 0, len(sorted)+1)
	facets = append(facets, models.Facet{All: true})
	facets = append(facets, sorted...)
	return facets
}

// compareOptional orders nil before any value, then case-sensitively.
// Case-folding, if wanted, is a presentation concern.
func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
