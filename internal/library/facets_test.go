package library

import (
	"testing"

	"fonograf/pkg/models"
)

func strPtr(s string) *string { return &s }

func track(artist, albumArtist, album *string) models.Track {
	return models.Track{Artist: artist, AlbumArtist: albumArtist, Album: album}
}

func TestBuildFacetsDeduplicates(t *testing.T) {
	tracks := []models.Track{
		track(strPtr("Artist A"), nil, strPtr("Album 1")),
		track(strPtr("Artist A"), nil, strPtr("Album 1")),
		track(strPtr("Artist A"), nil, strPtr("Album 1")),
		track(strPtr("Artist B"), nil, strPtr("Album 2")),
	}

	facets := BuildFacets(tracks)
	// sentinel + two distinct (artist, album) pairs
	if len(facets) != 3 {
		t.Fatalf("expected 3 facets, got %d: %+v", len(facets), facets)
	}
}

func TestBuildFacetsSentinelFirst(t *testing.T) {
	facets := BuildFacets([]models.Track{track(strPtr("X"), nil, strPtr("Y"))})

	if !facets[0].All {
		t.Error("first facet must be the all sentinel")
	}
	count := 0
	for _, f := range facets {
		if f.All {
			count++
		}
	}
	if count != 1 {
		t.Errorf("exactly one facet may have All set, got %d", count)
	}
}

func TestBuildFacetsAlbumArtistFallback(t *testing.T) {
	tracks := []models.Track{
		// album artist present: grouped under it
		track(strPtr("Feature Guest"), strPtr("Band"), strPtr("Album")),
		// no album artist: falls back to artist
		track(strPtr("Solo"), nil, strPtr("Other")),
	}

	facets := BuildFacets(tracks)
	if len(facets) != 3 {
		t.Fatalf("expected 3 facets, got %d", len(facets))
	}
	// sorted: Band < Solo
	if *facets[1].AlbumArtistOrArtist != "Band" {
		t.Errorf("expected Band, got %q", *facets[1].AlbumArtistOrArtist)
	}
	if *facets[2].AlbumArtistOrArtist != "Solo" {
		t.Errorf("expected Solo fallback to artist, got %q", *facets[2].AlbumArtistOrArtist)
	}
}

func TestBuildFacetsSortsNullFirst(t *testing.T) {
	tracks := []models.Track{
		track(strPtr("Zed"), nil, strPtr("A")),
		track(nil, nil, nil),
		track(strPtr("Abc"), nil, strPtr("B")),
	}

	facets := BuildFacets(tracks)
	if len(facets) != 4 {
		t.Fatalf("expected 4 facets, got %d", len(facets))
	}
	if facets[1].AlbumArtistOrArtist != nil {
		t.Errorf("nil artist should sort before values, got %v", facets[1].AlbumArtistOrArtist)
	}
	if *facets[2].AlbumArtistOrArtist != "Abc" || *facets[3].AlbumArtistOrArtist != "Zed" {
		t.Error("facets not sorted by artist")
	}
}

func TestBuildFacetsCaseSensitive(t *testing.T) {
	tracks := []models.Track{
		track(strPtr("artist"), nil, strPtr("Album")),
		track(strPtr("Artist"), nil, strPtr("Album")),
	}

	facets := BuildFacets(tracks)
	// distinct at the data-model level; case-folding is presentation
	if len(facets) != 3 {
		t.Fatalf("expected case-distinct facets to survive, got %d", len(facets))
	}
}

func TestBuildFacetsEmptyCatalog(t *testing.T) {
	facets := BuildFacets(nil)
	if len(facets) != 1 || !facets[0].All {
		t.Errorf("empty catalog should yield only the sentinel, got %+v", facets)
	}
}
