package models

// Facet is a deduplicated grouping key over the track catalog, used for
// filtering. AlbumArtistOrArtist is the track's album artist when present,
// otherwise its artist. Exactly one facet in a built list has All set; it is
// the "show everything" sentinel at index 0.
type Facet struct {
	AlbumArtistOrArtist *string
	Album               *string
	All                 bool
}
