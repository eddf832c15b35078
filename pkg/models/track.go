package models

import "time"

// Track is a local audio file in the catalog. The absolute filename is the
// primary key: renaming a file on disk makes it a new Track. Metadata fields
// are pointers because tags are frequently absent; a nil DurationSeconds
// marks the row as needing a duration refresh on the next scan.
type Track struct {
	Filename        string
	Title           *string
	Artist          *string
	Album           *string
	AlbumArtist     *string
	Genre           *string
	TrackNumber     *string // tag values like "3/12" are kept verbatim
	DurationSeconds *int
	PlayCount       int
	LastPlayed      *time.Time
	Added           time.Time
}

// Video is a remote YouTube video fetched from a subscribed channel. ID is
// the internal surrogate key; VideoID is the provider identifier.
type Video struct {
	ID              int64
	VideoID         string
	ChannelID       int64
	Title           string
	DurationSeconds *int
	ThumbnailURL    *string
	PublishedAt     *time.Time
	FetchedAt       time.Time
	PlayCount       int
	LastPlayed      *time.Time
	Added           time.Time
}

// Channel is a subscribed YouTube channel.
type Channel struct {
	ID           int64
	ChannelID    string
	Name         string
	Handle       *string
	URL          string
	ThumbnailURL *string
	LastFetched  *time.Time
	CreatedAt    time.Time
}

// Playlist is a named, user-ordered collection of media items.
type Playlist struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
