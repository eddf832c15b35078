package models

import (
	"fmt"
	"time"
)

// RefKind discriminates the two variants of ItemRef.
type RefKind int

const (
	RefTrack RefKind = iota + 1
	RefVideo
)

// ItemRef identifies a media item without carrying its row: a track by
// filename or a video by surrogate id. The zero value is invalid; refs are
// built only through TrackRef and VideoRef so the "both set" and "neither
// set" states the storage encoding could express are unrepresentable here.
type ItemRef struct {
	kind     RefKind
	filename string
	videoID  int64
}

// TrackRef returns a reference to the track with the given filename.
func TrackRef(filename string) ItemRef {
	return ItemRef{kind: RefTrack, filename: filename}
}

// VideoRef returns a reference to the video with the given surrogate id.
func VideoRef(id int64) ItemRef {
	return ItemRef{kind: RefVideo, videoID: id}
}

// Kind reports which variant this reference holds.
func (r ItemRef) Kind() RefKind { return r.kind }

// TrackFilename returns the referenced filename when this is a track ref.
func (r ItemRef) TrackFilename() (string, bool) {
	return r.filename, r.kind == RefTrack
}

// VideoID returns the referenced surrogate id when this is a video ref.
func (r ItemRef) VideoID() (int64, bool) {
	return r.videoID, r.kind == RefVideo
}

// IsZero reports whether the reference was never initialized.
func (r ItemRef) IsZero() bool { return r.kind == 0 }

func (r ItemRef) String() string {
	switch r.kind {
	case RefTrack:
		return "track:" + r.filename
	case RefVideo:
		return fmt.Sprintf("video:%d", r.videoID)
	default:
		return "ref:<zero>"
	}
}

// MediaItem is the tagged union of Track and Video. Ordering and playback
// APIs operate on this union, never on the concrete types.
type MediaItem struct {
	track *Track
	video *Video
}

// TrackItem wraps a track as a MediaItem.
func TrackItem(t *Track) MediaItem { return MediaItem{track: t} }

// VideoItem wraps a video as a MediaItem.
func VideoItem(v *Video) MediaItem { return MediaItem{video: v} }

// Track returns the underlying track, if this item is one.
func (m MediaItem) Track() (*Track, bool) { return m.track, m.track != nil }

// Video returns the underlying video, if this item is one.
func (m MediaItem) Video() (*Video, bool) { return m.video, m.video != nil }

// IsZero reports whether the item holds neither variant.
func (m MediaItem) IsZero() bool { return m.track == nil && m.video == nil }

// Ref returns the reference identifying this item.
func (m MediaItem) Ref() ItemRef {
	if m.track != nil {
		return TrackRef(m.track.Filename)
	}
	if m.video != nil {
		return VideoRef(m.video.ID)
	}
	return ItemRef{}
}

func (m MediaItem) Title() string {
	switch {
	case m.track != nil:
		if m.track.Title != nil {
			return *m.track.Title
		}
		return "Unknown"
	case m.video != nil:
		return m.video.Title
	}
	return ""
}

// Artist returns the track artist, or the "YouTube" placeholder for videos.
func (m MediaItem) Artist() string {
	switch {
	case m.track != nil:
		if m.track.Artist != nil {
			return *m.track.Artist
		}
		return "Unknown"
	case m.video != nil:
		return "YouTube"
	}
	return ""
}

func (m MediaItem) Album() string {
	if m.track != nil {
		if m.track.Album != nil {
			return *m.track.Album
		}
		return "Unknown"
	}
	return ""
}

func (m MediaItem) DurationSeconds() *int {
	switch {
	case m.track != nil:
		return m.track.DurationSeconds
	case m.video != nil:
		return m.video.DurationSeconds
	}
	return nil
}

// DurationString formats the duration as m:ss, or "?:??" when unknown.
func (m MediaItem) DurationString() string {
	d := m.DurationSeconds()
	if d == nil {
		return "?:??"
	}
	return fmt.Sprintf("%d:%02d", *d/60, *d%60)
}

func (m MediaItem) PlayCount() int {
	switch {
	case m.track != nil:
		return m.track.PlayCount
	case m.video != nil:
		return m.video.PlayCount
	}
	return 0
}

func (m MediaItem) LastPlayed() *time.Time {
	switch {
	case m.track != nil:
		return m.track.LastPlayed
	case m.video != nil:
		return m.video.LastPlayed
	}
	return nil
}

// Added returns when the item entered the catalog. For videos this falls
// back to the fetch time when no added timestamp was recorded.
func (m MediaItem) Added() time.Time {
	switch {
	case m.track != nil:
		return m.track.Added
	case m.video != nil:
		if m.video.Added.IsZero() {
			return m.video.FetchedAt
		}
		return m.video.Added
	}
	return time.Time{}
}
