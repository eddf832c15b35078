package database

import (
	"sort"
	"time"

	"fonograf/pkg/models"
)

// RecentlyPlayed returns tracks and videos with a last_played stamp, merged
// and sorted newest first. limit <= 0 means no limit.
func (db *Database) RecentlyPlayed(limit int) ([]models.MediaItem, error) {
	tracks, err := db.GetAllTracks()
	if err != nil {
		return nil, err
	}

	videos, err := db.allVideos()
	if err != nil {
		return nil, err
	}

	type dated struct {
		item models.MediaItem
		when time.Time
	}
	var items []dated

	for i := range tracks {
		if tracks[i].LastPlayed != nil {
			items = append(items, dated{models.TrackItem(&tracks[i]), *tracks[i].LastPlayed})
		}
	}
	for i := range videos {
		if videos[i].LastPlayed != nil {
			items = append(items, dated{models.VideoItem(&videos[i]), *videos[i].LastPlayed})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].when.After(items[j].when)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	result := make([]models.MediaItem, len(items))
	for i, d := range items {
		result[i] = d.item
	}
	return result, nil
}

// RecentlyAdded returns tracks and videos merged and sorted by when they
// entered the catalog, newest first. Videos fall back to their fetch time
// when no added stamp was recorded. limit <= 0 means no limit.
func (db *Database) RecentlyAdded(limit int) ([]models.MediaItem, error) {
	tracks, err := db.GetAllTracks()
	if err != nil {
		return nil, err
	}

	videos, err := db.allVideos()
	if err != nil {
		return nil, err
	}

	items := make([]models.MediaItem, 0, len(tracks)+len(videos))
	for i := range tracks {
		items = append(items, models.TrackItem(&tracks[i]))
	}
	for i := range videos {
		items = append(items, models.VideoItem(&videos[i]))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Added().After(items[j].Added())
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (db *Database) allVideos() ([]models.Video, error) {
	rows, err := db.conn.Query(`
		SELECT id, video_id, channel_id, title, duration_seconds, thumbnail_url,
		       published_at, fetched_at, play_count, last_played, added
		FROM youtube_videos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideoRows(rows)
}
