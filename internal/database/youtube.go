package database

import (
	"database/sql"
	"fmt"
	"time"

	"fonograf/pkg/models"
)

// AddChannel inserts a subscribed channel and returns its surrogate id.
func (db *Database) AddChannel(channel models.Channel) (int64, error) {
	result, err := db.conn.Exec(`
		INSERT INTO youtube_channels (channel_id, name, handle, url, thumbnail_url)
		VALUES (?, ?, ?, ?, ?)`,
		channel.ChannelID, channel.Name, channel.Handle, channel.URL, channel.ThumbnailURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert channel %s: %w", channel.ChannelID, err)
	}
	return result.LastInsertId()
}

// GetChannels returns all subscribed channels.
func (db *Database) GetChannels() ([]models.Channel, error) {
	rows, err := db.conn.Query(`
		SELECT id, channel_id, name, handle, url, thumbnail_url, last_fetched, created_at
		FROM youtube_channels
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		var lastFetched sql.NullTime
		if err := rows.Scan(&c.ID, &c.ChannelID, &c.Name, &c.Handle, &c.URL,
			&c.ThumbnailURL, &lastFetched, &c.CreatedAt); err != nil {
			return nil, err
		}
		if lastFetched.Valid {
			c.LastFetched = &lastFetched.Time
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

// DeleteChannel removes a channel; its videos cascade away with it.
func (db *Database) DeleteChannel(id int64) error {
	_, err := db.conn.Exec("DELETE FROM youtube_channels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete channel %d: %w", id, err)
	}
	return nil
}

// AddVideos inserts fetched videos for a channel. Already-known video ids
// are ignored, so refresh runs can pass overlapping batches safely.
func (db *Database) AddVideos(channelDBID int64, videos []models.Video) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO youtube_videos
			(video_id, channel_id, title, duration_seconds, thumbnail_url, published_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range videos {
		if _, err := stmt.Exec(v.VideoID, channelDBID, v.Title,
			v.DurationSeconds, v.ThumbnailURL, v.PublishedAt); err != nil {
			return fmt.Errorf("failed to insert video %s: %w", v.VideoID, err)
		}
	}

	return tx.Commit()
}

// GetVideoByID returns the video with the given surrogate id, or nil when no
// such row exists.
func (db *Database) GetVideoByID(id int64) (*models.Video, error) {
	row := db.conn.QueryRow(`
		SELECT id, video_id, channel_id, title, duration_seconds, thumbnail_url,
		       published_at, fetched_at, play_count, last_played, added
		FROM youtube_videos WHERE id = ?`, id)

	video, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

// VideosForChannel returns a channel's videos, newest first.
func (db *Database) VideosForChannel(channelDBID int64) ([]models.Video, error) {
	rows, err := db.conn.Query(`
		SELECT id, video_id, channel_id, title, duration_seconds, thumbnail_url,
		       published_at, fetched_at, play_count, last_played, added
		FROM youtube_videos
		WHERE channel_id = ?
		ORDER BY published_at DESC`, channelDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideoRows(rows)
}

// VideoIDsForChannel returns the set of provider video ids already stored
// for a channel. The refresh fetch stops at the first id in this set.
func (db *Database) VideoIDsForChannel(channelDBID int64) (map[string]struct{}, error) {
	rows, err := db.conn.Query(`
		SELECT video_id FROM youtube_videos WHERE channel_id = ?`, channelDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// VideoCountForChannel returns how many videos are stored for a channel.
func (db *Database) VideoCountForChannel(channelDBID int64) (int, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM youtube_videos WHERE channel_id = ?`, channelDBID).Scan(&count)
	return count, err
}

// UpdateChannelLastFetched stamps the channel's last successful fetch time.
func (db *Database) UpdateChannelLastFetched(id int64) error {
	_, err := db.conn.Exec(`
		UPDATE youtube_channels SET last_fetched = ? WHERE id = ?`, time.Now(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*models.Video, error) {
	var v models.Video
	var duration sql.NullInt64
	var publishedAt, lastPlayed sql.NullTime

	err := row.Scan(&v.ID, &v.VideoID, &v.ChannelID, &v.Title, &duration,
		&v.ThumbnailURL, &publishedAt, &v.FetchedAt, &v.PlayCount, &lastPlayed, &v.Added)
	if err != nil {
		return nil, err
	}

	if duration.Valid {
		d := int(duration.Int64)
		v.DurationSeconds = &d
	}
	if publishedAt.Valid {
		v.PublishedAt = &publishedAt.Time
	}
	if lastPlayed.Valid {
		v.LastPlayed = &lastPlayed.Time
	}
	return &v, nil
}

func scanVideoRows(rows *sql.Rows) ([]models.Video, error) {
	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *video)
	}
	return videos, rows.Err()
}
