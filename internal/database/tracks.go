package database

import (
	"database/sql"
	"fmt"
	"time"

	"fonograf/pkg/models"
)

// InsertTrack inserts a new catalog row. The filename is the primary key, so
// inserting an already-cataloged file is an error; the scanner only calls
// this for files it classified as unseen.
func (db *Database) InsertTrack(track models.Track) error {
	added := track.Added
	if added.IsZero() {
		added = time.Now()
	}

	_, err := db.insertTrackStmt.Exec(
		track.Filename, track.Title, track.Artist, track.Album,
		track.AlbumArtist, track.Genre, track.TrackNumber,
		track.DurationSeconds, added)
	if err != nil {
		db.logger.WithError(err).WithField("filename", track.Filename).Error("Failed to insert track")
		return fmt.Errorf("failed to insert track %s: %w", track.Filename, err)
	}
	return nil
}

// UpdateTrackDuration back-fills the duration of an existing catalog row.
func (db *Database) UpdateTrackDuration(filename string, durationSeconds int) error {
	result, err := db.updateDurationStmt.Exec(durationSeconds, filename)
	if err != nil {
		db.logger.WithError(err).WithField("filename", filename).Error("Failed to update track duration")
		return fmt.Errorf("failed to update duration for %s: %w", filename, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no track with filename %s", filename)
	}
	return nil
}

// GetTrackByFilename returns the track with the given filename, or nil when
// no such row exists (absence is a value here, not an error).
func (db *Database) GetTrackByFilename(filename string) (*models.Track, error) {
	track, err := scanTrack(db.trackByFilenameStmt.QueryRow(filename))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		db.logger.WithError(err).WithField("filename", filename).Error("Failed to get track")
		return nil, err
	}
	return track, nil
}

// GetAllTracks returns every cataloged track ordered by artist/album/track.
func (db *Database) GetAllTracks() ([]models.Track, error) {
	rows, err := db.conn.Query(`
		SELECT filename, title, artist, album, album_artist, genre, track, duration_seconds, play_count, last_played, added
		FROM tracks
		ORDER BY artist, album, track, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackRows(rows)
}

// ListAllFilenames returns the filenames of every cataloged track.
func (db *Database) ListAllFilenames() ([]string, error) {
	rows, err := db.conn.Query("SELECT filename FROM tracks")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		filenames = append(filenames, f)
	}
	return filenames, rows.Err()
}

// DeleteTracksByFilename removes the given catalog rows along with any queue
// or playlist entries that reference them, all in one transaction. Returns
// the number of tracks removed.
func (db *Database) DeleteTracksByFilename(filenames []string) (int64, error) {
	if len(filenames) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	delTrack, err := tx.Prepare("DELETE FROM tracks WHERE filename = ?")
	if err != nil {
		return 0, err
	}
	defer delTrack.Close()

	var deleted int64
	for _, f := range filenames {
		result, err := delTrack.Exec(f)
		if err != nil {
			return 0, fmt.Errorf("failed to delete track %s: %w", f, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			deleted += n
		}
		if _, err := tx.Exec("DELETE FROM queue_entries WHERE track_filename = ?", f); err != nil {
			return 0, err
		}
		if _, err := tx.Exec("DELETE FROM playlist_entries WHERE track_filename = ?", f); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	db.logger.WithField("tracks_deleted", deleted).Info("Removed stale tracks from catalog")
	return deleted, nil
}

// MarkPlayed increments the play count and stamps last_played on the track
// or video a reference points at.
func (db *Database) MarkPlayed(ref models.ItemRef) error {
	now := time.Now()

	if filename, ok := ref.TrackFilename(); ok {
		_, err := db.conn.Exec(`
			UPDATE tracks SET play_count = play_count + 1, last_played = ?
			WHERE filename = ?`, now, filename)
		return err
	}

	if id, ok := ref.VideoID(); ok {
		_, err := db.conn.Exec(`
			UPDATE youtube_videos SET play_count = play_count + 1, last_played = ?
			WHERE id = ?`, now, id)
		return err
	}

	return fmt.Errorf("cannot mark zero reference as played")
}

// scanTrack scans a single track row.
func scanTrack(row *sql.Row) (*models.Track, error) {
	var track models.Track
	var duration sql.NullInt64
	var lastPlayed sql.NullTime

	err := row.Scan(&track.Filename, &track.Title, &track.Artist, &track.Album,
		&track.AlbumArtist, &track.Genre, &track.TrackNumber,
		&duration, &track.PlayCount, &lastPlayed, &track.Added)
	if err != nil {
		return nil, err
	}

	if duration.Valid {
		d := int(duration.Int64)
		track.DurationSeconds = &d
	}
	if lastPlayed.Valid {
		track.LastPlayed = &lastPlayed.Time
	}
	return &track, nil
}

// scanTrackRows scans standard track result sets into a slice of
// models.Track. Callers must have already deferred rows.Close().
func scanTrackRows(rows *sql.Rows) ([]models.Track, error) {
	var tracks []models.Track
	for rows.Next() {
		var track models.Track
		var duration sql.NullInt64
		var lastPlayed sql.NullTime

		if err := rows.Scan(&track.Filename, &track.Title, &track.Artist, &track.Album,
			&track.AlbumArtist, &track.Genre, &track.TrackNumber,
			&duration, &track.PlayCount, &lastPlayed, &track.Added); err != nil {
			return nil, err
		}

		if duration.Valid {
			d := int(duration.Int64)
			track.DurationSeconds = &d
		}
		if lastPlayed.Valid {
			track.LastPlayed = &lastPlayed.Time
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}
