package database

import (
	"database/sql"
	"fmt"
	"time"

	"fonograf/pkg/models"

	"github.com/google/uuid"
)

// CreatePlaylist inserts a new empty playlist and returns it.
func (db *Database) CreatePlaylist(name string) (models.Playlist, error) {
	playlist := models.Playlist{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	_, err := db.conn.Exec(`
		INSERT INTO playlists (id, name, created_at)
		VALUES (?, ?, ?)`, playlist.ID, playlist.Name, playlist.CreatedAt)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}
	return playlist, nil
}

// GetPlaylists returns all playlists ordered by name.
func (db *Database) GetPlaylists() ([]models.Playlist, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, created_at FROM playlists ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// GetPlaylistByName returns the playlist with the given name, or nil when no
// such playlist exists.
func (db *Database) GetPlaylistByName(name string) (*models.Playlist, error) {
	var p models.Playlist
	err := db.conn.QueryRow(`
		SELECT id, name, created_at FROM playlists WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RenamePlaylist updates a playlist's name.
func (db *Database) RenamePlaylist(playlistID, newName string) error {
	result, err := db.conn.Exec("UPDATE playlists SET name = ? WHERE id = ?", newName, playlistID)
	if err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no playlist with id %s", playlistID)
	}
	return nil
}

// DeletePlaylist removes the playlist; its entries cascade away with it.
func (db *Database) DeletePlaylist(playlistID string) error {
	_, err := db.conn.Exec("DELETE FROM playlists WHERE id = ?", playlistID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// AddToPlaylist appends an item to the end of a playlist. Same position
// discipline as the queue: max(existing, -1)+1 under the playlist mutex.
func (db *Database) AddToPlaylist(playlistID string, ref models.ItemRef) error {
	db.playlistMu.Lock()
	defer db.playlistMu.Unlock()

	var maxPosition sql.NullInt64
	err := db.conn.QueryRow(`
		SELECT MAX(position) FROM playlist_entries WHERE playlist_id = ?`,
		playlistID).Scan(&maxPosition)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	position := int64(0)
	if maxPosition.Valid {
		position = maxPosition.Int64 + 1
	}

	trackFilename, videoID := refColumns(ref)
	_, err = db.conn.Exec(`
		INSERT INTO playlist_entries (playlist_id, position, track_filename, youtube_video_id)
		VALUES (?, ?, ?, ?)`, playlistID, position, trackFilename, videoID)
	if err != nil {
		db.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to add item to playlist")
		return fmt.Errorf("failed to add %s to playlist: %w", ref, err)
	}
	return nil
}

// RemoveFromPlaylist deletes every entry in the playlist referencing the
// given item. Surviving positions are untouched.
func (db *Database) RemoveFromPlaylist(playlistID string, ref models.ItemRef) error {
	db.playlistMu.Lock()
	defer db.playlistMu.Unlock()

	if filename, ok := ref.TrackFilename(); ok {
		_, err := db.conn.Exec(`
			DELETE FROM playlist_entries
			WHERE playlist_id = ? AND track_filename = ?`, playlistID, filename)
		return err
	}
	if id, ok := ref.VideoID(); ok {
		_, err := db.conn.Exec(`
			DELETE FROM playlist_entries
			WHERE playlist_id = ? AND youtube_video_id = ?`, playlistID, id)
		return err
	}
	return fmt.Errorf("cannot remove zero reference from playlist")
}

// PlaylistItems returns the playlist in ascending position order, each entry
// resolved to its media item. Dangling references are silently dropped.
func (db *Database) PlaylistItems(playlistID string) ([]models.MediaItem, error) {
	rows, err := db.conn.Query(`
		SELECT track_filename, youtube_video_id
		FROM playlist_entries
		WHERE playlist_id = ?
		ORDER BY position ASC`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs, err := scanRefRows(rows)
	if err != nil {
		return nil, err
	}
	return db.resolveRefs(refs)
}

// ReorderPlaylist renumbers every entry in the playlist to its index in the
// supplied list, making positions a dense 0..n-1 sequence in list order. The
// caller supplies the complete membership of the playlist, reconstructed
// from the currently-displayed order; the list is not validated against the
// stored entries.
func (db *Database) ReorderPlaylist(playlistID string, refs []models.ItemRef) error {
	db.playlistMu.Lock()
	defer db.playlistMu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for position, ref := range refs {
		if filename, ok := ref.TrackFilename(); ok {
			_, err = tx.Exec(`
				UPDATE playlist_entries SET position = ?
				WHERE playlist_id = ? AND track_filename = ?`,
				position, playlistID, filename)
		} else if id, ok := ref.VideoID(); ok {
			_, err = tx.Exec(`
				UPDATE playlist_entries SET position = ?
				WHERE playlist_id = ? AND youtube_video_id = ?`,
				position, playlistID, id)
		}
		if err != nil {
			return fmt.Errorf("failed to update position of %s: %w", ref, err)
		}
	}

	return tx.Commit()
}
