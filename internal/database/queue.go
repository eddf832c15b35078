package database

import (
	"database/sql"
	"fmt"

	"fonograf/pkg/models"
)

// Enqueue appends an item to the end of the playback queue. The new entry
// gets max(existing positions, -1)+1, so appends to an empty queue start at
// position 0. The read-max/insert sequence holds the queue mutex: concurrent
// appends would otherwise race and collide on the same position.
func (db *Database) Enqueue(ref models.ItemRef) error {
	db.queueMu.Lock()
	defer db.queueMu.Unlock()

	var maxPosition sql.NullInt64
	err := db.conn.QueryRow("SELECT MAX(position) FROM queue_entries").Scan(&maxPosition)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	position := int64(0)
	if maxPosition.Valid {
		position = maxPosition.Int64 + 1
	}

	trackFilename, videoID := refColumns(ref)
	_, err = db.conn.Exec(`
		INSERT INTO queue_entries (position, track_filename, youtube_video_id)
		VALUES (?, ?, ?)`, position, trackFilename, videoID)
	if err != nil {
		db.logger.WithError(err).WithField("ref", ref.String()).Error("Failed to enqueue item")
		return fmt.Errorf("failed to enqueue %s: %w", ref, err)
	}
	return nil
}

// PopQueueFront removes the minimum-position entry and resolves it to its
// media item. Remaining entries are not renumbered. Entries whose referenced
// track or video no longer exists are discarded and the next entry is tried,
// so a dangling front never surfaces as an error. ok=false means the queue
// is empty.
func (db *Database) PopQueueFront() (models.MediaItem, bool, error) {
	db.queueMu.Lock()
	defer db.queueMu.Unlock()

	for {
		var id int64
		var trackFilename sql.NullString
		var videoID sql.NullInt64

		err := db.conn.QueryRow(`
			SELECT id, track_filename, youtube_video_id
			FROM queue_entries
			ORDER BY position ASC
			LIMIT 1`).Scan(&id, &trackFilename, &videoID)
		if err == sql.ErrNoRows {
			return models.MediaItem{}, false, nil
		}
		if err != nil {
			return models.MediaItem{}, false, err
		}

		if _, err := db.conn.Exec("DELETE FROM queue_entries WHERE id = ?", id); err != nil {
			return models.MediaItem{}, false, err
		}

		ref, ok := decodeRef(trackFilename, videoID)
		if !ok {
			continue
		}
		item, ok, err := db.resolveRef(ref)
		if err != nil {
			return models.MediaItem{}, false, err
		}
		if !ok {
			db.logger.WithField("ref", ref.String()).Debug("Dropped dangling queue entry")
			continue
		}
		return item, true, nil
	}
}

// RemoveFromQueue deletes every queue entry referencing the given item.
// Positions of the surviving entries are untouched.
func (db *Database) RemoveFromQueue(ref models.ItemRef) error {
	db.queueMu.Lock()
	defer db.queueMu.Unlock()

	if filename, ok := ref.TrackFilename(); ok {
		_, err := db.conn.Exec("DELETE FROM queue_entries WHERE track_filename = ?", filename)
		return err
	}
	if id, ok := ref.VideoID(); ok {
		_, err := db.conn.Exec("DELETE FROM queue_entries WHERE youtube_video_id = ?", id)
		return err
	}
	return fmt.Errorf("cannot remove zero reference from queue")
}

// QueueItems returns the queue in ascending position order, each entry
// resolved to its media item. Dangling references are silently dropped.
func (db *Database) QueueItems() ([]models.MediaItem, error) {
	rows, err := db.conn.Query(`
		SELECT track_filename, youtube_video_id
		FROM queue_entries
		ORDER BY position ASC`)
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

// ClearQueue removes every queue entry.
func (db *Database) ClearQueue() error {
	db.queueMu.Lock()
	defer db.queueMu.Unlock()

	_, err := db.conn.Exec("DELETE FROM queue_entries")
	return err
}

// QueueLen returns the number of queue entries, dangling ones included.
func (db *Database) QueueLen() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM queue_entries").Scan(&count)
	return count, err
}

// scanRefRows reads (track_filename, youtube_video_id) result sets into refs,
// skipping rows with neither side set. Callers must have already deferred
// rows.Close().
func scanRefRows(rows *sql.Rows) ([]models.ItemRef, error) {
	var refs []models.ItemRef
	for rows.Next() {
		var trackFilename sql.NullString
		var videoID sql.NullInt64
		if err := rows.Scan(&trackFilename, &videoID); err != nil {
			return nil, err
		}
		if ref, ok := decodeRef(trackFilename, videoID); ok {
			refs = append(refs, ref)
		}
	}
	return refs, rows.Err()
}

// resolveRefs maps refs to media items, dropping dangling references.
func (db *Database) resolveRefs(refs []models.ItemRef) ([]models.MediaItem, error) {
	items := make([]models.MediaItem, 0, len(refs))
	for _, ref := range refs {
		item, ok, err := db.resolveRef(ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			db.logger.WithField("ref", ref.String()).Debug("Dropped dangling entry")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
