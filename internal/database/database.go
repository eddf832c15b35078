package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"fonograf/pkg/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Database wraps a *sql.DB providing higher-level helper methods for the
// catalog, the playback queue, playlists and YouTube channels. Reads are
// safe for concurrent use because the underlying *sql.DB is concurrency-safe;
// ordering mutations additionally serialize per scope (one mutex for the
// queue, one for the playlist table) so racing max-position reads cannot
// produce colliding positions.
type Database struct {
	conn   *sql.DB
	logger *logrus.Logger

	queueMu    sync.Mutex
	playlistMu sync.Mutex

	// Prepared statements for the scan hot path
	insertTrackStmt     *sql.Stmt
	updateDurationStmt  *sql.Stmt
	trackByFilenameStmt *sql.Stmt
}

// NewDatabase opens (or creates) a SQLite database at the provided path and
// ensures all required tables and indices exist. It also applies lightweight
// performance-oriented pragmas (WAL, cache sizing). Caller should Close() it
// when finished.
func NewDatabase(dbPath string) (*Database, error) {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool - adjusted for SQLite
	conn.SetMaxOpenConns(5) // SQLite works better with fewer connections
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	// Enable WAL mode for better concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=2000;",
		"PRAGMA temp_store=memory;",
		"PRAGMA foreign_keys=ON;", // Enable foreign key constraints
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	db := &Database{
		conn:   conn,
		logger: logger,
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("db_path", dbPath).Info("Database initialized successfully")
	return db, nil
}

// createTables creates tables and indices if they do not already exist, then
// executes any migrations. This is idempotent and safe to call multiple times.
func (db *Database) createTables() error {
	tracksTable := `
	CREATE TABLE IF NOT EXISTS tracks (
		filename TEXT PRIMARY KEY,
		title TEXT,
		artist TEXT,
		album TEXT,
		album_artist TEXT,
		genre TEXT,
		track TEXT,
		duration_seconds INTEGER,
		play_count INTEGER NOT NULL DEFAULT 0,
		last_played DATETIME,
		added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	channelsTable := `
	CREATE TABLE IF NOT EXISTS youtube_channels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		handle TEXT,
		url TEXT NOT NULL,
		thumbnail_url TEXT,
		last_fetched DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	videosTable := `
	CREATE TABLE IF NOT EXISTS youtube_videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id TEXT NOT NULL UNIQUE,
		channel_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		duration_seconds INTEGER,
		thumbnail_url TEXT,
		published_at DATETIME,
		fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		play_count INTEGER NOT NULL DEFAULT 0,
		last_played DATETIME,
		added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (channel_id) REFERENCES youtube_channels(id) ON DELETE CASCADE
	);`

	playlistsTable := `
	CREATE TABLE IF NOT EXISTS playlists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	// Exactly one of track_filename / youtube_video_id is set per entry.
	// The CHECK constraint backs the single-reference invariant at the
	// schema level; the Go API makes invalid refs unrepresentable.
	playlistEntriesTable := `
	CREATE TABLE IF NOT EXISTS playlist_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		playlist_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		track_filename TEXT,
		youtube_video_id INTEGER,
		added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (playlist_id) REFERENCES playlists(id) ON DELETE CASCADE,
		CHECK ((track_filename IS NULL) != (youtube_video_id IS NULL))
	);`

	queueEntriesTable := `
	CREATE TABLE IF NOT EXISTS queue_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		position INTEGER NOT NULL,
		track_filename TEXT,
		youtube_video_id INTEGER,
		added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK ((track_filename IS NULL) != (youtube_video_id IS NULL))
	);`

	// Create indices for better performance
	indices := []string{
		"CREATE INDEX IF NOT EXISTS idx_tracks_artist_album ON tracks(artist, album);",
		"CREATE INDEX IF NOT EXISTS idx_tracks_last_played ON tracks(last_played);",
		"CREATE INDEX IF NOT EXISTS idx_videos_channel ON youtube_videos(channel_id);",
		"CREATE INDEX IF NOT EXISTS idx_videos_published ON youtube_videos(channel_id, published_at);",
		"CREATE INDEX IF NOT EXISTS idx_playlist_entries_position ON playlist_entries(playlist_id, position);",
		"CREATE INDEX IF NOT EXISTS idx_queue_entries_position ON queue_entries(position);",
	}

	tables := []string{tracksTable, channelsTable, videosTable, playlistsTable, playlistEntriesTable, queueEntriesTable}
	for _, table := range tables {
		if _, err := db.conn.Exec(table); err != nil {
			return err
		}
	}

	for _, index := range indices {
		if _, err := db.conn.Exec(index); err != nil {
			return err
		}
	}

	// Run migrations
	if err := db.runMigrations(); err != nil {
		return err
	}

	return nil
}

// runMigrations performs incremental schema updates in-place. Each migration
// should be idempotent and safe to re-run; keep them lightweight.
func (db *Database) runMigrations() error {
	// Migration 1: Add genre column to tracks for catalogs created before it existed
	var columnExists bool
	err := db.conn.QueryRow(`
		SELECT COUNT(*) > 0
		FROM pragma_table_info('tracks')
		WHERE name = 'genre'`).Scan(&columnExists)

	if err != nil {
		return err
	}

	if !columnExists {
		if _, err := db.conn.Exec("ALTER TABLE tracks ADD COLUMN genre TEXT"); err != nil {
			return err
		}
		db.logger.Info("Added genre column to tracks table")
	}

	return nil
}

// prepareStatements prepares the statements used on every scanned file
func (db *Database) prepareStatements() error {
	var err error

	db.insertTrackStmt, err = db.conn.Prepare(`
		INSERT INTO tracks (filename, title, artist, album, album_artist, genre, track, duration_seconds, added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert track statement: %w", err)
	}

	db.updateDurationStmt, err = db.conn.Prepare(`
		UPDATE tracks SET duration_seconds = ? WHERE filename = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare update duration statement: %w", err)
	}

	db.trackByFilenameStmt, err = db.conn.Prepare(`
		SELECT filename, title, artist, album, album_artist, genre, track, duration_seconds, play_count, last_played, added
		FROM tracks WHERE filename = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare track lookup statement: %w", err)
	}

	return nil
}

// Close closes the underlying database connection and prepared statements.
func (db *Database) Close() error {
	statements := []*sql.Stmt{
		db.insertTrackStmt,
		db.updateDurationStmt,
		db.trackByFilenameStmt,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				db.logger.WithError(err).Error("Failed to close prepared statement")
			}
		}
	}

	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// resolveRef looks up the media item a reference points at. A missing row is
// not an error: ok=false lets callers drop dangling references silently.
func (db *Database) resolveRef(ref models.ItemRef) (models.MediaItem, bool, error) {
	if filename, ok := ref.TrackFilename(); ok {
		track, err := db.GetTrackByFilename(filename)
		if err != nil {
			return models.MediaItem{}, false, err
		}
		if track == nil {
			return models.MediaItem{}, false, nil
		}
		return models.TrackItem(track), true, nil
	}

	if id, ok := ref.VideoID(); ok {
		video, err := db.GetVideoByID(id)
		if err != nil {
			return models.MediaItem{}, false, err
		}
		if video == nil {
			return models.MediaItem{}, false, nil
		}
		return models.VideoItem(video), true, nil
	}

	return models.MediaItem{}, false, nil
}

// decodeRef rebuilds an ItemRef from the two nullable reference columns.
// Rows that decode with neither side set (possible only if the CHECK
// constraint was bypassed) report ok=false and are skipped like dangling
// references.
func decodeRef(trackFilename sql.NullString, videoID sql.NullInt64) (models.ItemRef, bool) {
	switch {
	case trackFilename.Valid:
		return models.TrackRef(trackFilename.String), true
	case videoID.Valid:
		return models.VideoRef(videoID.Int64), true
	default:
		return models.ItemRef{}, false
	}
}

// refColumns splits an ItemRef into the two nullable columns of the storage
// encoding.
func refColumns(ref models.ItemRef) (sql.NullString, sql.NullInt64) {
	if filename, ok := ref.TrackFilename(); ok {
		return sql.NullString{String: filename, Valid: true}, sql.NullInt64{}
	}
	if id, ok := ref.VideoID(); ok {
		return sql.NullString{}, sql.NullInt64{Int64: id, Valid: true}
	}
	return sql.NullString{}, sql.NullInt64{}
}
