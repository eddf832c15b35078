package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fonograf/internal/metadata"
	"fonograf/pkg/models"

	"github.com/sirupsen/logrus"
)

// ErrNoFolders is returned when a scan is requested with no library folders
// configured.
var ErrNoFolders = errors.New("no library folders configured")

// audioExtensions is the recognized audio file allowlist, matched
// case-insensitively against the file extension.
var audioExtensions = map[string]struct{}{
	".mp3": {}, ".flac": {}, ".ogg": {}, ".opus": {}, ".wav": {},
	".aac": {}, ".m4a": {}, ".wma": {}, ".aiff": {}, ".aif": {},
	".ape": {}, ".wv": {}, ".mpc": {}, ".mp4": {}, ".webm": {},
}

// Store is the slice of the catalog the scanner needs.
type Store interface {
	GetAllTracks() ([]models.Track, error)
	InsertTrack(track models.Track) error
	UpdateTrackDuration(filename string, durationSeconds int) error
	ListAllFilenames() ([]string, error)
}

// Prober reads metadata from audio files. Probe is called once per newly
// discovered file; Duration alone for files that only need a back-fill.
type Prober interface {
	Probe(path string) (metadata.Tags, error)
	Duration(path string) (int, error)
}

// Scanner reconciles a set of library folders against the catalog in one
// resumable pass. Only one scan may run at a time against a given catalog:
// the classification sets are a snapshot and go stale if another writer
// mutates the catalog mid-scan. All catalog writes happen on the scan
// goroutine.
type Scanner struct {
	store  Store
	prober Prober
	logger *logrus.Logger
}

// NewScanner creates a scanner over the given catalog store and prober.
func NewScanner(store Store, prober Prober, logger *logrus.Logger) *Scanner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Scanner{store: store, prober: prober, logger: logger}
}

// Scan walks the given folders in order and reconciles every discovered
// audio file against the catalog, streaming progress on the returned
// channel. Configuration and snapshot errors surface here, before any event
// is emitted; after that the scan favors forward progress, logging and
// skipping per-file failures. The channel is buffered, carries events in
// order, and is closed after the terminal Complete event.
func (s *Scanner) Scan(folders []string) (<-chan Event, error) {
	if len(folders) == 0 {
		return nil, ErrNoFolders
	}

	tracks, err := s.store.GetAllTracks()
	if err != nil {
		return nil, err
	}

	// Partition the catalog snapshot on duration presence.
	complete := make(map[string]struct{}, len(tracks))
	incomplete := make(map[string]struct{})
	for _, t := range tracks {
		if t.DurationSeconds != nil {
			complete[t.Filename] = struct{}{}
		} else {
			incomplete[t.Filename] = struct{}{}
		}
	}

	events := make(chan Event, 64)
	go s.run(folders, complete, incomplete, events)
	return events, nil
}

func (s *Scanner) run(folders []string, complete, incomplete map[string]struct{}, events chan<- Event) {
	defer close(events)

	var found, skipped, added, updated int

	for _, folder := range folders {
		events <- StartingFolder{Folder: folder}

		// WalkDir does not follow symlinked directories, which keeps
		// cyclic link structures from looping the scan.
		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.WithError(err).WithField("path", path).Warn("Skipping unreadable entry")
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if _, ok := audioExtensions[ext]; !ok {
				return nil
			}

			found++
			events <- FoundFile{Found: found, Skipped: skipped, Path: path}

			switch Classify(path, complete, incomplete) {
			case Skip:
				skipped++
			case Refresh:
				if s.refreshDuration(path) {
					updated++
				}
			case Insert:
				if s.insertTrack(path) {
					added++
				}
			}

			events <- ScannedFile{Found: found, Skipped: skipped, Added: added, Updated: updated, Path: path}
			return nil
		})
		if err != nil {
			// Root-level failure (folder missing, permission denied on the
			// root itself). The remaining folders are still scanned.
			s.logger.WithError(err).WithField("folder", folder).Error("Failed to walk folder")
		}
	}

	stale := s.findStale(folders)
	events <- Complete{Found: found, Skipped: skipped, Added: added, Updated: updated, Stale: stale}
}

// refreshDuration probes a cataloged file for duration only and back-fills
// the row. Reports whether the row was updated; probe failures leave the row
// untouched so the file is retried on the next scan.
func (s *Scanner) refreshDuration(path string) bool {
	secs, err := s.prober.Duration(path)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Duration probe failed, will retry next scan")
		return false
	}
	if err := s.store.UpdateTrackDuration(path, secs); err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Failed to update duration")
		return false
	}
	return true
}

// insertTrack fully probes a new file and catalogs it. A probe failure still
// inserts a row with only the filename set, so the file is never silently
// missing from the catalog. Reports whether a row was inserted.
func (s *Scanner) insertTrack(path string) bool {
	track := models.Track{Filename: path, Added: time.Now()}

	tags, err := s.prober.Probe(path)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Tag probe failed, cataloging with null metadata")
	} else {
		track.Title = tags.Title
		track.Artist = tags.Artist
		track.Album = tags.Album
		track.AlbumArtist = tags.AlbumArtist
		track.Genre = tags.Genre
		track.TrackNumber = tags.TrackNumber
		track.DurationSeconds = tags.DurationSeconds
	}

	if err := s.store.InsertTrack(track); err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Failed to insert track")
		return false
	}
	return true
}

// findStale returns cataloged filenames that lie under one of the scanned
// folders but no longer exist on disk. Entries under unscanned folders are
// never flagged: this run gathered no evidence about them.
func (s *Scanner) findStale(folders []string) []string {
	filenames, err := s.store.ListAllFilenames()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list catalog filenames for stale check")
		return nil
	}

	var stale []string
	for _, f := range filenames {
		if !underAny(f, folders) {
			continue
		}
		if _, err := os.Stat(f); os.IsNotExist(err) {
			stale = append(stale, f)
		}
	}
	sort.Strings(stale)
	return stale
}

func underAny(path string, folders []string) bool {
	for _, folder := range folders {
		if strings.HasPrefix(path, folder) {
			return true
		}
	}
	return false
}
