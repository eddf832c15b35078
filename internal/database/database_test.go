package database

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"fonograf/pkg/models"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.logger.SetOutput(io.Discard)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// insertTestTrack catalogs a minimal track under the given filename.
func insertTestTrack(t *testing.T, db *Database, filename string) {
	t.Helper()
	err := db.InsertTrack(models.Track{
		Filename:        filename,
		Title:           strPtr("Title of " + filepath.Base(filename)),
		DurationSeconds: intPtr(180),
	})
	if err != nil {
		t.Fatalf("failed to insert test track %s: %v", filename, err)
	}
}

// insertTestVideo stores a channel (if needed) plus one video and returns the
// video's surrogate id.
func insertTestVideo(t *testing.T, db *Database, videoID string) int64 {
	t.Helper()

	channels, err := db.GetChannels()
	if err != nil {
		t.Fatalf("failed to list channels: %v", err)
	}
	var channelDBID int64
	if len(channels) > 0 {
		channelDBID = channels[0].ID
	} else {
		channelDBID, err = db.AddChannel(models.Channel{
			ChannelID: "UCtest",
			Name:      "Test Channel",
			URL:       "https://www.youtube.com/channel/UCtest",
		})
		if err != nil {
			t.Fatalf("failed to add test channel: %v", err)
		}
	}

	if err := db.AddVideos(channelDBID, []models.Video{{
		VideoID: videoID,
		Title:   "Video " + videoID,
	}}); err != nil {
		t.Fatalf("failed to add test video %s: %v", videoID, err)
	}

	videos, err := db.VideosForChannel(channelDBID)
	if err != nil {
		t.Fatalf("failed to list videos: %v", err)
	}
	for _, v := range videos {
		if v.VideoID == videoID {
			return v.ID
		}
	}
	t.Fatalf("video %s not found after insert", videoID)
	return 0
}

func TestInsertAndGetTrack(t *testing.T) {
	db := openTestDB(t)

	track := models.Track{
		Filename:        "/music/album/01 - song.mp3",
		Title:           strPtr("Song"),
		Artist:          strPtr("Artist"),
		Album:           strPtr("Album"),
		AlbumArtist:     strPtr("Album Artist"),
		Genre:           strPtr("Electronic"),
		TrackNumber:     strPtr("3/12"),
		DurationSeconds: intPtr(245),
	}
	if err := db.InsertTrack(track); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	got, err := db.GetTrackByFilename(track.Filename)
	if err != nil {
		t.Fatalf("GetTrackByFilename: %v", err)
	}
	if got == nil {
		t.Fatal("track not found after insert")
	}
	if *got.Title != "Song" || *got.Artist != "Artist" || *got.TrackNumber != "3/12" {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.DurationSeconds == nil || *got.DurationSeconds != 245 {
		t.Errorf("duration mismatch: %v", got.DurationSeconds)
	}
	if got.PlayCount != 0 || got.LastPlayed != nil {
		t.Errorf("fresh track should have zero play stats: %+v", got)
	}
	if got.Added.IsZero() {
		t.Error("added timestamp not stamped")
	}
}

func TestInsertTrackWithNullMetadata(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertTrack(models.Track{Filename: "/music/unknown.mp3"}); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	got, err := db.GetTrackByFilename("/music/unknown.mp3")
	if err != nil {
		t.Fatalf("GetTrackByFilename: %v", err)
	}
	if got == nil {
		t.Fatal("track not found")
	}
	if got.Title != nil || got.Artist != nil || got.DurationSeconds != nil {
		t.Errorf("expected null metadata, got %+v", got)
	}
}

func TestInsertDuplicateTrackFails(t *testing.T) {
	db := openTestDB(t)
	insertTestTrack(t, db, "/music/a.mp3")
	if err := db.InsertTrack(models.Track{Filename: "/music/a.mp3"}); err == nil {
		t.Error("expected duplicate insert to fail")
	}
}

func TestGetTrackByFilenameAbsent(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetTrackByFilename("/nowhere.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent track, got %+v", got)
	}
}

func TestUpdateTrackDuration(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertTrack(models.Track{Filename: "/music/no-dur.mp3"}); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}
	if err := db.UpdateTrackDuration("/music/no-dur.mp3", 321); err != nil {
		t.Fatalf("UpdateTrackDuration: %v", err)
	}

	got, err := db.GetTrackByFilename("/music/no-dur.mp3")
	if err != nil {
		t.Fatalf("GetTrackByFilename: %v", err)
	}
	if got.DurationSeconds == nil || *got.DurationSeconds != 321 {
		t.Errorf("duration not back-filled: %v", got.DurationSeconds)
	}

	if err := db.UpdateTrackDuration("/music/missing.mp3", 10); err == nil {
		t.Error("expected error for unknown filename")
	}
}

func TestListAllFilenames(t *testing.T) {
	db := openTestDB(t)
	insertTestTrack(t, db, "/music/a.mp3")
	insertTestTrack(t, db, "/music/b.mp3")

	filenames, err := db.ListAllFilenames()
	if err != nil {
		t.Fatalf("ListAllFilenames: %v", err)
	}
	if len(filenames) != 2 {
		t.Errorf("expected 2 filenames, got %v", filenames)
	}
}

func TestDeleteTracksByFilename(t *testing.T) {
	db := openTestDB(t)
	insertTestTrack(t, db, "/music/keep.mp3")
	insertTestTrack(t, db, "/music/gone.mp3")

	playlist, err := db.CreatePlaylist("Mix")
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	if err := db.Enqueue(models.TrackRef("/music/gone.mp3")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := db.AddToPlaylist(playlist.ID, models.TrackRef("/music/gone.mp3")); err != nil {
		t.Fatalf("AddToPlaylist: %v", err)
	}

	deleted, err := db.DeleteTracksByFilename([]string{"/music/gone.mp3", "/music/never-existed.mp3"})
	if err != nil {
		t.Fatalf("DeleteTracksByFilename: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	if got, _ := db.GetTrackByFilename("/music/gone.mp3"); got != nil {
		t.Error("track still present after delete")
	}
	if got, _ := db.GetTrackByFilename("/music/keep.mp3"); got == nil {
		t.Error("unrelated track was removed")
	}
	if n, _ := db.QueueLen(); n != 0 {
		t.Errorf("queue entry referencing deleted track survived, len=%d", n)
	}
	items, err := db.PlaylistItems(playlist.ID)
	if err != nil {
		t.Fatalf("PlaylistItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("playlist entry referencing deleted track survived: %v", items)
	}
}

func TestMarkPlayed(t *testing.T) {
	db := openTestDB(t)
	insertTestTrack(t, db, "/music/a.mp3")
	videoID := insertTestVideo(t, db, "vid1")

	if err := db.MarkPlayed(models.TrackRef("/music/a.mp3")); err != nil {
		t.Fatalf("MarkPlayed(track): %v", err)
	}
	if err := db.MarkPlayed(models.TrackRef("/music/a.mp3")); err != nil {
		t.Fatalf("MarkPlayed(track) second: %v", err)
	}
	track, err := db.GetTrackByFilename("/music/a.mp3")
	if err != nil {
		t.Fatalf("GetTrackByFilename: %v", err)
	}
	if track.PlayCount != 2 {
		t.Errorf("expected play count 2, got %d", track.PlayCount)
	}
	if track.LastPlayed == nil || time.Since(*track.LastPlayed) > time.Minute {
		t.Errorf("last played not stamped: %v", track.LastPlayed)
	}

	if err := db.MarkPlayed(models.VideoRef(videoID)); err != nil {
		t.Fatalf("MarkPlayed(video): %v", err)
	}
	video, err := db.GetVideoByID(videoID)
	if err != nil {
		t.Fatalf("GetVideoByID: %v", err)
	}
	if video.PlayCount != 1 || video.LastPlayed == nil {
		t.Errorf("video play stats not updated: count=%d last=%v", video.PlayCount, video.LastPlayed)
	}

	if err := db.MarkPlayed(models.ItemRef{}); err == nil {
		t.Error("expected error for zero reference")
	}
}
