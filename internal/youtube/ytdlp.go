package youtube

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ChannelInfo is a channel as discovered from a flat-playlist fetch.
type ChannelInfo struct {
	ChannelID    string
	Name         string
	Handle       *string
	URL          string
	ThumbnailURL *string
}

// VideoInfo is a single fetched video, before it is stored.
type VideoInfo struct {
	VideoID         string
	Title           string
	DurationSeconds *int
	ThumbnailURL    *string
	PublishedAt     *time.Time
}

// playlistEntry is one JSON line of yt-dlp --dump-json --flat-playlist
// output. Channel identity appears under different keys depending on how the
// playlist was reached, hence the three field families.
type playlistEntry struct {
	ID                 *string  `json:"id"`
	Title              *string  `json:"title"`
	Duration           *float64 `json:"duration"`
	Thumbnail          *string  `json:"thumbnail"`
	UploadDate         *string  `json:"upload_date"`
	Channel            *string  `json:"channel"`
	ChannelID          *string  `json:"channel_id"`
	ChannelURL         *string  `json:"channel_url"`
	Uploader           *string  `json:"uploader"`
	UploaderID         *string  `json:"uploader_id"`
	UploaderURL        *string  `json:"uploader_url"`
	PlaylistChannel    *string  `json:"playlist_channel"`
	PlaylistChannelID  *string  `json:"playlist_channel_id"`
	PlaylistUploader   *string  `json:"playlist_uploader"`
	PlaylistUploaderID *string  `json:"playlist_uploader_id"`
	PlaylistWebpageURL *string  `json:"playlist_webpage_url"`
	Type               *string  `json:"_type"`
}

// ResolveChannelURL turns user input into a fetchable channel URL. Accepted
// forms: a full YouTube URL (passed through), an @handle, or a UC… channel
// id. Anything else is rejected.
func ResolveChannelURL(input string) (string, error) {
	switch {
	case strings.Contains(input, "youtube.com") || strings.Contains(input, "youtu.be"):
		return input, nil
	case strings.HasPrefix(input, "@"):
		return fmt.Sprintf("https://www.youtube.com/%s/videos", input), nil
	case strings.HasPrefix(input, "UC") && len(input) > 20:
		return fmt.Sprintf("https://www.youtube.com/channel/%s/videos", input), nil
	default:
		return "", fmt.Errorf("not a YouTube URL, @handle or channel id: %s", input)
	}
}

// VideoURL returns the watch URL for a provider video id.
func VideoURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// Fetcher runs yt-dlp to discover a channel and its recent uploads.
type Fetcher struct {
	ytDlpPath string
	logger    *logrus.Logger
}

// NewFetcher locates the yt-dlp executable and returns a fetcher using it.
func NewFetcher(logger *logrus.Logger) (*Fetcher, error) {
	// Try different possible locations for yt-dlp
	possiblePaths := []string{"yt-dlp", "yt-dlp.exe", "./yt-dlp", "./yt-dlp.exe"}

	for _, path := range possiblePaths {
		if _, err := exec.LookPath(path); err == nil {
			return &Fetcher{ytDlpPath: path, logger: logger}, nil
		}
	}

	return nil, fmt.Errorf("yt-dlp not found in PATH. Please install yt-dlp")
}

// FetchChannel resolves the input to a channel URL and fetches up to limit of
// its most recent videos in one flat-playlist pass. onProgress, when non-nil,
// is called with the running video count as lines arrive.
func (f *Fetcher) FetchChannel(ctx context.Context, input string, limit int, onProgress func(fetched int)) (ChannelInfo, []VideoInfo, error) {
	channelURL, err := ResolveChannelURL(input)
	if err != nil {
		return ChannelInfo{}, nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	cmd := exec.CommandContext(ctx, f.ytDlpPath,
		"--dump-json",
		"--flat-playlist",
		"--playlist-end", fmt.Sprintf("%d", limit),
		"--no-warnings",
		channelURL,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ChannelInfo{}, nil, fmt.Errorf("failed to get stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return ChannelInfo{}, nil, fmt.Errorf("failed to run yt-dlp: %w", err)
	}

	channel, videos, parseErr := parseFlatPlaylist(stdout, channelURL, onProgress)

	if err := cmd.Wait(); err != nil {
		f.logger.WithError(err).WithField("url", channelURL).Error("yt-dlp exited with failure")
		return ChannelInfo{}, nil, fmt.Errorf("yt-dlp failed: %w", err)
	}
	if parseErr != nil {
		return ChannelInfo{}, nil, parseErr
	}
	if channel == nil {
		return ChannelInfo{}, nil, fmt.Errorf("could not determine channel info from %s", channelURL)
	}

	f.logger.WithFields(logrus.Fields{
		"channel": channel.Name,
		"videos":  len(videos),
	}).Info("Fetched channel")
	return *channel, videos, nil
}

// parseFlatPlaylist reads JSON lines from a flat-playlist dump. Channel
// identity is taken from the first entry that carries any channel key, with
// channel fields preferred over uploader fields over playlist_* fields.
func parseFlatPlaylist(r io.Reader, sourceURL string, onProgress func(fetched int)) (*ChannelInfo, []VideoInfo, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var channel *ChannelInfo
	var videos []VideoInfo

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry playlistEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
		}

		if channel == nil {
			channel = channelFromEntry(entry, sourceURL)
		}

		if entry.ID == nil {
			continue
		}
		if entry.Type != nil && *entry.Type == "playlist" {
			continue
		}

		video := VideoInfo{
			VideoID:      *entry.ID,
			Title:        "Unknown",
			ThumbnailURL: entry.Thumbnail,
		}
		if entry.Title != nil {
			video.Title = *entry.Title
		}
		if entry.Duration != nil {
			d := int(*entry.Duration)
			video.DurationSeconds = &d
		}
		if entry.UploadDate != nil {
			if t, err := time.Parse("20060102", *entry.UploadDate); err == nil {
				video.PublishedAt = &t
			}
		}
		videos = append(videos, video)

		if onProgress != nil {
			onProgress(len(videos))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read yt-dlp output: %w", err)
	}

	return channel, videos, nil
}

// channelFromEntry extracts channel identity from one entry, or nil when the
// entry carries no channel id under any key.
func channelFromEntry(entry playlistEntry, sourceURL string) *ChannelInfo {
	channelID := firstSet(entry.ChannelID, entry.UploaderID, entry.PlaylistChannelID)
	if channelID == nil {
		return nil
	}

	name := "Unknown Channel"
	if n := firstSet(entry.Channel, entry.Uploader, entry.PlaylistChannel, entry.PlaylistUploader); n != nil {
		name = *n
	}

	channelURL := sourceURL
	if u := firstSet(entry.ChannelURL, entry.UploaderURL, entry.PlaylistWebpageURL); u != nil {
		channelURL = *u
	}

	handle := entry.PlaylistUploaderID
	if handle != nil && !strings.HasPrefix(*handle, "@") {
		handle = nil
	}
	if handle == nil {
		handle = extractHandle(channelURL)
	}

	return &ChannelInfo{
		ChannelID: *channelID,
		Name:      name,
		Handle:    handle,
		URL:       channelURL,
	}
}

// extractHandle pulls the @handle segment out of a channel URL, if present.
func extractHandle(url string) *string {
	idx := strings.Index(url, "/@")
	if idx < 0 {
		return nil
	}
	rest := url[idx+1:]
	if end := strings.Index(rest, "/"); end >= 0 {
		rest = rest[:end]
	}
	return &rest
}

func firstSet(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
