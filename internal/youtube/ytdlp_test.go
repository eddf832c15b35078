package youtube

import (
	"strings"
	"testing"
)

func TestResolveChannelURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "full channel url passes through",
			input: "https://www.youtube.com/@somechannel",
			want:  "https://www.youtube.com/@somechannel",
		},
		{
			name:  "short url passes through",
			input: "https://youtu.be/abc123",
			want:  "https://youtu.be/abc123",
		},
		{
			name:  "handle expands to videos url",
			input: "@somechannel",
			want:  "https://www.youtube.com/@somechannel/videos",
		},
		{
			name:  "channel id expands to channel url",
			input: "UCabcdefghijklmnopqrstu",
			want:  "https://www.youtube.com/channel/UCabcdefghijklmnopqrstu/videos",
		},
		{
			name:    "short UC prefix is not a channel id",
			input:   "UCshort",
			wantErr: true,
		},
		{
			name:    "arbitrary text rejected",
			input:   "some channel name",
			wantErr: true,
		},
		{
			name:    "empty input rejected",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveChannelURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveChannelURL(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVideoURL(t *testing.T) {
	if got := VideoURL("abc123"); got != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected watch url: %s", got)
	}
}

func TestParseFlatPlaylist(t *testing.T) {
	output := strings.Join([]string{
		`{"id":"vid1","title":"First Video","duration":213.0,"thumbnail":"https://i.ytimg.com/vi/vid1/hq.jpg","upload_date":"20250115","channel":"Cool Channel","channel_id":"UCxyz","channel_url":"https://www.youtube.com/@coolchannel"}`,
		``,
		`{"id":"vid2","title":"Second Video","channel_id":"UCxyz"}`,
	}, "\n")

	var progress []int
	channel, videos, err := parseFlatPlaylist(strings.NewReader(output), "https://source.example", func(n int) {
		progress = append(progress, n)
	})
	if err != nil {
		t.Fatalf("parseFlatPlaylist: %v", err)
	}

	if channel == nil {
		t.Fatal("channel info not extracted")
	}
	if channel.ChannelID != "UCxyz" || channel.Name != "Cool Channel" {
		t.Errorf("channel mismatch: %+v", channel)
	}
	if channel.URL != "https://www.youtube.com/@coolchannel" {
		t.Errorf("channel url mismatch: %s", channel.URL)
	}
	if channel.Handle == nil || *channel.Handle != "@coolchannel" {
		t.Errorf("handle not extracted from url: %v", channel.Handle)
	}

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	v := videos[0]
	if v.VideoID != "vid1" || v.Title != "First Video" {
		t.Errorf("video mismatch: %+v", v)
	}
	if v.DurationSeconds == nil || *v.DurationSeconds != 213 {
		t.Errorf("duration mismatch: %v", v.DurationSeconds)
	}
	if v.PublishedAt == nil || v.PublishedAt.Format("2006-01-02") != "2025-01-15" {
		t.Errorf("upload date mismatch: %v", v.PublishedAt)
	}
	if videos[1].DurationSeconds != nil || videos[1].PublishedAt != nil {
		t.Errorf("missing fields should stay nil: %+v", videos[1])
	}

	if len(progress) != 2 || progress[1] != 2 {
		t.Errorf("progress callbacks wrong: %v", progress)
	}
}

func TestParseFlatPlaylistChannelFieldPreference(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantID   string
		wantName string
	}{
		{
			name:     "channel fields win",
			line:     `{"id":"v","channel_id":"UCa","channel":"A","uploader_id":"UCb","uploader":"B"}`,
			wantID:   "UCa",
			wantName: "A",
		},
		{
			name:     "uploader fields next",
			line:     `{"id":"v","uploader_id":"UCb","uploader":"B","playlist_channel_id":"UCc","playlist_channel":"C"}`,
			wantID:   "UCb",
			wantName: "B",
		},
		{
			name:     "playlist fields last",
			line:     `{"id":"v","playlist_channel_id":"UCc","playlist_channel":"C"}`,
			wantID:   "UCc",
			wantName: "C",
		},
		{
			name:     "name falls back to unknown",
			line:     `{"id":"v","channel_id":"UCa"}`,
			wantID:   "UCa",
			wantName: "Unknown Channel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, _, err := parseFlatPlaylist(strings.NewReader(tt.line), "https://src", nil)
			if err != nil {
				t.Fatalf("parseFlatPlaylist: %v", err)
			}
			if channel == nil {
				t.Fatal("expected channel info")
			}
			if channel.ChannelID != tt.wantID || channel.Name != tt.wantName {
				t.Errorf("got (%s, %s), want (%s, %s)",
					channel.ChannelID, channel.Name, tt.wantID, tt.wantName)
			}
		})
	}
}

func TestParseFlatPlaylistSkipsPlaylistEntries(t *testing.T) {
	output := strings.Join([]string{
		`{"id":"PLxyz","_type":"playlist","title":"Uploads","channel_id":"UCa"}`,
		`{"id":"vid1","title":"Real Video","channel_id":"UCa"}`,
	}, "\n")

	channel, videos, err := parseFlatPlaylist(strings.NewReader(output), "https://src", nil)
	if err != nil {
		t.Fatalf("parseFlatPlaylist: %v", err)
	}
	if channel == nil {
		t.Fatal("channel info should come from the playlist entry too")
	}
	if len(videos) != 1 || videos[0].VideoID != "vid1" {
		t.Errorf("playlist entry leaked into videos: %v", videos)
	}
}

func TestParseFlatPlaylistHandleFromPlaylistUploaderID(t *testing.T) {
	line := `{"id":"v","channel_id":"UCa","channel_url":"https://www.youtube.com/channel/UCa","playlist_uploader_id":"@thehandle"}`
	channel, _, err := parseFlatPlaylist(strings.NewReader(line), "https://src", nil)
	if err != nil {
		t.Fatalf("parseFlatPlaylist: %v", err)
	}
	if channel.Handle == nil || *channel.Handle != "@thehandle" {
		t.Errorf("handle mismatch: %v", channel.Handle)
	}

	// A non-@ playlist_uploader_id is not a handle.
	line = `{"id":"v","channel_id":"UCa","channel_url":"https://www.youtube.com/channel/UCa","playlist_uploader_id":"UCa"}`
	channel, _, err = parseFlatPlaylist(strings.NewReader(line), "https://src", nil)
	if err != nil {
		t.Fatalf("parseFlatPlaylist: %v", err)
	}
	if channel.Handle != nil {
		t.Errorf("expected no handle, got %v", *channel.Handle)
	}
}

func TestParseFlatPlaylistBadJSON(t *testing.T) {
	if _, _, err := parseFlatPlaylist(strings.NewReader("{not json"), "https://src", nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/@name", "@name"},
		{"https://www.youtube.com/@name/videos", "@name"},
		{"https://www.youtube.com/channel/UCa", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := extractHandle(tt.url)
		if tt.want == "" {
			if got != nil {
				t.Errorf("extractHandle(%q) = %q, want nil", tt.url, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("extractHandle(%q) = %v, want %q", tt.url, got, tt.want)
		}
	}
}
