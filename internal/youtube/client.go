package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// pageSize is the Data API maximum for playlistItems.
const pageSize = 50

// Client talks to the YouTube Data API v3 for incremental channel refreshes.
// The initial channel fetch goes through yt-dlp; the API path only pulls
// videos newer than what is already stored, which keeps quota usage small.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient creates a Data API client. Requests are paced to a couple of
// pages per second so channel-wide refresh loops stay inside quota.
func NewClient(apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		logger:     logger,
	}
}

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
			Thumbnails struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// UploadsPlaylistID resolves a channel's uploads playlist, looking the
// channel up by @handle when one is known and by channel id otherwise.
func (c *Client) UploadsPlaylistID(ctx context.Context, channelID string, handle *string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("key", c.apiKey)
	if handle != nil && *handle != "" {
		params.Set("forHandle", *handle)
	} else {
		params.Set("id", channelID)
	}

	var resp channelsResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("channel %s not found", channelID)
	}

	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", fmt.Errorf("channel %s has no uploads playlist", channelID)
	}
	return uploads, nil
}

// FetchNewVideos pages through the uploads playlist newest-first and returns
// videos not present in known, in page order. Pagination stops at the first
// already-known video id: everything past it was fetched on a previous
// refresh. onProgress, when non-nil, receives the running fetch count and the
// playlist's reported total after each page.
func (c *Client) FetchNewVideos(ctx context.Context, uploadsPlaylistID string, known map[string]struct{}, onProgress func(fetched, total int)) ([]VideoInfo, error) {
	var videos []VideoInfo
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", uploadsPlaylistID)
		params.Set("maxResults", fmt.Sprintf("%d", pageSize))
		params.Set("key", c.apiKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			videoID := item.Snippet.ResourceID.VideoID
			if _, seen := known[videoID]; seen {
				if onProgress != nil {
					onProgress(len(videos), resp.PageInfo.TotalResults)
				}
				return videos, nil
			}

			video := VideoInfo{
				VideoID: videoID,
				Title:   item.Snippet.Title,
			}
			if item.Snippet.Thumbnails.Medium.URL != "" {
				u := item.Snippet.Thumbnails.Medium.URL
				video.ThumbnailURL = &u
			}
			if t, ok := parsePublishedAt(item.Snippet.PublishedAt); ok {
				video.PublishedAt = &t
			}
			videos = append(videos, video)
		}

		if onProgress != nil {
			onProgress(len(videos), resp.PageInfo.TotalResults)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return videos, nil
		}
	}
}

// get performs one paced API request and decodes the JSON response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("youtube API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("youtube API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// parsePublishedAt accepts the two timestamp shapes the API emits, with and
// without fractional seconds.
func parsePublishedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
