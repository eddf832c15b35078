package main

import (
	"context"
	"fmt"

	"fonograf/internal/youtube"
	"fonograf/pkg/models"

	"github.com/urfave/cli/v3"
)

// ChannelAdd subscribes to a YouTube channel and fetches its recent videos
// through yt-dlp.
func (r *Runner) ChannelAdd(ctx context.Context, cmd *cli.Command) error {
	input := cmd.Args().First()
	if input == "" {
		return fmt.Errorf("usage: channel add <url, @handle or channel id>")
	}

	fetcher, err := youtube.NewFetcher(r.logger)
	if err != nil {
		return err
	}

	r.println("Starting yt-dlp...")
	info, videos, err := fetcher.FetchChannel(ctx, input, r.config.YouTube.FetchLimit, func(fetched int) {
		r.printf("\rFetched %d videos...", fetched)
	})
	if err != nil {
		return err
	}
	r.println()

	channelID, err := r.db.AddChannel(models.Channel{
		ChannelID:    info.ChannelID,
		Name:         info.Name,
		Handle:       info.Handle,
		URL:          info.URL,
		ThumbnailURL: info.ThumbnailURL,
	})
	if err != nil {
		return err
	}
	if err := r.db.AddVideos(channelID, videoModels(videos)); err != nil {
		return err
	}
	if err := r.db.UpdateChannelLastFetched(channelID); err != nil {
		return err
	}

	r.printf("Subscribed to %s (%d videos)\n", info.Name, len(videos))
	return nil
}

// ChannelList prints the subscribed channels with their video counts.
func (r *Runner) ChannelList(ctx context.Context, cmd *cli.Command) error {
	channels, err := r.db.GetChannels()
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		r.println("No subscribed channels.")
		return nil
	}

	for _, c := range channels {
		count, err := r.db.VideoCountForChannel(c.ID)
		if err != nil {
			return err
		}

		label := c.Name
		if c.Handle != nil {
			label = fmt.Sprintf("%s (%s)", c.Name, *c.Handle)
		}
		fetched := "never fetched"
		if c.LastFetched != nil {
			fetched = "fetched " + c.LastFetched.Format("2006-01-02 15:04")
		}
		r.printf("%s - %d videos, %s\n", label, count, fetched)
	}
	return nil
}

// ChannelRemove unsubscribes a channel, dropping its videos.
func (r *Runner) ChannelRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("usage: channel remove <name or channel id>")
	}

	channel, err := r.findChannel(name)
	if err != nil {
		return err
	}
	if err := r.db.DeleteChannel(channel.ID); err != nil {
		return err
	}
	r.printf("Unsubscribed from %s\n", channel.Name)
	return nil
}

// ChannelRefresh pulls videos newer than the stored ones over the Data API.
// Without an argument every subscribed channel is refreshed.
func (r *Runner) ChannelRefresh(ctx context.Context, cmd *cli.Command) error {
	apiKey := r.config.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no YouTube API key configured (set youtube.api_key or YOUTUBE_API_KEY)")
	}
	client := youtube.NewClient(apiKey, r.logger)

	var channels []models.Channel
	if name := cmd.Args().First(); name != "" {
		channel, err := r.findChannel(name)
		if err != nil {
			return err
		}
		channels = []models.Channel{*channel}
	} else {
		all, err := r.db.GetChannels()
		if err != nil {
			return err
		}
		channels = all
	}
	if len(channels) == 0 {
		r.println("No subscribed channels.")
		return nil
	}

	for _, channel := range channels {
		if err := r.refreshChannel(ctx, client, channel); err != nil {
			r.logger.WithError(err).WithField("channel", channel.Name).Error("Failed to refresh channel")
			r.printf("%s: refresh failed: %v\n", channel.Name, err)
		}
	}
	return nil
}

func (r *Runner) refreshChannel(ctx context.Context, client *youtube.Client, channel models.Channel) error {
	uploads, err := client.UploadsPlaylistID(ctx, channel.ChannelID, channel.Handle)
	if err != nil {
		return err
	}

	known, err := r.db.VideoIDsForChannel(channel.ID)
	if err != nil {
		return err
	}

	videos, err := client.FetchNewVideos(ctx, uploads, known, func(fetched, total int) {
		r.printf("\r%s: %d of %d videos...", channel.Name, fetched, total)
	})
	if err != nil {
		return err
	}
	r.println()

	if err := r.db.AddVideos(channel.ID, videoModels(videos)); err != nil {
		return err
	}
	if err := r.db.UpdateChannelLastFetched(channel.ID); err != nil {
		return err
	}

	r.printf("%s: %d new videos\n", channel.Name, len(videos))
	return nil
}

// findChannel resolves a channel argument against name, handle and provider
// channel id.
func (r *Runner) findChannel(arg string) (*models.Channel, error) {
	channels, err := r.db.GetChannels()
	if err != nil {
		return nil, err
	}
	for i, c := range channels {
		if c.Name == arg || c.ChannelID == arg {
			return &channels[i], nil
		}
		if c.Handle != nil && *c.Handle == arg {
			return &channels[i], nil
		}
	}
	return nil, fmt.Errorf("no subscribed channel matches %q", arg)
}

func videoModels(videos []youtube.VideoInfo) []models.Video {
	out := make([]models.Video, len(videos))
	for i, v := range videos {
		out[i] = models.Video{
			VideoID:         v.VideoID,
			Title:           v.Title,
			DurationSeconds: v.DurationSeconds,
			ThumbnailURL:    v.ThumbnailURL,
			PublishedAt:     v.PublishedAt,
		}
	}
	return out
}

func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "channel",
		Usage: "Manage YouTube channel subscriptions",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Subscribe to a channel and fetch its recent videos",
				ArgsUsage: "<url, @handle or channel id>",
				Action:    r.ChannelAdd,
			},
			{
				Name:   "list",
				Usage:  "List subscribed channels",
				Action: r.ChannelList,
			},
			{
				Name:      "remove",
				Usage:     "Unsubscribe from a channel",
				ArgsUsage: "<name or channel id>",
				Action:    r.ChannelRemove,
			},
			{
				Name:      "refresh",
				Usage:     "Fetch new videos for one or all channels",
				ArgsUsage: "[name or channel id]",
				Action:    r.ChannelRefresh,
			},
		},
	}
}
