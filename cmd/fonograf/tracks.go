package main

import (
	"context"

	"fonograf/internal/library"
	"fonograf/pkg/models"

	"github.com/urfave/cli/v3"
)

// TracksList prints the full catalog.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	tracks, err := r.db.GetAllTracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		r.println("Library is empty. Run 'fonograf scan' first.")
		return nil
	}

	for i := range tracks {
		item := models.TrackItem(&tracks[i])
		r.printf("%s - %s [%s] (%s)\n", item.Artist(), item.Title(), item.Album(), item.DurationString())
	}
	r.printf("\n%d tracks\n", len(tracks))
	return nil
}

// TracksRecent prints recently added items, or recently played with --played.
func (r *Runner) TracksRecent(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))

	var items []models.MediaItem
	var err error
	if cmd.Bool("played") {
		items, err = r.db.RecentlyPlayed(limit)
	} else {
		items, err = r.db.RecentlyAdded(limit)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		r.println("Nothing to show.")
		return nil
	}
	r.printItems(items)
	return nil
}

// TracksFacets prints the album-artist/album facet listing the catalog
// browser is built from.
func (r *Runner) TracksFacets(ctx context.Context, cmd *cli.Command) error {
	tracks, err := r.db.GetAllTracks()
	if err != nil {
		return err
	}

	for _, facet := range library.BuildFacets(tracks) {
		if facet.All {
			r.println("All")
			continue
		}
		artist := "(none)"
		if facet.AlbumArtistOrArtist != nil {
			artist = *facet.AlbumArtistOrArtist
		}
		album := "(none)"
		if facet.Album != nil {
			album = *facet.Album
		}
		r.printf("%s / %s\n", artist, album)
	}
	return nil
}

func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Browse the catalog",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all cataloged tracks",
				Action: r.TracksList,
			},
			{
				Name:  "recent",
				Usage: "Show recently added or played items",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "played",
						Usage: "Show recently played instead of recently added",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of items to show",
						Value: 25,
					},
				},
				Action: r.TracksRecent,
			},
			{
				Name:   "facets",
				Usage:  "Show the artist/album facet listing",
				Action: r.TracksFacets,
			},
		},
	}
}
