package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fonograf/internal/library"
	"fonograf/pkg/models"

	"github.com/urfave/cli/v3"
)

// lookupPlaylist resolves a playlist by name, erroring when it is absent.
func (r *Runner) lookupPlaylist(name string) (*models.Playlist, error) {
	playlist, err := r.db.GetPlaylistByName(name)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("no playlist named %q", name)
	}
	return playlist, nil
}

// PlaylistCreate creates a new empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("playlist name is required")
	}

	if existing, err := r.db.GetPlaylistByName(name); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("playlist %q already exists", name)
	}

	playlist, err := r.db.CreatePlaylist(name)
	if err != nil {
		return err
	}
	r.printf("Created playlist %q\n", playlist.Name)
	return nil
}

// PlaylistList prints all playlists with their sizes.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.db.GetPlaylists()
	if err != nil {
		return err
	}
	if len(playlists) == 0 {
		r.println("No playlists.")
		return nil
	}

	for _, p := range playlists {
		items, err := r.db.PlaylistItems(p.ID)
		if err != nil {
			return err
		}
		r.printf("%s (%d items)\n", p.Name, len(items))
	}
	return nil
}

// PlaylistRename renames a playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: playlist rename <name> <new-name>")
	}

	playlist, err := r.lookupPlaylist(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	newName := cmd.Args().Get(1)
	if err := r.db.RenamePlaylist(playlist.ID, newName); err != nil {
		return err
	}
	r.printf("Renamed %q to %q\n", playlist.Name, newName)
	return nil
}

// PlaylistDelete removes a playlist and its entries.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.lookupPlaylist(cmd.Args().First())
	if err != nil {
		return err
	}
	if err := r.db.DeletePlaylist(playlist.ID); err != nil {
		return err
	}
	r.printf("Deleted playlist %q\n", playlist.Name)
	return nil
}

// PlaylistAdd appends an item to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: playlist add <name> <file or video:id>")
	}

	playlist, err := r.lookupPlaylist(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	ref, err := parseItemRef(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	if err := r.db.AddToPlaylist(playlist.ID, ref); err != nil {
		return err
	}
	r.printf("Added %s to %q\n", ref, playlist.Name)
	return nil
}

// PlaylistRemove removes an item from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: playlist remove <name> <file or video:id>")
	}

	playlist, err := r.lookupPlaylist(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	ref, err := parseItemRef(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	if err := r.db.RemoveFromPlaylist(playlist.ID, ref); err != nil {
		return err
	}
	r.printf("Removed %s from %q\n", ref, playlist.Name)
	return nil
}

// PlaylistItems prints a playlist's contents in order.
func (r *Runner) PlaylistItems(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.lookupPlaylist(cmd.Args().First())
	if err != nil {
		return err
	}
	items, err := r.db.PlaylistItems(playlist.ID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		r.printf("Playlist %q is empty.\n", playlist.Name)
		return nil
	}
	r.printItems(items)
	return nil
}

// PlaylistMove moves the selected entries to a new spot, the same splice a
// drag-and-drop reorder performs, and persists the resulting order.
func (r *Runner) PlaylistMove(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.lookupPlaylist(cmd.Args().First())
	if err != nil {
		return err
	}

	from, err := parseIndexList(cmd.String("from"))
	if err != nil {
		return err
	}

	items, err := r.db.PlaylistItems(playlist.ID)
	if err != nil {
		return err
	}
	current := make([]models.ItemRef, len(items))
	for i, item := range items {
		current[i] = item.Ref()
	}

	reordered := library.ComputeDropOrder(current, from, int(cmd.Int("to")))
	if err := r.db.ReorderPlaylist(playlist.ID, reordered); err != nil {
		return err
	}

	moved, err := r.db.PlaylistItems(playlist.ID)
	if err != nil {
		return err
	}
	r.printItems(moved)
	return nil
}

// parseIndexList parses a comma-separated list of entry indices.
func parseIndexList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no entry indices given")
	}

	var indices []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid entry index %q", part)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new playlist",
				ArgsUsage: "<name>",
				Action:    r.PlaylistCreate,
			},
			{
				Name:   "list",
				Usage:  "List playlists",
				Action: r.PlaylistList,
			},
			{
				Name:      "rename",
				Usage:     "Rename a playlist",
				ArgsUsage: "<name> <new-name>",
				Action:    r.PlaylistRename,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				ArgsUsage: "<name>",
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "add",
				Usage:     "Append an item to a playlist",
				ArgsUsage: "<name> <file or video:id>",
				Action:    r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove an item from a playlist",
				ArgsUsage: "<name> <file or video:id>",
				Action:    r.PlaylistRemove,
			},
			{
				Name:      "items",
				Usage:     "Show a playlist's contents",
				ArgsUsage: "<name>",
				Action:    r.PlaylistItems,
			},
			{
				Name:      "move",
				Usage:     "Move entries to a new position",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Entry indices to move, comma-separated",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to",
						Usage:    "Index to drop the entries at",
						Required: true,
					},
				},
				Action: r.PlaylistMove,
			},
		},
	}
}
