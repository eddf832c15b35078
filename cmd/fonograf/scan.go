package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fonograf/internal/library"
	"fonograf/internal/metadata"

	"github.com/urfave/cli/v3"
)

// Scan reconciles the configured library folders against the catalog,
// printing running progress and offering to drop stale entries at the end.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	for _, folder := range cmd.StringSlice("folder") {
		canonical, err := canonicalFolder(folder)
		if err != nil {
			return err
		}
		if r.config.AddFolder(canonical) {
			r.printf("Added folder: %s\n", canonical)
		}
	}
	if cmd.StringSlice("folder") != nil {
		r.saveConfig()
	}

	if len(r.config.Library.Folders) == 0 {
		r.setupFolders()
	}
	if len(r.config.Library.Folders) == 0 {
		r.println("No folders added. Exiting.")
		return nil
	}

	folders := r.config.Library.Folders

	existing, err := r.db.GetAllTracks()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	r.printf("Scanning %d folder(s)...\n", len(folders))
	for _, folder := range folders {
		r.printf("  %s\n", folder)
	}
	r.printf("%d tracks already in library\n\n", len(existing))

	scanner := library.NewScanner(r.db, metadata.NewProber(), r.logger)
	events, err := scanner.Scan(folders)
	if err != nil {
		return err
	}

	for event := range events {
		switch ev := event.(type) {
		case library.StartingFolder:
			r.printf("Scanning: %s\n", ev.Folder)
		case library.FoundFile:
			r.printf("\r  Found %d files (%d existing)...", ev.Found, ev.Skipped)
		case library.ScannedFile:
			if ev.Updated > 0 {
				r.printf("\r  %d files, %d existing, %d new, %d updated", ev.Found, ev.Skipped, ev.Added, ev.Updated)
			} else {
				r.printf("\r  %d files, %d existing, %d new", ev.Found, ev.Skipped, ev.Added)
			}
		case library.Complete:
			r.println()
			r.println()
			r.println("Scan complete:")
			r.printf("  %d files found\n", ev.Found)
			r.printf("  %d already up to date\n", ev.Skipped)
			r.printf("  %d added\n", ev.Added)
			if ev.Updated > 0 {
				r.printf("  %d updated\n", ev.Updated)
			}
			if len(ev.Stale) > 0 {
				r.promptStaleRemoval(ev.Stale)
			}
		}
	}
	return nil
}

// promptStaleRemoval lists catalog entries whose files vanished and removes
// them when the user confirms.
func (r *Runner) promptStaleRemoval(stale []string) {
	r.println()
	r.printf("%d tracks no longer found on disk:\n", len(stale))
	for _, f := range stale {
		r.printf("  %s\n", f)
	}
	r.println()

	if !r.confirm("Remove these from the library? [y/N] ") {
		r.println("Skipped.")
		return
	}

	count, err := r.db.DeleteTracksByFilename(stale)
	if err != nil {
		r.printf("Failed to remove tracks: %v\n", err)
		return
	}
	r.printf("Removed %d tracks.\n", count)
}

// setupFolders interactively collects library folders when none are
// configured yet.
func (r *Runner) setupFolders() {
	r.println("No music folders configured.")
	r.println("Enter directory paths to add to your library (empty line to finish):")
	r.println()

	added := false
	for {
		path := r.promptLine("  Add folder: ")
		if path == "" {
			break
		}

		canonical, err := canonicalFolder(path)
		if err != nil {
			r.printf("    Not a valid directory: %s\n", path)
			continue
		}
		if r.config.AddFolder(canonical) {
			added = true
		}
		r.printf("    Added: %s\n", canonical)
	}

	if added {
		r.saveConfig()
		r.println()
		r.println("Settings saved.")
	}
}

// canonicalFolder validates that the path is a directory and makes it
// absolute, expanding a leading ~.
func canonicalFolder(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("not a valid directory: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan library folders and reconcile the catalog",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "folder",
				Aliases: []string{"f"},
				Usage:   "Folder to add to the library before scanning (repeatable)",
			},
		},
		Action: r.Scan,
	}
}

// FoldersAdd adds library folders to the configuration.
func (r *Runner) FoldersAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("folder path is required")
	}

	added := 0
	for _, folder := range cmd.Args().Slice() {
		canonical, err := canonicalFolder(folder)
		if err != nil {
			return err
		}
		if r.config.AddFolder(canonical) {
			added++
			r.printf("Added: %s\n", canonical)
		} else {
			r.printf("Already configured: %s\n", canonical)
		}
	}
	if added > 0 {
		r.saveConfig()
	}
	return nil
}

// FoldersRemove removes a library folder from the configuration.
func (r *Runner) FoldersRemove(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("folder path is required")
	}

	folder := cmd.Args().First()
	if !r.config.RemoveFolder(folder) {
		// The stored form is absolute, try that before giving up.
		if abs, err := filepath.Abs(folder); err != nil || !r.config.RemoveFolder(abs) {
			return fmt.Errorf("folder not configured: %s", folder)
		}
	}
	r.saveConfig()
	r.printf("Removed: %s\n", folder)
	return nil
}

// FoldersList prints the configured library folders.
func (r *Runner) FoldersList(ctx context.Context, cmd *cli.Command) error {
	if len(r.config.Library.Folders) == 0 {
		r.println("No music folders configured.")
		return nil
	}
	for _, folder := range r.config.Library.Folders {
		r.println(folder)
	}
	return nil
}

func foldersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "Manage library folders",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add one or more library folders",
				ArgsUsage: "<path> [path ...]",
				Action:    r.FoldersAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a library folder",
				ArgsUsage: "<path>",
				Action:    r.FoldersRemove,
			},
			{
				Name:   "list",
				Usage:  "List library folders",
				Action: r.FoldersList,
			},
		},
	}
}
