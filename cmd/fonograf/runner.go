package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fonograf/internal/config"
	"fonograf/internal/database"
	"fonograf/internal/player"
	"fonograf/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config     *config.Config
	configPath string
	db         *database.Database
	player     *player.Manager
	logger     *logrus.Logger
	output     io.Writer
	input      *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *config.Config
	ConfigPath string
	DB         *database.Database
	Logger     *logrus.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		player:     player.NewManager(opts.DB),
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		scanCommand(r),
		foldersCommand(r),
		tracksCommand(r),
		playlistCommand(r),
		queueCommand(r),
		channelCommand(r),
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) println(args ...any) {
	fmt.Fprintln(r.output, args...)
}

// promptLine prints msg and reads one trimmed line of input.
func (r *Runner) promptLine(msg string) string {
	r.printf("%s", msg)
	line, _ := r.input.ReadString('\n')
	return strings.TrimSpace(line)
}

func (r *Runner) confirm(msg string) bool {
	return strings.EqualFold(r.promptLine(msg), "y")
}

// saveConfig writes the current config back to disk, logging on failure
// rather than aborting the command.
func (r *Runner) saveConfig() {
	if err := r.config.SaveToFile(r.configPath); err != nil {
		r.logger.WithError(err).Warn("Failed to save settings")
	}
}

// parseItemRef turns a CLI item argument into a reference: "video:<id>" for a
// stored video, anything else is a track filename.
func parseItemRef(arg string) (models.ItemRef, error) {
	if rest, ok := strings.CutPrefix(arg, "video:"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return models.ItemRef{}, fmt.Errorf("invalid video id %q", rest)
		}
		return models.VideoRef(id), nil
	}
	return models.TrackRef(arg), nil
}

// printItems renders a numbered media item listing.
func (r *Runner) printItems(items []models.MediaItem) {
	for i, item := range items {
		r.printf("%3d. %s - %s (%s)\n", i, item.Artist(), item.Title(), item.DurationString())
	}
}
