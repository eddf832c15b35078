package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// QueueAdd appends an item to the playback queue.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("usage: queue add <file or video:id>")
	}

	for _, arg := range cmd.Args().Slice() {
		ref, err := parseItemRef(arg)
		if err != nil {
			return err
		}
		if err := r.db.Enqueue(ref); err != nil {
			return err
		}
		r.printf("Queued %s\n", ref)
	}
	return nil
}

// QueueList prints the queue in playback order.
func (r *Runner) QueueList(ctx context.Context, cmd *cli.Command) error {
	items, err := r.db.QueueItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		r.println("Queue is empty.")
		return nil
	}
	r.printItems(items)
	return nil
}

// QueueNext pops the front of the queue, recording a play for it.
func (r *Runner) QueueNext(ctx context.Context, cmd *cli.Command) error {
	item, ok, err := r.player.Next()
	if err != nil {
		return err
	}
	if !ok {
		r.println("Queue is empty.")
		return nil
	}
	r.printf("Now playing: %s - %s (%s)\n", item.Artist(), item.Title(), item.DurationString())
	return nil
}

// QueueClear empties the playback queue.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	n, err := r.db.QueueLen()
	if err != nil {
		return err
	}
	if err := r.db.ClearQueue(); err != nil {
		return err
	}
	r.printf("Cleared %d entries.\n", n)
	return nil
}

func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Manage the playback queue",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Append items to the queue",
				ArgsUsage: "<file or video:id> [...]",
				Action:    r.QueueAdd,
			},
			{
				Name:   "list",
				Usage:  "Show the queue in playback order",
				Action: r.QueueList,
			},
			{
				Name:   "next",
				Usage:  "Pop the next item off the queue and mark it played",
				Action: r.QueueNext,
			},
			{
				Name:   "clear",
				Usage:  "Empty the queue",
				Action: r.QueueClear,
			},
		},
	}
}
