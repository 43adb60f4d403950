/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/inkwell-blog/appserver/config"
	"github.com/inkwell-blog/appserver/internal/events"
	"github.com/inkwell-blog/appserver/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// workerCmd consumes blog events from the configured broker. It is the
// hook point for comment notifications and feed reindexing; for now it
// logs every event it receives.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume blog events from the message broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logger.New("worker")

		if cfg.Events.Backend == "" {
			return fmt.Errorf("EVENT_BACKEND must be set to consume events")
		}
		bus, err := events.NewBusFromConfig(cmd.Context(), cfg.Events, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect broker: %v\n", err)
			os.Exit(1)
		}
		defer bus.Close()

		group, ctx := errgroup.WithContext(cmd.Context())
		group.Go(func() error {
			return bus.Subscribe(ctx, events.ChannelPostPublished, func(ctx context.Context, msg events.Message) error {
				var evt events.PostPublishedEvent
				if err := json.Unmarshal(msg.Data, &evt); err != nil {
					log.Error().Err(err).Str("message_id", msg.ID).Msg("bad post event")
					return nil
				}
				log.Info().Int("post_id", evt.PostID).Str("title", evt.Title).Msg("post published")
				return nil
			})
		})
		group.Go(func() error {
			return bus.Subscribe(ctx, events.ChannelCommentAdded, func(ctx context.Context, msg events.Message) error {
				var evt events.CommentAddedEvent
				if err := json.Unmarshal(msg.Data, &evt); err != nil {
					log.Error().Err(err).Str("message_id", msg.ID).Msg("bad comment event")
					return nil
				}
				log.Info().Int("post_id", evt.PostID).Int("comment_id", evt.CommentID).Msg("comment added")
				return nil
			})
		})
		return group.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
