package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/domain/notifications"
	"github.com/carebook/carebook/internal/platform/watch"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes"},
		Short:   "Notification feed",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.notes.List(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				notes = notifications.Unread(notes)
			}
			if len(notes) == 0 {
				fmt.Println("No notifications")
				return nil
			}
			printNotifications(notes)
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include already read notifications")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			if err := a.notes.MarkRead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Notification %d marked as read\n", id)
			return nil
		},
	}

	var interval time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			seen := make(map[int64]bool)
			watch.NewPoller(interval, a.logger).Run(cmd.Context(), func(ctx context.Context) error {
				notes, err := a.notes.List(ctx)
				if err != nil {
					return err
				}
				var fresh []notifications.Notification
				for _, n := range notifications.Unread(notes) {
					if !seen[n.ID] {
						seen[n.ID] = true
						fresh = append(fresh, n)
					}
				}
				if len(fresh) > 0 {
					printNotifications(fresh)
				}
				return nil
			})
			return nil
		},
	}
	watchCmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "poll interval")

	cmd.AddCommand(list, read, watchCmd)
	return cmd
}

func printNotifications(notes []notifications.Notification) {
	for _, n := range notes {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s  %s\n", marker, n.ID, n.CreatedAt, n.Message)
	}
}
