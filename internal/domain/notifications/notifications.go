// Package notifications reads and acknowledges the per-user notification
// feed the backend writes on appointment and pharmacy events.
package notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/api"
)

// Notification is one feed entry.
type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	resp, err := s.client.Get(ctx, "/notifications/")
	if err != nil {
		return nil, err
	}
	var notes []Notification
	if err := resp.Decode(&notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Unread filters a list down to unacknowledged entries.
func Unread(notes []Notification) []Notification {
	var out []Notification
	for _, n := range notes {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

// MarkRead acknowledges one notification.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	_, err := s.client.Put(ctx, fmt.Sprintf("/notifications/%d/read/", id), nil)
	return err
}
