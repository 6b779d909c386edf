// Package insights fetches the backend's aggregated clinic statistics.
package insights

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/api"
)

// Summary is the clinic-wide aggregate view shown to admins.
type Summary struct {
	TotalAppointments     int            `json:"total_appointments"`
	CompletedAppointments int            `json:"completed_appointments"`
	CancelledAppointments int            `json:"cancelled_appointments"`
	TotalPatients         int            `json:"total_patients"`
	TotalDoctors          int            `json:"total_doctors"`
	AppointmentsByStatus  map[string]int `json:"appointments_by_status"`
	BusiestDoctor         string         `json:"busiest_doctor"`
}

type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Summary returns the clinic aggregates.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	resp, err := s.client.Get(ctx, "/ai-insights/")
	if err != nil {
		return nil, err
	}
	var sum Summary
	if err := resp.Decode(&sum); err != nil {
		return nil, err
	}
	return &sum, nil
}
