package appointments

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/api"
	"github.com/carebook/carebook/internal/platform/payment"
)

// Service is the appointment API surface. The backend filters lists by the
// caller's role, so one List covers every dashboard.
type Service struct {
	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client:   client,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns the caller's appointments: their own for patients, their
// schedule for doctors, everything for staff and admins.
func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	resp, err := s.client.Get(ctx, "/appointments/")
	if err != nil {
		return nil, err
	}
	var appts []Appointment
	if err := resp.Decode(&appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// Create reserves a slot. The appointment comes back pending with its token
// number for the day already assigned.
func (s *Service) Create(ctx context.Context, input BookingInput) (*Appointment, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validate booking: %w", err)
	}
	resp, err := s.client.Post(ctx, "/appointments/create/", input)
	if err != nil {
		return nil, err
	}
	var appt Appointment
	if err := resp.Decode(&appt); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("appointment_id", appt.ID).Int("token", appt.TokenNumber).Msg("slot reserved")
	return &appt, nil
}

// UpdateStatus moves an appointment through its lifecycle. The server is
// authoritative; the returned record reflects what it accepted.
func (s *Service) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) (*Appointment, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("validate status update: %w", err)
	}
	resp, err := s.client.Patch(ctx, fmt.Sprintf("/appointments/%d/status/", id), update)
	if err != nil {
		return nil, err
	}
	var appt Appointment
	if err := resp.Decode(&appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// Cancel cancels an appointment. Cancelling an already cancelled one is a
// no-op on the server and succeeds here too.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	_, err := s.client.Post(ctx, fmt.Sprintf("/appointments/%d/cancel/", id), nil)
	return err
}

// Pay records the visit fee as collected after the processor confirmed it.
func (s *Service) Pay(ctx context.Context, id int64) (*Appointment, error) {
	resp, err := s.client.Post(ctx, fmt.Sprintf("/appointments/%d/pay/", id), nil)
	if err != nil {
		return nil, err
	}
	var appt Appointment
	if err := resp.Decode(&appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// CreatePaymentIntent asks the backend to open a payment intent with the
// processor for the appointment's fee.
func (s *Service) CreatePaymentIntent(ctx context.Context, id int64) (string, error) {
	resp, err := s.client.Post(ctx, fmt.Sprintf("/appointments/create-payment-intent/%d/", id), nil)
	if err != nil {
		return "", err
	}
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	if out.ClientSecret == "" {
		return "", fmt.Errorf("backend returned no client secret")
	}
	return out.ClientSecret, nil
}

// ProcessorConfig fetches the processor's publishable key.
func (s *Service) ProcessorConfig(ctx context.Context) (string, error) {
	resp, err := s.client.Get(ctx, "/stripe-config/")
	if err != nil {
		return "", err
	}
	var out struct {
		PublishableKey string `json:"publishableKey"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	return out.PublishableKey, nil
}

// PaymentIntent bundles intent creation and processor config into the
// Intent the confirmer needs.
func (s *Service) PaymentIntent(ctx context.Context, id int64) (payment.Intent, error) {
	secret, err := s.CreatePaymentIntent(ctx, id)
	if err != nil {
		return payment.Intent{}, err
	}
	key, err := s.ProcessorConfig(ctx)
	if err != nil {
		return payment.Intent{}, err
	}
	return payment.Intent{AppointmentID: id, ClientSecret: secret, PublishableKey: key}, nil
}
