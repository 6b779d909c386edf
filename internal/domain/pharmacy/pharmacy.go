// Package pharmacy covers prescriptions end to end: doctors write them,
// pharmacy staff watch the queue and dispense, and referrals ride along as
// the other doctor-to-doctor handoff.
package pharmacy

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/api"
)

// Prescription is a written order. Status is "pending" until dispensed.
type Prescription struct {
	ID         int64  `json:"id"`
	Patient    string `json:"patient"`
	PatientID  int64  `json:"patient_id"`
	Doctor     string `json:"doctor"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Directions string `json:"directions"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

const (
	StatusPending   = "pending"
	StatusDispensed = "dispensed"
)

// NewPrescription is an order being written.
type NewPrescription struct {
	PatientID  int64  `json:"patient_id" validate:"required"`
	Medication string `json:"medication" validate:"required"`
	Dosage     string `json:"dosage" validate:"required"`
	Directions string `json:"directions"`
}

// Referral hands a patient to another doctor.
type Referral struct {
	PatientID  int64  `json:"patient_id" validate:"required"`
	ToDoctorID int64  `json:"to_doctor_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

type Service struct {
	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, validate: validator.New(), logger: logger}
}

// List returns prescriptions visible to the caller: their own for patients,
// everything for clinical and pharmacy roles.
func (s *Service) List(ctx context.Context) ([]Prescription, error) {
	resp, err := s.client.Get(ctx, "/prescriptions/")
	if err != nil {
		return nil, err
	}
	var scripts []Prescription
	if err := resp.Decode(&scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// Pending filters a list down to the dispensing queue.
func Pending(scripts []Prescription) []Prescription {
	var out []Prescription
	for _, p := range scripts {
		if p.Status == StatusPending {
			out = append(out, p)
		}
	}
	return out
}

// Create writes a prescription.
func (s *Service) Create(ctx context.Context, np NewPrescription) (*Prescription, error) {
	if err := s.validate.Struct(np); err != nil {
		return nil, fmt.Errorf("validate prescription: %w", err)
	}
	resp, err := s.client.Post(ctx, "/prescriptions/create/", np)
	if err != nil {
		return nil, err
	}
	var p Prescription
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("prescription_id", p.ID).Str("medication", p.Medication).Msg("prescription written")
	return &p, nil
}

// Dispense marks a prescription as filled.
func (s *Service) Dispense(ctx context.Context, id int64) (*Prescription, error) {
	resp, err := s.client.Post(ctx, fmt.Sprintf("/prescriptions/%d/dispense/", id), nil)
	if err != nil {
		return nil, err
	}
	var p Prescription
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Refer sends a patient to another doctor.
func (s *Service) Refer(ctx context.Context, ref Referral) error {
	if err := s.validate.Struct(ref); err != nil {
		return fmt.Errorf("validate referral: %w", err)
	}
	_, err := s.client.Post(ctx, "/referrals/create/", ref)
	return err
}
