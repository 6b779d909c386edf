// Package lab covers lab reports: staff file them as a batch of test rows
// for one patient, patients read their own.
package lab

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/api"
)

// Report is one filed test result. Patient and Doctor are usernames; Doctor
// is whoever filed the report.
type Report struct {
	ID             int64  `json:"id"`
	Patient        string `json:"patient"`
	PatientID      int64  `json:"patient_id"`
	Doctor         string `json:"doctor"`
	TestName       string `json:"test_name"`
	ObservedValue  string `json:"observed_value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
	ReportDate     string `json:"report_date"`
}

// Row is one test result within a batch being filed.
type Row struct {
	TestName       string `json:"test_name" validate:"required"`
	ObservedValue  string `json:"observed_value" validate:"required"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
}

// NewReport is a batch of test rows filed for one patient in one go.
type NewReport struct {
	PatientID int64 `json:"patient_id" validate:"required"`
	Reports   []Row `json:"reports" validate:"required,min=1,dive"`
}

type Service struct {
	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, validate: validator.New(), logger: logger}
}

// List returns the reports visible to the caller: their own for patients,
// all of them for clinical roles.
func (s *Service) List(ctx context.Context) ([]Report, error) {
	resp, err := s.client.Get(ctx, "/lab-reports/")
	if err != nil {
		return nil, err
	}
	var reports []Report
	if err := resp.Decode(&reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Create files a batch of test results for a patient and returns the rows
// as stored.
func (s *Service) Create(ctx context.Context, nr NewReport) ([]Report, error) {
	if err := s.validate.Struct(nr); err != nil {
		return nil, fmt.Errorf("validate report batch: %w", err)
	}
	resp, err := s.client.Post(ctx, "/lab-reports/create/", nr)
	if err != nil {
		return nil, err
	}
	var reports []Report
	if err := resp.Decode(&reports); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("patient_id", nr.PatientID).Int("rows", len(reports)).Msg("lab reports filed")
	return reports, nil
}
