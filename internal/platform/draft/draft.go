// Package draft persists half-written prescriptions per patient, so a doctor
// interrupted mid-order picks up where they left off.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Prescription is the saved work-in-progress for one patient.
type Prescription struct {
	PatientID  int64  `json:"patient_id"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Directions string `json:"directions"`
}

// Store keeps one draft file per patient under dir.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the draft directory under the user config dir.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "carebook", "drafts"), nil
}

func (s *Store) path(patientID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("prescription-%d.json", patientID))
}

// Save writes the draft for its patient, replacing any previous one.
func (s *Store) Save(d Prescription) error {
	if d.PatientID == 0 {
		return errors.New("draft needs a patient id")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create draft dir: %w", err)
	}
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.WriteFile(s.path(d.PatientID), raw, 0o600); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

// Load returns the draft for a patient, or ok=false when none exists.
func (s *Store) Load(patientID int64) (Prescription, bool, error) {
	raw, err := os.ReadFile(s.path(patientID))
	if errors.Is(err, os.ErrNotExist) {
		return Prescription{}, false, nil
	}
	if err != nil {
		return Prescription{}, false, fmt.Errorf("read draft: %w", err)
	}
	var d Prescription
	if err := json.Unmarshal(raw, &d); err != nil {
		return Prescription{}, false, fmt.Errorf("parse draft: %w", err)
	}
	return d, true, nil
}

// Clear removes a patient's draft. Clearing a missing draft is fine.
func (s *Store) Clear(patientID int64) error {
	if err := os.Remove(s.path(patientID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove draft: %w", err)
	}
	return nil
}
