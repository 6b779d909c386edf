// Package appointments implements the appointment lifecycle: reservation,
// payment, status transitions, and the cached list each role works from.
package appointments

// Status is an appointment's lifecycle stage.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus tracks whether the visit fee has been collected.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Appointment mirrors the backend's serialized record. Patient and Doctor
// are usernames; the ids ride alongside for calls that need them.
//
// Tentative is client-side only: it marks a local optimistic update that has
// not been confirmed by a refresh yet.
type Appointment struct {
	ID            int64         `json:"id"`
	Patient       string        `json:"patient"`
	PatientID     int64         `json:"patient_id"`
	Doctor        string        `json:"doctor"`
	DoctorID      int64         `json:"doctor_id"`
	Date          string        `json:"date"`
	Status        Status        `json:"status"`
	Reason        string        `json:"reason"`
	Diagnosis     string        `json:"diagnosis"`
	TokenNumber   int           `json:"token_number"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Vitals        string        `json:"vitals"`
	DeclineReason string        `json:"decline_reason"`

	Tentative bool `json:"-"`
}

// BookingInput is a reservation request.
type BookingInput struct {
	DoctorID int64  `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// StatusUpdate is a transition request. An empty Status patches fields only
// (staff record vitals without moving the appointment). DeclineReason is
// mandatory when cancelling as a doctor, Diagnosis when completing; Validate
// enforces both.
type StatusUpdate struct {
	Status        Status `json:"status,omitempty"`
	DeclineReason string `json:"decline_reason,omitempty"`
	Vitals        string `json:"vitals,omitempty"`
	Diagnosis     string `json:"diagnosis,omitempty"`
}
