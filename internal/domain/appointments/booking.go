package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/payment"
)

// PaymentError wraps a payment failure and carries the reservation it
// stranded. The reservation stays pending so the payment can be retried or
// the slot released.
type PaymentError struct {
	Appointment *Appointment
	Err         error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment for appointment %d failed: %v", e.Appointment.ID, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// BookingFlow runs the two-phase booking: reserve a pending slot, then
// collect payment through the processor and record it.
type BookingFlow struct {
	svc       *Service
	confirmer payment.Confirmer
	logger    zerolog.Logger
}

func NewBookingFlow(svc *Service, confirmer payment.Confirmer, logger zerolog.Logger) *BookingFlow {
	return &BookingFlow{svc: svc, confirmer: confirmer, logger: logger}
}

// Book reserves and pays in one go. On a payment failure it returns a
// *PaymentError holding the pending reservation; the caller decides whether
// to Abort it or retry with Pay.
func (f *BookingFlow) Book(ctx context.Context, input BookingInput) (*Appointment, error) {
	appt, err := f.svc.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	f.logger.Info().Int64("appointment_id", appt.ID).Msg("reservation created, collecting payment")

	paid, err := f.Pay(ctx, appt.ID)
	if err != nil {
		return nil, &PaymentError{Appointment: appt, Err: err}
	}
	return paid, nil
}

// Pay runs the payment leg for an existing reservation: open an intent,
// confirm with the processor, then record the fee as collected.
func (f *BookingFlow) Pay(ctx context.Context, id int64) (*Appointment, error) {
	intent, err := f.svc.PaymentIntent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.confirmer.Confirm(ctx, intent); err != nil {
		return nil, err
	}
	appt, err := f.svc.Pay(ctx, id)
	if err != nil {
		return nil, err
	}
	f.logger.Info().Int64("appointment_id", id).Msg("payment recorded")
	return appt, nil
}

// Abort releases a stranded reservation. Cancelling twice is safe.
func (f *BookingFlow) Abort(ctx context.Context, id int64) error {
	if err := f.svc.Cancel(ctx, id); err != nil {
		return fmt.Errorf("release reservation %d: %w", id, err)
	}
	return nil
}

// AsPaymentError extracts a *PaymentError from err, if present.
func AsPaymentError(err error) (*PaymentError, bool) {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
