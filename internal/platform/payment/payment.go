// Package payment confirms card payments against the processor. The backend
// creates the payment intent; this package only drives the confirmation leg
// the browser widget would normally perform.
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Intent is everything needed to confirm one appointment's payment.
type Intent struct {
	AppointmentID  int64
	ClientSecret   string
	PublishableKey string
}

// Confirmer completes a payment intent with the processor.
type Confirmer interface {
	Confirm(ctx context.Context, intent Intent) error
}

// StripeConfirmer confirms intents against Stripe using the publishable key
// and a test payment method.
type StripeConfirmer struct {
	// PaymentMethod defaults to the test card when empty.
	PaymentMethod string
}

func (s *StripeConfirmer) Confirm(ctx context.Context, intent Intent) error {
	id, err := intentID(intent.ClientSecret)
	if err != nil {
		return err
	}

	sc := &client.API{}
	sc.Init(intent.PublishableKey, nil)

	method := s.PaymentMethod
	if method == "" {
		method = "pm_card_visa"
	}
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(method),
	}
	params.Context = ctx

	pi, err := sc.PaymentIntents.Confirm(id, params)
	if err != nil {
		return fmt.Errorf("confirm payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment not completed, intent status %s", pi.Status)
	}
	return nil
}

// intentID extracts the intent id from a client secret, which has the shape
// pi_xxx_secret_yyy.
func intentID(clientSecret string) (string, error) {
	parts := strings.SplitN(clientSecret, "_secret", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", fmt.Errorf("malformed client secret")
	}
	return parts[0], nil
}
