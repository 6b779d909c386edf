package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/carebook/carebook/internal/domain/appointments"
)

func TestPrintAppointments_ShowsDeclineReason(t *testing.T) {
	var buf bytes.Buffer
	err := printAppointments(&buf, []appointments.Appointment{
		{
			ID: 7, Date: "2026-09-01", TokenNumber: 1,
			Patient: "alice", Doctor: "drbob",
			Status:        appointments.StatusCancelled,
			DeclineReason: "double booked",
			PaymentStatus: appointments.PaymentPending,
			Reason:        "checkup",
		},
	})
	if err != nil {
		t.Fatalf("printAppointments: %v", err)
	}
	if !strings.Contains(buf.String(), `declined ("double booked")`) {
		t.Errorf("decline reason not rendered:\n%s", buf.String())
	}
}

func TestPrintAppointments_PlainCancelStaysCancelled(t *testing.T) {
	var buf bytes.Buffer
	err := printAppointments(&buf, []appointments.Appointment{
		{
			ID: 8, Date: "2026-09-01", TokenNumber: 2,
			Patient: "alice", Doctor: "drbob",
			Status:        appointments.StatusCancelled,
			PaymentStatus: appointments.PaymentPending,
			Reason:        "checkup",
		},
	})
	if err != nil {
		t.Fatalf("printAppointments: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "declined") {
		t.Errorf("patient-cancelled row must not read as declined:\n%s", out)
	}
	if !strings.Contains(out, "cancelled") {
		t.Errorf("expected cancelled status:\n%s", out)
	}
}

func TestPrintAppointments_MarksTentativeRows(t *testing.T) {
	var buf bytes.Buffer
	err := printAppointments(&buf, []appointments.Appointment{
		{
			ID: 9, Date: "2026-09-01", TokenNumber: 3,
			Patient: "alice", Doctor: "drbob",
			Status:        appointments.StatusConfirmed,
			PaymentStatus: appointments.PaymentPaid,
			Reason:        "follow-up",
			Tentative:     true,
		},
	})
	if err != nil {
		t.Fatalf("printAppointments: %v", err)
	}
	if !strings.Contains(buf.String(), "confirmed*") {
		t.Errorf("tentative row not marked:\n%s", buf.String())
	}
}
