package appointments_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/appointments"
)

func TestCollection_BookAndRefresh(t *testing.T) {
	e := newEnv(t)
	docID := e.seedClinic()
	_, _, svc := e.loginAs("alice", "password123")

	col := appointments.NewCollection(svc, zerolog.Nop())
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(col.Items()) != 0 {
		t.Fatal("expected empty list")
	}

	appt, err := col.Book(context.Background(), appointments.BookingInput{
		DoctorID: docID, Date: "2026-09-01", Reason: "checkup",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if len(col.Items()) != 1 {
		t.Fatal("booked appointment should appear in the cache")
	}

	if err := col.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, ok := col.Get(appt.ID)
	if !ok {
		t.Fatal("appointment missing after refresh")
	}
	if got.Status != appointments.StatusPending {
		t.Errorf("unexpected status %s", got.Status)
	}
}

func TestCollection_PatchLocalMarksTentativeUntilRefresh(t *testing.T) {
	e := newEnv(t)
	docID := e.seedClinic()
	_, _, svc := e.loginAs("alice", "password123")

	col := appointments.NewCollection(svc, zerolog.Nop())
	appt, err := col.Book(context.Background(), appointments.BookingInput{
		DoctorID: docID, Date: "2026-09-01", Reason: "checkup",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	// Optimistic local cancel, then the real call, then refresh.
	if !col.PatchLocal(appt.ID, func(a *appointments.Appointment) {
		a.Status = appointments.StatusCancelled
	}) {
		t.Fatal("PatchLocal found nothing")
	}
	got, _ := col.Get(appt.ID)
	if !got.Tentative || got.Status != appointments.StatusCancelled {
		t.Errorf("expected tentative cancelled, got %+v", got)
	}

	if err := svc.Cancel(context.Background(), appt.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := col.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, _ = col.Get(appt.ID)
	if got.Tentative {
		t.Error("refresh should clear the tentative flag")
	}
	if got.Status != appointments.StatusCancelled {
		t.Errorf("server should confirm the cancel, got %s", got.Status)
	}
}

func TestCollection_PatchLocalUnknownID(t *testing.T) {
	e := newEnv(t)
	e.seedClinic()
	_, _, svc := e.loginAs("alice", "password123")

	col := appointments.NewCollection(svc, zerolog.Nop())
	if col.PatchLocal(999, func(a *appointments.Appointment) {}) {
		t.Error("PatchLocal should report a miss")
	}
}

func TestCollection_FailedRefreshKeepsCache(t *testing.T) {
	e := newEnv(t)
	docID := e.seedClinic()
	sess, _, svc := e.loginAs("alice", "password123")

	col := appointments.NewCollection(svc, zerolog.Nop())
	if _, err := col.Book(context.Background(), appointments.BookingInput{
		DoctorID: docID, Date: "2026-09-01", Reason: "checkup",
	}); err != nil {
		t.Fatalf("Book: %v", err)
	}

	// Break the credentials so the next refresh fails.
	if err := sess.Login("broken-token", "patient", "alice"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := col.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}
	if len(col.Items()) != 1 {
		t.Error("failed refresh must keep the previous list")
	}
	if col.Loading() {
		t.Error("loading flag should be reset after a failed refresh")
	}
}
