package notifications_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/appointments"
	"github.com/carebook/carebook/internal/domain/identity"
	"github.com/carebook/carebook/internal/domain/notifications"
	"github.com/carebook/carebook/internal/platform/api"
	"github.com/carebook/carebook/internal/platform/session"
	"github.com/carebook/carebook/internal/stubserver"
)

func newBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(stubserver.NewServer(stubserver.NewStore(), "test-secret", zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api/accounts"
}

func login(t *testing.T, baseURL, username, password string) (*identity.Service, *api.Client) {
	t.Helper()
	sess := session.NewStore(t.TempDir()+"/session.json", zerolog.Nop())
	client := api.NewClient(baseURL, sess, zerolog.Nop())
	ident := identity.NewService(client, sess, zerolog.Nop())
	if _, err := ident.Login(context.Background(), identity.Credentials{Username: username, Password: password}); err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return ident, client
}

func TestNotifications_FeedAndAcknowledge(t *testing.T) {
	baseURL := newBackend(t)

	adminIdent, _ := login(t, baseURL, "admin", "admin123")
	doc, err := adminIdent.CreateUser(context.Background(), identity.NewUser{
		Username: "drbob", Email: "drbob@x.test", Password: "password123", Role: identity.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	if _, err := adminIdent.CreateUser(context.Background(), identity.NewUser{
		Username: "alice", Email: "alice@x.test", Password: "password123", Role: identity.RolePatient,
	}); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	// A booking writes a notification for the doctor.
	_, patientClient := login(t, baseURL, "alice", "password123")
	apptSvc := appointments.NewService(patientClient, zerolog.Nop())
	if _, err := apptSvc.Create(context.Background(), appointments.BookingInput{
		DoctorID: doc.ID, Date: "2026-09-01", Reason: "checkup",
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	_, docClient := login(t, baseURL, "drbob", "password123")
	svc := notifications.NewService(docClient, zerolog.Nop())
	notes, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 || notes[0].IsRead {
		t.Fatalf("expected one unread notification, got %+v", notes)
	}

	if err := svc.MarkRead(context.Background(), notes[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	notes, err = svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notifications.Unread(notes)) != 0 {
		t.Errorf("expected no unread notifications, got %+v", notes)
	}
}

func TestNotifications_CannotReadAnotherUsersFeed(t *testing.T) {
	baseURL := newBackend(t)

	adminIdent, _ := login(t, baseURL, "admin", "admin123")
	doc, err := adminIdent.CreateUser(context.Background(), identity.NewUser{
		Username: "drbob", Email: "drbob@x.test", Password: "password123", Role: identity.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	if _, err := adminIdent.CreateUser(context.Background(), identity.NewUser{
		Username: "alice", Email: "alice@x.test", Password: "password123", Role: identity.RolePatient,
	}); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	_, patientClient := login(t, baseURL, "alice", "password123")
	apptSvc := appointments.NewService(patientClient, zerolog.Nop())
	if _, err := apptSvc.Create(context.Background(), appointments.BookingInput{
		DoctorID: doc.ID, Date: "2026-09-01", Reason: "checkup",
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	// The doctor's notification is invisible to the patient, and the patient
	// cannot acknowledge it either.
	_, docClient := login(t, baseURL, "drbob", "password123")
	docNotes, err := notifications.NewService(docClient, zerolog.Nop()).List(context.Background())
	if err != nil || len(docNotes) != 1 {
		t.Fatalf("doctor feed: %v %+v", err, docNotes)
	}

	patientSvc := notifications.NewService(patientClient, zerolog.Nop())
	patientNotes, err := patientSvc.List(context.Background())
	if err != nil {
		t.Fatalf("patient feed: %v", err)
	}
	if len(patientNotes) != 0 {
		t.Errorf("patient should not see the doctor's feed, got %+v", patientNotes)
	}
	if err := patientSvc.MarkRead(context.Background(), docNotes[0].ID); !api.IsNotFound(err) {
		t.Errorf("expected 404 acknowledging a foreign notification, got %v", err)
	}
}
