package pharmacy_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/identity"
	"github.com/carebook/carebook/internal/domain/notifications"
	"github.com/carebook/carebook/internal/domain/pharmacy"
	"github.com/carebook/carebook/internal/platform/api"
	"github.com/carebook/carebook/internal/platform/session"
	"github.com/carebook/carebook/internal/stubserver"
)

type env struct {
	t       *testing.T
	baseURL string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := httptest.NewServer(stubserver.NewServer(stubserver.NewStore(), "test-secret", zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return &env{t: t, baseURL: srv.URL + "/api/accounts"}
}

func (e *env) loginAs(username, password string) (*identity.Service, *api.Client) {
	e.t.Helper()
	sess := session.NewStore(e.t.TempDir()+"/session.json", zerolog.Nop())
	client := api.NewClient(e.baseURL, sess, zerolog.Nop())
	ident := identity.NewService(client, sess, zerolog.Nop())
	if _, err := ident.Login(context.Background(), identity.Credentials{Username: username, Password: password}); err != nil {
		e.t.Fatalf("login %s: %v", username, err)
	}
	return ident, client
}

// seed provisions a doctor, a second doctor, a staff account, and a patient.
func (e *env) seed() (patientID, otherDocID int64) {
	e.t.Helper()
	adminIdent, _ := e.loginAs("admin", "admin123")
	mk := func(username string, role identity.Role) int64 {
		u, err := adminIdent.CreateUser(context.Background(), identity.NewUser{
			Username: username, Email: username + "@x.test", Password: "password123", Role: role,
		})
		if err != nil {
			e.t.Fatalf("create %s: %v", username, err)
		}
		return u.ID
	}
	mk("drbob", identity.RoleDoctor)
	otherDocID = mk("drdee", identity.RoleDoctor)
	mk("carol", identity.RoleStaff)
	patientID = mk("alice", identity.RolePatient)
	return patientID, otherDocID
}

func TestPrescription_WriteQueueDispense(t *testing.T) {
	e := newEnv(t)
	patientID, _ := e.seed()

	_, docClient := e.loginAs("drbob", "password123")
	docSvc := pharmacy.NewService(docClient, zerolog.Nop())
	script, err := docSvc.Create(context.Background(), pharmacy.NewPrescription{
		PatientID: patientID, Medication: "amoxicillin", Dosage: "500mg", Directions: "three times daily",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if script.Status != pharmacy.StatusPending {
		t.Errorf("new prescription should be pending, got %s", script.Status)
	}

	// Staff sees it in the queue and dispenses it.
	_, staffClient := e.loginAs("carol", "password123")
	staffSvc := pharmacy.NewService(staffClient, zerolog.Nop())
	all, err := staffSvc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	queue := pharmacy.Pending(all)
	if len(queue) != 1 || queue[0].ID != script.ID {
		t.Fatalf("unexpected queue %+v", queue)
	}

	dispensed, err := staffSvc.Dispense(context.Background(), script.ID)
	if err != nil {
		t.Fatalf("Dispense: %v", err)
	}
	if dispensed.Status != pharmacy.StatusDispensed {
		t.Errorf("expected dispensed, got %s", dispensed.Status)
	}
	if _, err := staffSvc.Dispense(context.Background(), script.ID); err == nil {
		t.Error("dispensing twice should fail")
	}

	// The patient was notified and sees only their own prescriptions.
	_, patientClient := e.loginAs("alice", "password123")
	patientSvc := pharmacy.NewService(patientClient, zerolog.Nop())
	mine, err := patientSvc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(mine))
	}
	notes, err := notifications.NewService(patientClient, zerolog.Nop()).List(context.Background())
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications.Unread(notes)) != 2 {
		t.Errorf("expected prescription and dispense notifications, got %+v", notes)
	}
}

func TestPrescription_OnlyDoctorsWrite(t *testing.T) {
	e := newEnv(t)
	patientID, _ := e.seed()

	_, staffClient := e.loginAs("carol", "password123")
	svc := pharmacy.NewService(staffClient, zerolog.Nop())
	_, err := svc.Create(context.Background(), pharmacy.NewPrescription{
		PatientID: patientID, Medication: "x", Dosage: "1mg",
	})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestReferral_NotifiesTargetDoctor(t *testing.T) {
	e := newEnv(t)
	patientID, otherDocID := e.seed()

	_, docClient := e.loginAs("drbob", "password123")
	svc := pharmacy.NewService(docClient, zerolog.Nop())
	if err := svc.Refer(context.Background(), pharmacy.Referral{
		PatientID: patientID, ToDoctorID: otherDocID, Reason: "needs a cardiology consult",
	}); err != nil {
		t.Fatalf("Refer: %v", err)
	}

	_, otherClient := e.loginAs("drdee", "password123")
	notes, err := notifications.NewService(otherClient, zerolog.Nop()).List(context.Background())
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected a referral notification, got %+v", notes)
	}
}
