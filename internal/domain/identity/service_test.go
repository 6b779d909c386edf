package identity_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/identity"
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

func (e *env) stack() (*session.Store, *api.Client, *identity.Service) {
	e.t.Helper()
	sess := session.NewStore(e.t.TempDir()+"/session.json", zerolog.Nop())
	client := api.NewClient(e.baseURL, sess, zerolog.Nop())
	return sess, client, identity.NewService(client, sess, zerolog.Nop())
}

func TestLogin_PersistsSession(t *testing.T) {
	e := newEnv(t)
	sess, _, svc := e.stack()

	result, err := svc.Login(context.Background(), identity.Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Role != identity.RoleAdmin {
		t.Errorf("unexpected role %s", result.Role)
	}
	st, ok := sess.Current()
	if !ok {
		t.Fatal("expected an active session")
	}
	if st.Token != result.Access || st.Role != "admin" || st.Username != "admin" {
		t.Errorf("session mismatch: %+v", st)
	}

	claims, err := sess.Claims()
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if claims.Role != "admin" || claims.ExpiresAt.IsZero() {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestLogin_BadCredentialsLeaveNoSession(t *testing.T) {
	e := newEnv(t)
	sess, _, svc := e.stack()

	_, err := svc.Login(context.Background(), identity.Credentials{Username: "admin", Password: "nope"})
	if err == nil {
		t.Fatal("expected login failure")
	}
	if _, ok := sess.Current(); ok {
		t.Error("failed login must not create a session")
	}
}

func TestRegisterThenLoginAndProfile(t *testing.T) {
	e := newEnv(t)
	_, _, svc := e.stack()

	err := svc.Register(context.Background(), identity.Registration{
		Username: "alice", Email: "alice@x.test", Password: "password123",
		PhoneNumber: "555-0100", Address: "1 Main St", Age: "30",
		Gender: "other", BloodGroup: "O+",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(context.Background(), identity.Credentials{Username: "alice", Password: "password123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	profile, err := svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Role != identity.RolePatient || profile.BloodGroup != "O+" {
		t.Errorf("unexpected profile %+v", profile)
	}

	addr := "2 Oak Ave"
	updated, err := svc.UpdateProfile(context.Background(), identity.ProfilePatch{Address: &addr})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Address != "2 Oak Ave" {
		t.Errorf("address not updated: %+v", updated)
	}
	if updated.BloodGroup != "O+" {
		t.Error("untouched fields must survive a patch")
	}
}

func TestRegister_ValidationRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	_, _, svc := e.stack()

	err := svc.Register(context.Background(), identity.Registration{
		Username: "bob", Email: "not-an-email", Password: "password123",
		PhoneNumber: "555", Address: "x", Age: "30", Gender: "m", BloodGroup: "A+",
	})
	if err == nil {
		t.Error("expected validation error for bad email")
	}
	err = svc.Register(context.Background(), identity.Registration{
		Username: "bob", Email: "bob@x.test", Password: "short",
		PhoneNumber: "555", Address: "x", Age: "30", Gender: "m", BloodGroup: "A+",
	})
	if err == nil {
		t.Error("expected validation error for short password")
	}
}

func TestAdmin_UserLifecycle(t *testing.T) {
	e := newEnv(t)
	_, _, svc := e.stack()
	if _, err := svc.Login(context.Background(), identity.Credentials{Username: "admin", Password: "admin123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	doc, err := svc.CreateUser(context.Background(), identity.NewUser{
		Username: "drbob", Email: "drbob@x.test", Password: "password123",
		Role: identity.RoleDoctor, Specialization: "cardiology",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !doc.IsAvailable {
		t.Error("new doctors should start available")
	}

	spec := "neurology"
	updated, err := svc.UpdateUser(context.Background(), doc.ID, identity.UserPatch{Specialization: &spec})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Specialization != "neurology" {
		t.Errorf("specialization not updated: %+v", updated)
	}

	users, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected admin and doctor, got %d users", len(users))
	}

	if err := svc.DeleteUser(context.Background(), doc.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := svc.UserDetail(context.Background(), doc.ID); !api.IsNotFound(err) {
		t.Errorf("expected 404 after delete, got %v", err)
	}
}

func TestDoctors_ListAndAvailabilityToggle(t *testing.T) {
	e := newEnv(t)
	_, _, adminSvc := e.stack()
	if _, err := adminSvc.Login(context.Background(), identity.Credentials{Username: "admin", Password: "admin123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := adminSvc.CreateUser(context.Background(), identity.NewUser{
		Username: "drbob", Email: "drbob@x.test", Password: "password123",
		Role: identity.RoleDoctor, Specialization: "cardiology",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, _, docSvc := e.stack()
	if _, err := docSvc.Login(context.Background(), identity.Credentials{Username: "drbob", Password: "password123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	available, err := docSvc.ToggleAvailability(context.Background())
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if available {
		t.Error("toggle should flip the initial true to false")
	}

	doctors, err := adminSvc.Doctors(context.Background())
	if err != nil {
		t.Fatalf("Doctors: %v", err)
	}
	if len(doctors) != 1 || doctors[0].IsAvailable {
		t.Errorf("unexpected doctors list %+v", doctors)
	}
}

func TestPasswordReset_EndToEnd(t *testing.T) {
	e := newEnv(t)
	_, client, svc := e.stack()

	if err := svc.Register(context.Background(), identity.Registration{
		Username: "alice", Email: "alice@x.test", Password: "password123",
		PhoneNumber: "555-0100", Address: "1 Main St", Age: "30",
		Gender: "other", BloodGroup: "O+",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.RequestPasswordReset(context.Background(), "alice@x.test"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	// The dev backend hands the token back in the response body.
	resp, err := client.PostAnon(context.Background(), "/request-reset/", identity.PasswordReset{Email: "alice@x.test"})
	if err != nil {
		t.Fatalf("request-reset: %v", err)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := resp.Decode(&out); err != nil || out.Token == "" {
		t.Fatalf("no reset token in response: %v", err)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), identity.PasswordReset{
		Email: "alice@x.test", Token: out.Token, NewPassword: "newpassword1",
	}); err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}
	if _, err := svc.Login(context.Background(), identity.Credentials{Username: "alice", Password: "newpassword1"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
