package identity

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/api"
)

// SessionWriter is the part of the session store the service drives on
// login and logout.
type SessionWriter interface {
	Login(token, role, username string) error
	Logout() error
}

// Service performs all identity operations against the backend.
type Service struct {
	client   *api.Client
	session  SessionWriter
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(client *api.Client, session SessionWriter, logger zerolog.Logger) *Service {
	return &Service{
		client:   client,
		session:  session,
		validate: validator.New(),
		logger:   logger,
	}
}

// Login authenticates and, on success, persists the session. The access
// token is the only one kept; a 401 later simply ends the session.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := s.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("validate credentials: %w", err)
	}

	resp, err := s.client.PostAnon(ctx, "/login/", creds)
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if _, err := ParseRole(string(result.Role)); err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}
	if err := s.session.Login(result.Access, string(result.Role), result.Username); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.logger.Info().Str("username", result.Username).Str("role", string(result.Role)).Msg("logged in")
	return &result, nil
}

// Logout discards the local session. There is no server-side call: the
// backend is stateless about sessions and the token simply stops being sent.
func (s *Service) Logout() error {
	return s.session.Logout()
}

// Register signs up a new patient account.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	if err := s.validate.Struct(reg); err != nil {
		return fmt.Errorf("validate registration: %w", err)
	}
	_, err := s.client.PostAnon(ctx, "/register/", reg)
	return err
}

// RequestPasswordReset asks the backend to issue a reset token for the
// account behind the email address.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	req := PasswordReset{Email: email}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("validate reset request: %w", err)
	}
	_, err := s.client.PostAnon(ctx, "/request-reset/", req)
	return err
}

// ConfirmPasswordReset exchanges a reset token for a new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, reset PasswordReset) error {
	if err := s.validate.Struct(reset); err != nil {
		return fmt.Errorf("validate reset: %w", err)
	}
	if reset.Token == "" || reset.NewPassword == "" {
		return fmt.Errorf("reset token and new password are required")
	}
	_, err := s.client.PostAnon(ctx, "/confirm-reset/", reset)
	return err
}

// Profile fetches the caller's own record.
func (s *Service) Profile(ctx context.Context) (*User, error) {
	resp, err := s.client.Get(ctx, "/profile/")
	if err != nil {
		return nil, err
	}
	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile patches the caller's own record.
func (s *Service) UpdateProfile(ctx context.Context, patch ProfilePatch) (*User, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("validate profile update: %w", err)
	}
	resp, err := s.client.Patch(ctx, "/profile/", patch)
	if err != nil {
		return nil, err
	}
	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Doctors lists the bookable doctors. Patients use it to pick a doctor when
// reserving a slot.
func (s *Service) Doctors(ctx context.Context) ([]Doctor, error) {
	resp, err := s.client.Get(ctx, "/doctors/")
	if err != nil {
		return nil, err
	}
	var doctors []Doctor
	if err := resp.Decode(&doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// ToggleAvailability flips the calling doctor's availability flag and
// returns the new value.
func (s *Service) ToggleAvailability(ctx context.Context) (bool, error) {
	resp, err := s.client.Post(ctx, "/doctor/toggle-availability/", nil)
	if err != nil {
		return false, err
	}
	var out struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := resp.Decode(&out); err != nil {
		return false, err
	}
	return out.IsAvailable, nil
}

// Users lists every account. Admin only; the backend enforces that.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	resp, err := s.client.Get(ctx, "/users/")
	if err != nil {
		return nil, err
	}
	var users []User
	if err := resp.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserDetail fetches a single account by id.
func (s *Service) UserDetail(ctx context.Context, id int64) (*User, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("/users/%d/", id))
	if err != nil {
		return nil, err
	}
	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser provisions an account of any role.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	if err := s.validate.Struct(nu); err != nil {
		return nil, fmt.Errorf("validate new user: %w", err)
	}
	resp, err := s.client.Post(ctx, "/users/create/", nu)
	if err != nil {
		return nil, err
	}
	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser patches an account by id.
func (s *Service) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*User, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("validate user update: %w", err)
	}
	resp, err := s.client.Patch(ctx, fmt.Sprintf("/users/%d/update/", id), patch)
	if err != nil {
		return nil, err
	}
	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes an account by id.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/users/%d/delete/", id))
	return err
}
