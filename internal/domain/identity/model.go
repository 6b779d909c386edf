// Package identity covers authentication, registration, profiles, and the
// admin-facing user directory.
package identity

import "fmt"

// Role is the access tier a user logs in with.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string from the backend or the command line.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleStaff, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is a directory entry. Patient-specific fields are empty for other
// roles; IsAvailable only means something for doctors.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	Specialization string `json:"specialization,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Address        string `json:"address,omitempty"`
	Age            string `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	BloodGroup     string `json:"blood_group,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	IsAvailable    bool   `json:"is_available"`
}

// Doctor is the subset of a doctor's record shown to patients when booking.
type Doctor struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Specialization string `json:"specialization"`
	IsAvailable    bool   `json:"is_available"`
}

// Credentials is a login request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

// Registration is self sign-up. Only patients can register themselves;
// the backend assigns the role.
type Registration struct {
	Username       string `json:"username" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	PhoneNumber    string `json:"phone_number" validate:"required"`
	Address        string `json:"address" validate:"required"`
	Age            string `json:"age" validate:"required,numeric"`
	Gender         string `json:"gender" validate:"required"`
	BloodGroup     string `json:"blood_group" validate:"required"`
	MedicalHistory string `json:"medical_history"`
}

// NewUser is an admin-created account of any role.
type NewUser struct {
	Username       string `json:"username" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           Role   `json:"role" validate:"required,oneof=patient doctor staff admin"`
	Specialization string `json:"specialization,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
}

// UserPatch is a partial admin update. Nil fields are left untouched.
type UserPatch struct {
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Role           *Role   `json:"role,omitempty" validate:"omitempty,oneof=patient doctor staff admin"`
	Specialization *string `json:"specialization,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	IsAvailable    *bool   `json:"is_available,omitempty"`
}

// ProfilePatch is a self-service update to the caller's own profile.
type ProfilePatch struct {
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Address        *string `json:"address,omitempty"`
	Age            *string `json:"age,omitempty" validate:"omitempty,numeric"`
	Gender         *string `json:"gender,omitempty"`
	BloodGroup     *string `json:"blood_group,omitempty"`
	MedicalHistory *string `json:"medical_history,omitempty"`
}

// PasswordReset carries the two halves of the reset flow.
type PasswordReset struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token,omitempty"`
	NewPassword string `json:"new_password,omitempty" validate:"omitempty,min=8"`
}
