// Package identity holds pure domain models for the auth core: verified
// identity claims and persistent user records. Nothing here depends on
// transport or storage concerns.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two authorization levels this system knows about.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AuthMethod tags how a user record was established.
type AuthMethod string

const (
	AuthMethodGoogle   AuthMethod = "google"
	AuthMethodPassword AuthMethod = "password"
)

// VerifiedClaims is the validated, trusted projection of an external identity
// assertion. It is produced only by the credential verifier; constructing one
// from unverified input defeats the trust boundary.
type VerifiedClaims struct {
	Subject string // provider-scoped stable user identifier
	Email   string
	Name    string
	Avatar  string
}

// User is a persistent identity record, keyed by email (unique).
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Avatar       string
	Role         Role
	GoogleID     string // linked external subject identifier, "" until linked
	AuthMethod   AuthMethod
	PasswordHash string // set only for password-auth users
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the record carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// View is the JSON projection of a user returned by the HTTP surface.
// The password hash never leaves the domain layer.
type View struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role"`
}

// ToView maps a user record to its public projection.
func (u *User) ToView() View {
	return View{
		ID:     u.ID.String(),
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   string(u.Role),
	}
}
