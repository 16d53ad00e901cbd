package catalog

import (
	"net/mail"
	"strings"
	"time"

	"github.com/erp/reconciler/internal/domain/shared"
)

// User owns accounts and products.
type User struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user. The password must already be hashed.
func NewUser(email, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidEmail
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}, nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}
