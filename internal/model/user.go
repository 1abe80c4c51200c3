package model

import (
	"strings"
	"time"

	"github.com/deppfellow/gastro-routes/internal/validation"
)

// User is a row of the users table. The password hash never leaves the
// server.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Name           string    `db:"name" json:"name"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// UserWithAppointments is the detail view of a user.
type UserWithAppointments struct {
	User
	Appointments []Appointment `json:"appointments"`
}

// NewUser is what the repository inserts.
type NewUser struct {
	Email          string `db:"email"`
	Name           string `db:"name"`
	HashedPassword string `db:"hashed_password"`
}

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *RegisterUserRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

// LoginResponse confirms credentials. No session or token is issued.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type ListUsersRequest struct {
	Pagination
}

func (r *ListUsersRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return r.validatePage()
}

// UserIDRequest addresses a single user by path id.
type UserIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (r *UserIDRequest) Validate() error {
	return validation.Struct(r)
}
