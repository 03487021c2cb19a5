// Package users manages the accounts that own short links.
package users

import (
	"context"
	"errors"
	"time"
)

// User is a registered account.
type User struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrInvalidInput  = errors.New("invalid email address")
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrUnauthorized  = errors.New("unknown email")
)

// Repository persists users. CreateUser must reject a duplicate email with
// ErrAlreadyExists; lookups return ErrNotFound.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}
