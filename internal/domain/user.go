package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the owner view embedded in profile reads.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UserRepository finders return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	UpdateName(ctx context.Context, id, name string) (*User, error)
	Delete(ctx context.Context, id string) error
}

type Repos struct {
	Users    UserRepository
	Profiles ProfileRepository
}

// UnitOfWork runs fn against repositories bound to a single store transaction.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(r Repos) error) error
}
