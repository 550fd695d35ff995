package store

import (
	"context"
	"errors"

	"netcheck/pkg/model"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRegistrationClosed = errors.New("registration closed")
)

// UserStore holds technician accounts for the controller.
type UserStore interface {
	// CreateFirst creates the initial admin account and fails with
	// ErrRegistrationClosed once any account exists.
	CreateFirst(ctx context.Context, u model.User) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Count(ctx context.Context) (int64, error)
}

// SubmissionStore is the central, append-only log of checklists received
// from devices.
type SubmissionStore interface {
	Append(ctx context.Context, s model.Submission) error
	// List returns up to limit submissions, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]model.Submission, error)
}
