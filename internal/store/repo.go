package store

import (
	"context"
	"errors"
	"time"

	"github.com/ykvlv/mood-bot/internal/domain"
)

// ErrNotFound is returned when a user row does not exist.
var ErrNotFound = errors.New("user not found")

// Repo defines storage operations for users, schedules and mood marks.
type Repo interface {
	// CreateUser inserts an inactive user row with unset schedule fields.
	CreateUser(ctx context.Context, telegramID int64) error
	// GetUser returns a user's settings or ErrNotFound.
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
	// ListActive returns every user with the active flag set.
	ListActive(ctx context.Context) ([]domain.User, error)

	SetWindow(ctx context.Context, telegramID int64, startHour, endHour, minute int) error
	SetFrequency(ctx context.Context, telegramID int64, frequency int) error
	SetActive(ctx context.Context, telegramID int64, active bool) error

	// AddMark appends a mood rating and returns its id.
	AddMark(ctx context.Context, telegramID int64, value int, at time.Time) (int64, error)
	// ListMarks returns a user's marks with created_at in [from, to), ordered by time.
	ListMarks(ctx context.Context, telegramID int64, from, to time.Time) ([]domain.Mark, error)
	// ListUsersWithMarks returns ids of users that recorded at least one
	// mark in [from, to).
	ListUsersWithMarks(ctx context.Context, from, to time.Time) ([]int64, error)

	Close() error
}
