package repository

import (
	"context"
	"errors"

	"github.com/UdayIge/User-Management-System/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// ListParams is the pagination/search descriptor built from a list query.
// Search is matched as a case-insensitive substring across firstName,
// lastName, email, mobile and location.
type ListParams struct {
	Search string
	Skip   int64
	Limit  int64
}

// UserRepository is the record store for User documents. Implementations
// manage createdAt/updatedAt themselves.
type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
	// List returns one page of users, newest first, plus the total count
	// matching the search filter.
	List(ctx context.Context, p ListParams) ([]models.User, int64, error)
	// All returns the full unpaginated set, newest first.
	All(ctx context.Context) ([]models.User, error)
}
