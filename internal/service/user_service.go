package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/UdayIge/User-Management-System/internal/apperr"
	"github.com/UdayIge/User-Management-System/internal/models"
	"github.com/UdayIge/User-Management-System/internal/repository"
	"github.com/UdayIge/User-Management-System/internal/validation"
)

type UserService struct {
	repo  repository.UserRepository
	rules *validation.Ruleset
	log   *zap.SugaredLogger
}

func NewUserService(repo repository.UserRepository, rules *validation.Ruleset, log *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, rules: rules, log: log}
}

// Create validates the field set, enforces email uniqueness and persists a
// new user. profilePath is the stored path of the uploaded image, or "" when
// none was uploaded.
func (s *UserService) Create(ctx context.Context, form models.UserForm, profilePath string) (*models.User, error) {
	if violations := s.rules.Create(form); len(violations) > 0 {
		return nil, apperr.Validation("Validation failed", violations...)
	}

	email := normalizeEmail(*form.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("User with this email already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Internal(err)
	}

	u := &models.User{
		FirstName: strings.TrimSpace(deref(form.FirstName)),
		LastName:  strings.TrimSpace(deref(form.LastName)),
		Email:     email,
		Mobile:    deref(form.Mobile),
		Gender:    models.Gender(deref(form.Gender)),
		Status:    models.StatusActive,
		Profile:   profilePath,
		Location:  strings.TrimSpace(deref(form.Location)),
	}
	if st := deref(form.Status); st != "" {
		u.Status = models.Status(st)
	}

	if err := s.repo.Insert(ctx, u); err != nil {
		// the unique index backstops the check-then-act window above
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, apperr.Internal(err)
	}
	s.log.Infow("user created", "id", u.ID.Hex(), "email", u.Email)
	return u, nil
}

// Update merges the supplied fields onto the stored record. Fields absent
// from the request are untouched. profilePath is nil when the request carried
// no new image; a non-nil value replaces the stored path.
func (s *UserService) Update(ctx context.Context, id string, form models.UserForm, profilePath *string) (*models.User, error) {
	var violations []apperr.FieldError
	if fe := validation.UserID(id); fe != nil {
		violations = append(violations, *fe)
	}
	violations = append(violations, s.rules.Update(form)...)
	if len(violations) > 0 {
		return nil, apperr.Validation("Validation failed", violations...)
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}

	if form.Email != nil {
		email := normalizeEmail(*form.Email)
		if email != u.Email {
			if _, err := s.repo.FindByEmail(ctx, email); err == nil {
				return nil, apperr.Conflict("User with this email already exists")
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return nil, apperr.Internal(err)
			}
		}
		u.Email = email
	}
	if form.FirstName != nil {
		u.FirstName = strings.TrimSpace(*form.FirstName)
	}
	if form.LastName != nil {
		u.LastName = strings.TrimSpace(*form.LastName)
	}
	if form.Mobile != nil {
		u.Mobile = *form.Mobile
	}
	if form.Gender != nil {
		u.Gender = models.Gender(*form.Gender)
	}
	if form.Status != nil && *form.Status != "" {
		u.Status = models.Status(*form.Status)
	}
	if form.Location != nil {
		u.Location = strings.TrimSpace(*form.Location)
	}
	if profilePath != nil {
		u.Profile = *profilePath
	}

	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperr.Conflict("User with this email already exists")
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperr.NotFound("User not found")
		default:
			return nil, apperr.Internal(err)
		}
	}
	s.log.Infow("user updated", "id", u.ID.Hex())
	return u, nil
}

// Delete removes the record permanently. There is no soft delete.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if fe := validation.UserID(id); fe != nil {
		return apperr.Validation("Validation failed", *fe)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}
	s.log.Infow("user deleted", "id", id)
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if fe := validation.UserID(id); fe != nil {
		return nil, apperr.Validation("Validation failed", *fe)
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// List returns one page of users plus the pagination descriptor.
func (s *UserService) List(ctx context.Context, q validation.ListQuery) ([]models.User, models.Pagination, error) {
	limit := clamp(q.Limit, 1, validation.MaxLimit)
	page := q.Page
	if page < 1 {
		page = 1
	}

	users, total, err := s.repo.List(ctx, repository.ListParams{
		Search: q.Search,
		Skip:   int64(page-1) * int64(limit),
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return users, models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
