package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/UdayIge/User-Management-System/internal/apperr"
	"github.com/UdayIge/User-Management-System/internal/models"
)

var mobileRe = regexp.MustCompile(`^[0-9]{10,15}$`)

// Ruleset is the single validation specification consumed by both the
// request-rejection path and the store-write path. All violations for a
// request are collected, not just the first.
type Ruleset struct {
	v *validator.Validate
}

func New() *Ruleset {
	v := validator.New()
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		switch models.Gender(fl.Field().String()) {
		case models.GenderMale, models.GenderFemale, models.GenderNone:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("userstatus", func(fl validator.FieldLevel) bool {
		switch models.Status(fl.Field().String()) {
		case models.StatusActive, models.StatusInActive, "":
			return true
		}
		return false
	})
	return &Ruleset{v: v}
}

// Create checks a full field set. Absent fields count as empty values, so
// required rules fire for them.
func (r *Ruleset) Create(f models.UserForm) []apperr.FieldError {
	var out []apperr.FieldError
	out = appendErr(out, r.check("firstName", deref(f.FirstName), "required,max=50"))
	out = appendErr(out, r.check("lastName", deref(f.LastName), "omitempty,max=50"))
	out = appendErr(out, r.check("email", deref(f.Email), "required,email"))
	out = appendErr(out, r.check("mobile", deref(f.Mobile), "omitempty,mobile"))
	out = appendErr(out, r.check("gender", deref(f.Gender), "gender"))
	out = appendErr(out, r.check("status", deref(f.Status), "userstatus"))
	out = appendErr(out, r.check("location", deref(f.Location), "omitempty,max=200"))
	return out
}

// Update applies the same per-field rules, but only to fields present in the
// request. Absence is a no-op.
func (r *Ruleset) Update(f models.UserForm) []apperr.FieldError {
	var out []apperr.FieldError
	if f.FirstName != nil {
		out = appendErr(out, r.check("firstName", *f.FirstName, "required,max=50"))
	}
	if f.LastName != nil {
		out = appendErr(out, r.check("lastName", *f.LastName, "omitempty,max=50"))
	}
	if f.Email != nil {
		out = appendErr(out, r.check("email", *f.Email, "required,email"))
	}
	if f.Mobile != nil {
		out = appendErr(out, r.check("mobile", *f.Mobile, "omitempty,mobile"))
	}
	if f.Gender != nil {
		out = appendErr(out, r.check("gender", *f.Gender, "gender"))
	}
	if f.Status != nil {
		out = appendErr(out, r.check("status", *f.Status, "userstatus"))
	}
	if f.Location != nil {
		out = appendErr(out, r.check("location", *f.Location, "omitempty,max=200"))
	}
	return out
}

// UserID checks that id is a well-formed store identifier. The lookup itself
// happens later, at the repository.
func UserID(id string) *apperr.FieldError {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return &apperr.FieldError{Field: "id", Message: "Invalid user ID"}
	}
	return nil
}

// ListQuery holds normalized pagination and search parameters.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseListQuery validates and normalizes raw page/limit/search values.
func ParseListQuery(pageStr, limitStr, search string) (ListQuery, []apperr.FieldError) {
	q := ListQuery{Page: 1, Limit: DefaultLimit, Search: strings.TrimSpace(search)}
	var out []apperr.FieldError

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			out = append(out, apperr.FieldError{Field: "page", Message: "Page must be a positive integer"})
		} else {
			q.Page = p
		}
	}
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > MaxLimit {
			out = append(out, apperr.FieldError{Field: "limit", Message: "Limit must be between 1 and 100"})
		} else {
			q.Limit = l
		}
	}
	if len(q.Search) > 100 {
		out = append(out, apperr.FieldError{Field: "search", Message: "Search term too long"})
	}
	return q, out
}

func (r *Ruleset) check(field, value, tag string) *apperr.FieldError {
	err := r.v.Var(value, tag)
	if err == nil {
		return nil
	}
	failed := tag
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		failed = ve[0].Tag()
	}
	return &apperr.FieldError{Field: field, Message: message(field, failed)}
}

func message(field, tag string) string {
	switch field {
	case "firstName":
		if tag == "required" {
			return "First name is required"
		}
		return "First name cannot exceed 50 characters"
	case "lastName":
		return "Last name cannot exceed 50 characters"
	case "email":
		if tag == "required" {
			return "Email is required"
		}
		return "Please provide a valid email address"
	case "mobile":
		return "Mobile number must be 10-15 digits"
	case "gender":
		return "Gender must be Male, Female, or empty"
	case "status":
		return "Status must be Active or InActive"
	case "location":
		return "Location cannot exceed 200 characters"
	}
	return "Validation failed on field '" + field + "' for tag '" + tag + "'"
}

func appendErr(out []apperr.FieldError, fe *apperr.FieldError) []apperr.FieldError {
	if fe != nil {
		out = append(out, *fe)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
