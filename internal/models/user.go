package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderNone   Gender = ""
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInActive Status = "InActive"
)

// User is the sole persisted entity. Timestamps are store-managed.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Mobile    string             `bson:"mobile,omitempty" json:"mobile"`
	Gender    Gender             `bson:"gender" json:"gender"`
	Status    Status             `bson:"status" json:"status"`
	Profile   string             `bson:"profile" json:"profile"`
	Location  string             `bson:"location,omitempty" json:"location"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MarshalJSON adds the derived fullName attribute to every serialized user.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		FullName string `json:"fullName"`
	}{alias(u), u.FullName()})
}

// UserForm carries the decoded multipart fields of a create or update
// request. A nil pointer means the field was absent from the request.
type UserForm struct {
	FirstName *string
	LastName  *string
	Email     *string
	Mobile    *string
	Gender    *string
	Status    *string
	Location  *string
}

// Pagination describes the page window returned by a list query.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}
