package models

import (
	"strings"
	"time"
)

// Contact is a support person in a user's contact list.
// (user_id, contact_email) is unique.
type Contact struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	ContactName  string    `json:"contact_name" db:"contact_name"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateContactInput struct {
	UserID       int    `json:"user_id" validate:"gt=0"`
	ContactName  string `json:"contact_name" validate:"required,max=255"`
	ContactEmail string `json:"contact_email" validate:"required,email,max=255"`
}

// Normalize trims both fields and lower-cases the email.
func (in *CreateContactInput) Normalize() {
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactEmail = NormalizeEmail(in.ContactEmail)
}

func (in *CreateContactInput) Validate() error {
	in.Normalize()
	return validateStruct(in)
}

// NormalizeEmail converts an email to the lower-case form used for storage and uniqueness
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
