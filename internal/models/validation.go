package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match the wire contract
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return formatFieldError(fieldErrs[0])
	}
	return err
}

func formatFieldError(e validator.FieldError) *utils.ValidationError {
	field := e.Field()
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "gt":
		msg = fmt.Sprintf("%s must be a positive integer", field)
	case "min", "max":
		if field == "mood_rating" {
			msg = fmt.Sprintf("mood_rating must be between %d and %d", MinMoodRating, MaxMoodRating)
		} else if e.Tag() == "max" {
			msg = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		} else {
			msg = fmt.Sprintf("%s must be at least %s", field, e.Param())
		}
	case "email":
		msg = fmt.Sprintf("%s must be a valid email", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return &utils.ValidationError{Field: field, Message: msg}
}

// ParseUserID parses a path user id. Non-numeric and non-positive values are rejected.
func ParseUserID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, &utils.ValidationError{Field: "user_id", Message: "Invalid user ID"}
	}
	return id, nil
}

// ParseEntryID parses a server-side journal entry id.
func ParseEntryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &utils.ValidationError{Field: "entry_id", Message: "Invalid entry ID"}
	}
	return id, nil
}
