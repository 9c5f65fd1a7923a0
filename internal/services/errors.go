package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

const (
	pqUniqueViolation  = "23505"
	pqCheckViolation   = "23514"
	pqNotNullViolation = "23502"
)

// classifyStorageError maps a driver error onto the error taxonomy. Errors it
// does not recognise are wrapped and returned as-is (reported as 500).
func classifyStorageError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == pqUniqueViolation:
			return &utils.ConflictError{Message: "Contact with this email already exists"}
		case pqErr.Code == pqCheckViolation:
			return &utils.ValidationError{Field: checkField(pqErr), Message: "Value violates a storage constraint: " + pqErr.Message}
		case pqErr.Code == pqNotNullViolation:
			return &utils.ValidationError{Field: pqErr.Column, Message: pqErr.Column + " is required"}
		case pqErr.Code.Class() == "08", pqErr.Code.Class() == "53", strings.HasPrefix(string(pqErr.Code), "57P"):
			return &utils.UnavailableError{Op: op, Err: err}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &utils.UnavailableError{Op: op, Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func checkField(e *pq.Error) string {
	if strings.Contains(e.Constraint, "mood_rating") {
		return "mood_rating"
	}
	if strings.Contains(e.Constraint, "entry_text") {
		return "entry_text"
	}
	return e.Column
}
