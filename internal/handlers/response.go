package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

// ErrorResponse is the envelope shared by every failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeError maps the error taxonomy onto status codes:
// validation 400, not found 404, conflict 409, unavailable 503, anything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Success: false}
	status := http.StatusInternalServerError

	var (
		vErr *utils.ValidationError
		nErr *utils.NotFoundError
		cErr *utils.ConflictError
		uErr *utils.UnavailableError
	)
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
		resp.Message = vErr.Message
		resp.Field = vErr.Field
	case errors.As(err, &nErr):
		status = http.StatusNotFound
		resp.Message = capitalize(nErr.Resource) + " not found"
	case errors.As(err, &cErr):
		status = http.StatusConflict
		resp.Message = cErr.Message
	case errors.As(err, &uErr):
		status = http.StatusServiceUnavailable
		resp.Message = "Database unavailable"
	default:
		resp.Message = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		opts.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	if opts.ExposeErrors && status != http.StatusBadRequest {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// decodeBody decodes a JSON request body, reporting type mismatches against
// the offending field.
func decodeBody(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &utils.ValidationError{Field: typeErr.Field, Message: typeErr.Field + " has an invalid type"}
		}
		return &utils.ValidationError{Message: "Invalid request body"}
	}
	return nil
}
