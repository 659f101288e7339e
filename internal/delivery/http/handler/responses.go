package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse carries a machine-readable reason code alongside the
// human-readable message.
type ConflictResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// bindingError turns gin binding failures into field-level messages instead
// of leaking the raw validator error string.
func bindingError(err error) ErrorResponse {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return ErrorResponse{Error: err.Error()}
	}

	parts := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return ErrorResponse{Error: "validation failed: " + strings.Join(parts, "; ")}
}
