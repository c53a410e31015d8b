package service

import (
	"errors"
	"fmt"
)

// Not-found conditions detected by the services. The API layer maps these
// to 404 responses; everything else that escapes a service is treated as a
// persistence failure.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrTradeNotFound   = errors.New("trade not found")
	ErrSignalNotFound  = errors.New("signal not found")
)

// ValidationError reports a missing required field in an inbound request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
