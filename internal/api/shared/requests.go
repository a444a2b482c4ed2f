package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not a single JSON document.
var ErrInvalidBody = errors.New("invalid request body")

// DecodeJSON decodes the request body into the given struct.
// Unknown fields are rejected and trailing data after the document is an error.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON document", ErrInvalidBody)
	}
	return nil
}

// ValidateRequest validates the given struct and returns a *domain.ValidationError
// listing every failed field.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct tags
	return domain.ValidateStruct(v).Err()
}
