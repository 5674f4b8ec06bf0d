package validation

import (
	"fmt"
	"strings"
)

// Причины ошибок валидации, отдаются клиенту как есть
const (
	ReasonRequired        = "required"
	ReasonTooLong         = "too_long"
	ReasonTooShort        = "too_short"
	ReasonTooLarge        = "too_large"
	ReasonUnsupportedType = "unsupported_type"
	ReasonInvalid         = "invalid"
)

// ValidationError представляет ошибку валидации одного поля
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error реализует интерфейс error
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Reason)
}

// ValidationErrors is an ordered list of per-field errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether the list contains the given field/reason pair.
func (e ValidationErrors) Has(field, reason string) bool {
	for _, fe := range e {
		if fe.Field == field && fe.Reason == reason {
			return true
		}
	}
	return false
}

func (e *ValidationErrors) add(field, reason string) {
	*e = append(*e, ValidationError{Field: field, Reason: reason})
}

// errOrNil возвращает nil для пустого списка, чтобы не получить typed nil в error
func (e ValidationErrors) errOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
