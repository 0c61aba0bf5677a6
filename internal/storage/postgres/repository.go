package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Naya-01/PAE/internal/apierr"
)

// notFound maps a missing row to an apierr NotFound error and wraps anything else
func notFound(err error, message string, failure string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(message)
	}
	return fmt.Errorf("%s: %w", failure, err)
}

// staleState is returned when a conditional status update matched no row
func staleState(entity string, id any, from fmt.Stringer) error {
	return fmt.Errorf("%s %v is not %s: %w", entity, id, from, apierr.ErrStaleState)
}

// likePattern builds a case-insensitive LIKE pattern matching value anywhere
func likePattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(value))
	return "%" + escaped + "%"
}
