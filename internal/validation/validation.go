package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxDescriptionLength = 120
	MaxTimeSlotLength    = 120
	MaxTypeNameLength    = 50
)

// ValidateRequired checks that a field is not blank
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum rune length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength checks the maximum rune length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidatePositiveID checks that an identifier is strictly positive
func ValidatePositiveID(id int, fieldName string) error {
	if id <= 0 {
		return errors.New(fieldName + " must be a positive integer")
	}
	return nil
}

// ParseID parses a path or query identifier
func ParseID(value, fieldName string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.New(fieldName + " must be an integer")
	}
	if err := ValidatePositiveID(id, fieldName); err != nil {
		return 0, err
	}
	return id, nil
}

// OfferValidation groups the checks applied to offer payloads
type OfferValidation struct{}

// ValidateTimeSlot validates the availability window of an offer
func (v OfferValidation) ValidateTimeSlot(timeSlot string) error {
	if err := ValidateRequired(timeSlot, "time_slot"); err != nil {
		return err
	}
	return ValidateMaxLength(timeSlot, MaxTimeSlotLength, "time_slot")
}

// ValidateDescription validates an object description
func (v OfferValidation) ValidateDescription(description string) error {
	if err := ValidateRequired(description, "description"); err != nil {
		return err
	}
	return ValidateMaxLength(description, MaxDescriptionLength, "description")
}

// TypeValidation groups the checks applied to object types
type TypeValidation struct{}

func (v TypeValidation) ValidateTypeName(name string) error {
	if err := ValidateRequired(name, "type_name"); err != nil {
		return err
	}
	if err := ValidateMinLength(strings.TrimSpace(name), 2, "type_name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, MaxTypeNameLength, "type_name")
}
