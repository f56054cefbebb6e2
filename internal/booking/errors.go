package booking

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("booking not found")
	ErrDuplicateID   = errors.New("booking with this ID already exists")
	ErrInvalidStatus = errors.New("invalid status")
)

// MissingFieldsError reports which required fields a booking draft lacks.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
