// Package validation holds the pure input checks applied before any
// authorization or persistence work. Violations are collected, not
// fail-fast, so a single response can report every bad field.
package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxTitleBytes bounds the title by UTF-8 byte length, not rune count.
// Multi-byte input counts each encoded byte.
const MaxTitleBytes = 500

// FieldError describes one violation on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violation found in a request.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func errOrNil(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Fields: fields}
}

func checkTitle(title string) *FieldError {
	if strings.TrimSpace(title) == "" {
		return &FieldError{Field: "title", Message: "title cannot be empty or whitespace only"}
	}
	if len(title) > MaxTitleBytes {
		return &FieldError{Field: "title", Message: fmt.Sprintf("title cannot exceed %d bytes", MaxTitleBytes)}
	}
	return nil
}

// CreateTodo validates a create request. The idempotency key is optional but
// must be non-blank when supplied.
func CreateTodo(title string, idempotencyKey *string) error {
	var fields []FieldError

	if title == "" {
		fields = append(fields, FieldError{Field: "title", Message: "title is required"})
	} else if fe := checkTitle(title); fe != nil {
		fields = append(fields, *fe)
	}

	if idempotencyKey != nil && strings.TrimSpace(*idempotencyKey) == "" {
		fields = append(fields, FieldError{Field: "idempotencyKey", Message: "idempotencyKey must be a non-empty string"})
	}

	return errOrNil(fields)
}

// UpdateTodo validates an update patch. Both fields are optional; a patch
// with neither is legal and only refreshes the record's updatedAt.
func UpdateTodo(title *string) error {
	var fields []FieldError

	if title != nil {
		if fe := checkTitle(*title); fe != nil {
			fields = append(fields, *fe)
		}
	}

	return errOrNil(fields)
}

// TodoID validates a record identifier. IDs are minted server-side as
// UUIDs, so anything that does not parse as one can be rejected before
// touching the store.
func TodoID(id string) error {
	var fields []FieldError

	switch {
	case id == "":
		fields = append(fields, FieldError{Field: "id", Message: "id is required"})
	case strings.TrimSpace(id) == "":
		fields = append(fields, FieldError{Field: "id", Message: "id cannot be empty"})
	default:
		if _, err := uuid.Parse(id); err != nil {
			fields = append(fields, FieldError{Field: "id", Message: "id must be a valid UUID"})
		}
	}

	return errOrNil(fields)
}
