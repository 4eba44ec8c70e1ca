package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID     ID
	CohortID  ID
	StateCode string
)

func (id RunID) String() string    { return ID(id).String() }
func (id CohortID) String() string { return ID(id).String() }

// String returns the normalized two-letter state code.
func (s StateCode) String() string { return strings.ToUpper(string(s)) }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseStateCode validates and normalizes a two-letter state code.
func ParseStateCode(s string) (StateCode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 2 {
		return "", fmt.Errorf("state code must be two letters, got %q", s)
	}
	return StateCode(code), nil
}
