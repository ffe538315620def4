// Package storage persists calculation sessions in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidSession = errors.New("invalid session")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSession checks the structural rules a stored session must satisfy.
func validateSession(s *session.Session) error {
	if s == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidSession)
	}
	if _, err := model.ParseGradingMode(string(s.Mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if len(s.Groups) == 0 {
		return fmt.Errorf("%w: no groups", ErrInvalidSession)
	}
	if s.Prior != nil && (invalidNumber(s.Prior.Score) || invalidNumber(s.Prior.Weight)) {
		return fmt.Errorf("%w: prior is not a finite number", ErrInvalidSession)
	}

	seen := make(map[string]bool)
	for gi, g := range s.Groups {
		if strings.TrimSpace(g.ID) == "" {
			return fmt.Errorf("%w: group at index %d has no ID", ErrInvalidSession, gi)
		}
		if seen[g.ID] {
			return fmt.Errorf("%w: duplicate ID %s", ErrInvalidSession, g.ID)
		}
		seen[g.ID] = true

		for ei, e := range g.Entries {
			if strings.TrimSpace(e.ID) == "" {
				return fmt.Errorf("%w: entry %d of group %q has no ID", ErrInvalidSession, ei, g.Name)
			}
			if seen[e.ID] {
				return fmt.Errorf("%w: duplicate ID %s", ErrInvalidSession, e.ID)
			}
			seen[e.ID] = true
			if invalidNumber(e.Weight) {
				return fmt.Errorf("%w: entry %q weight is not a finite number", ErrInvalidSession, e.Label)
			}
		}
	}
	return nil
}

func invalidNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
