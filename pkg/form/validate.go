package form

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is matched by every ValidationError.
var ErrIncomplete = errors.New("please fill out all comments before submitting")

// ValidationError names the first service with an empty comment.
type ValidationError struct {
	TaskID  string
	System  string
	Service string
	Missing int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s / %s (%d missing)", ErrIncomplete, e.System, e.Service, e.Missing)
}

func (e *ValidationError) Unwrap() error { return ErrIncomplete }

// Validate checks that every service has a non-blank comment.
func (s *Store) Validate() error {
	var first *ValidationError
	missing := 0
	for _, t := range s.tasks {
		for _, svc := range t.Services {
			if strings.TrimSpace(svc.Comment) != "" {
				continue
			}
			missing++
			if first == nil {
				first = &ValidationError{TaskID: t.ID, System: t.System, Service: svc.Name}
			}
		}
	}
	if first == nil {
		return nil
	}
	first.Missing = missing
	return first
}
