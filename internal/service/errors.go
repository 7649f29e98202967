package service

import (
	"errors"

	"recipeadmin/internal/db"
)

var (
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("page must be a positive integer")
	// ErrEmptyFeedback is returned when feedback is blank after trimming.
	ErrEmptyFeedback = errors.New("feedback must not be empty")
	// ErrRunNotFound is returned when no run has the requested id.
	ErrRunNotFound = db.ErrRunNotFound
)

// StoreError wraps a failed store query. Its message is the store's own
// message, which the API passes through to clients.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
