package services

import (
	"errors"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrLimitReached means the user hit their daily posting ceiling.
	ErrLimitReached = errors.New("daily limit reached")
	// ErrDuplicate means an identical submission already exists today.
	ErrDuplicate = errors.New("duplicate submission")
)
