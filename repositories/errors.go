package repositories

import "github.com/pkg/errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnavailable covers timeouts, network failures and an open breaker.
	ErrUnavailable = errors.New("store unavailable")
)
