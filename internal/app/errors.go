package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNotInitialized  = errors.New("application not initialized")
	ErrNoProfile       = errors.New("no profile saved, run `coverly profile init` or `coverly profile import` first")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
