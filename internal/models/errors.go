package models

import "errors"

// Input and session state errors
var (
	ErrValidation       = errors.New("invalid input data")
	ErrNotAuthenticated = errors.New("user is not authenticated")
	ErrPrecondition     = errors.New("operation is not valid in the current state")
)

// Remote collaborator errors
var (
	ErrAuthProvider     = errors.New("identity provider request failed")
	ErrFetchFailed      = errors.New("failed to fetch stories")
	ErrDeleteFailed     = errors.New("failed to delete story")
	ErrGenerationFailed = errors.New("story generation failed")
)

// Concurrency guards
var (
	ErrGenerationInProgress = errors.New("a generation request is already in flight")
	ErrSessionChanged       = errors.New("session changed while the request was in flight")
)

// Speech capability
var (
	ErrSpeechUnavailable = errors.New("speech capability is not available")
)
