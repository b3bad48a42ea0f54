package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryPrivate  = errors.New("entry is private and will not be processed by the AI")
	ErrAPIKeyMissing = errors.New("configure your AI API key in the settings to generate insights")

	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("a tag with this name already exists")

	ErrInvalidDepth    = errors.New("invalid analysis depth")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrNothingToUpdate = errors.New("no fields to update")

	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyQuery   = errors.New("query is required")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)
