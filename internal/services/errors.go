package services

import "errors"

// Sentinel errors surfaced by the services. Controllers map these onto
// the HTTP error taxonomy.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrUserProtected      = errors.New("administrator accounts cannot be deleted")
	ErrUserHasExperiments = errors.New("user still owns experiments")
	ErrExperimentNotFound = errors.New("experiment not found")
	ErrInvalidCategory    = errors.New("invalid experiment category")
)
