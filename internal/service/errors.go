package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingFields is returned when a required input field is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidRegistrationPassword indicates the registration secret is incorrect.
	ErrInvalidRegistrationPassword = errors.New("invalid registration password")
	// ErrRegistrationDisabled is returned when no registration secret is configured.
	ErrRegistrationDisabled = errors.New("registration is disabled")
	// ErrUserAlreadyExists is returned when attempting to register with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrWeakPassword is returned when a new password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrUserNotFound is returned when a user id does not resolve to an account.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCategory is returned for categories outside domain.Categories.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrImageNotFound is returned when an image record does not exist.
	ErrImageNotFound = errors.New("image not found")
	// ErrForbidden is returned when the caller lacks the admin role.
	ErrForbidden = errors.New("forbidden")
)
