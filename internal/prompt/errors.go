package prompt

import "errors"

var (
	// ErrInvalidArgument is returned when a composer is built without a
	// message. It is not retryable.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration is returned for configuration values that cannot be
	// used, such as an unrecognized rendering mode. It is reported at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrCollaboratorUnavailable is returned when an optional collaborator
	// (the digit speech provider) is not installed. Only the mode that needs
	// it is affected.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)
