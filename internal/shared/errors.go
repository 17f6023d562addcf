package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrRetriesExhausted   = fmt.Errorf("request failed repeatedly")
	ErrRequestRejected    = fmt.Errorf("request rejected")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTooManyIDs         = fmt.Errorf("too many identifiers in batch")

	// Split pipeline errors
	ErrProfileUnavailable = fmt.Errorf("user profile unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrPlaylistCreate     = fmt.Errorf("playlist creation failed")

	// History errors
	ErrRunNotFound = fmt.Errorf("split run not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
