package sfx

import "errors"

var (
	// ErrNotInitialized is returned by every play call made before Init
	ErrNotInitialized = errors.New("sfx: dispatcher not initialized")

	// ErrAlreadyInitialized is returned by a second Init
	ErrAlreadyInitialized = errors.New("sfx: dispatcher already initialized")

	// ErrNoSource is returned for a request with neither clip nor descriptor
	ErrNoSource = errors.New("sfx: request has no clip or descriptor")
)

// ConfigurationError reports an invalid pool configuration
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Field + ": " + e.Message
}
