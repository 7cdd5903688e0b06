package platform

import "errors"

// Standard errors for native control operations.
var (
	// ErrPlatformUnavailable indicates no native bridge is installed.
	ErrPlatformUnavailable = errors.New("platform: native bridge unavailable")

	// ErrControlTypeNotFound indicates the control type is not registered.
	ErrControlTypeNotFound = errors.New("platform: control type not registered")

	// ErrControlNotFound indicates no live control has the given ID.
	ErrControlNotFound = errors.New("platform: control not found")

	// ErrInvalidArguments indicates construction parameters were rejected.
	ErrInvalidArguments = errors.New("platform: invalid arguments")
)

// ChannelError represents an error returned from native code.
type ChannelError struct {
	Code    string `json:"code" cbor:"code"`
	Message string `json:"message" cbor:"message"`
	Details any    `json:"details,omitempty" cbor:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
