package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound = "room_not_found"
	ErrCodeFileTooLarge = "file_too_large"
	ErrCodeRoomExpired  = "room_expired"
	ErrCodeBadRequest   = "bad_request"
)

var ErrRoomNotFound = errors.New("room not found")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
