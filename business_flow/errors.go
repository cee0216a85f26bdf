// Package businessflow contains the core business logic and use cases for the queueing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Queue-related errors
	ErrQueueClosed          = errors.New("queue is closed for the day")
	ErrDuplicateQueueNumber = errors.New("queue number already taken for today")
	ErrQueueNotFound        = errors.New("queue not found")
	ErrClockUnavailable     = errors.New("branch timezone unavailable")

	// Serving-related errors
	ErrNotServing      = errors.New("teller is not serving the specified queue")
	ErrServingNotFound = errors.New("serving session not found")

	// Account-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUsernameTaken     = errors.New("username or email already in use")
	ErrEmployeeNotFound  = errors.New("employee not found")

	// Video ad errors
	ErrVideoAdNotFound = errors.New("video ad not found")
)

// Queue closure message shown to walk-in visitors, kept verbatim from the
// branch signage wording.
const QueueClosedMessage = "Time already Cut-Off, Please inquire inside"

// NotServingMessage is returned when a done request names a pairing that has
// no open session.
const NotServingMessage = "This teller is not serving the specified queue."

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsQueueClosed(err error) bool {
	return errors.Is(err, ErrQueueClosed)
}

func IsDuplicateQueueNumber(err error) bool {
	return errors.Is(err, ErrDuplicateQueueNumber)
}

func IsQueueNotFound(err error) bool {
	return errors.Is(err, ErrQueueNotFound)
}

func IsNotServing(err error) bool {
	return errors.Is(err, ErrNotServing)
}

func IsServingNotFound(err error) bool {
	return errors.Is(err, ErrServingNotFound)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken)
}

func IsEmployeeNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

func IsVideoAdNotFound(err error) bool {
	return errors.Is(err, ErrVideoAdNotFound)
}
