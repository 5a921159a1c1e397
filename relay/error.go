package relay

import "fmt"

//ErrorType are Error types
type ErrorType int

//ErrorTypes
const (
	ErrorTypeUser ErrorType = iota
	ErrorTypeServer
)

//Error wraps errors raised while handling a client event
type Error struct {
	Description string
	Type        ErrorType
	Err         error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Description
	}
	if e.Type == ErrorTypeUser {
		return fmt.Sprintf("User Error: %s: %v", e.Description, e.Err)
	}
	return fmt.Sprintf("Server Error: %s: %v", e.Description, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

//userError returns a user Error
func userError(description string, err error) *Error {
	return &Error{Description: description, Type: ErrorTypeUser, Err: err}
}
