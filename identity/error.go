package identity

import "fmt"

// ErrorCode identifies a kind of error.
type ErrorCode int

const (
	// ErrMalformed indicates a serialized identity or history could not be
	// decoded.
	ErrMalformed ErrorCode = iota

	// ErrTooManyEntries indicates a list in a serialized identity exceeds
	// its limit.
	ErrTooManyEntries

	// ErrInvalidHistory indicates a history record breaks the ordering or
	// capacity rules.
	ErrInvalidHistory
)

var errorCodeStrings = map[ErrorCode]string{
	ErrMalformed:      "ErrMalformed",
	ErrTooManyEntries: "ErrTooManyEntries",
	ErrInvalidHistory: "ErrInvalidHistory",
}

func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// IdentityError describes a failure to decode or build an identity record.
type IdentityError struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

func (e IdentityError) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

func (e IdentityError) Unwrap() error {
	return e.Err
}

func identityError(c ErrorCode, desc string, err error) IdentityError {
	return IdentityError{ErrorCode: c, Description: desc, Err: err}
}
