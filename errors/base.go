package errors

import "fmt"

type Error interface {
	error
	New(args ...any) BaseError
	IsEqual(err error) bool
}

type BaseError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`

	messageFormat string
}

func (e BaseError) Error() string {
	return e.Message
}

// New returns a copy of the registered error with its message formatted from args.
func (e BaseError) New(args ...any) BaseError {

	e.Message = fmt.Sprintf(e.messageFormat, args...)
	return e
}

// Is matches by code so wrapped errors still resolve with errors.Is.
func (e BaseError) Is(target error) bool {

	asserted, ok := target.(BaseError)
	if !ok {
		return false
	}

	return asserted.Code == e.Code
}

// IsEqual reports whether err carries the same code as e, e.g. a decoded response error.
func (e BaseError) IsEqual(err error) bool {

	asserted, ok := TryAssertError(err)
	if !ok {
		return false
	}

	return asserted.Code == e.Code
}

// TryAssertError unwraps err until it finds a BaseError.
func TryAssertError(err error) (BaseError, bool) {

	for err != nil {

		if asserted, ok := err.(BaseError); ok {
			return asserted, true
		}

		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return BaseError{}, false
		}

		err = unwrapper.Unwrap()
	}

	return BaseError{}, false
}

func IsError(err error, expectedError BaseError) bool {

	asserted, ok := TryAssertError(err)
	if !ok {
		return false
	}

	return asserted.Code == expectedError.Code && asserted.Message == expectedError.Message
}

func new(errorCode int, name string, messageFormat string) BaseError {

	return BaseError{Code: errorCode, Name: name, messageFormat: messageFormat}
}
