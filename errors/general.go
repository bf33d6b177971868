package errors

const (
	UnknownErrorCode        = 100_001
	RequestInvalidErrorCode = 100_002
)

var UnknownError Error = new(UnknownErrorCode, "UnknownError", "unexpected error: %s")

// RequestInvalidError indicates the request body or parameters could not be bound
var RequestInvalidError Error = new(RequestInvalidErrorCode, "RequestInvalid", "request is invalid: %s")
