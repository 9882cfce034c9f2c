package service

type ErrorCode string

const (
	ErrorCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrorCodeBadReference       ErrorCode = "BAD_REFERENCE"
	ErrorCodeNotValid           ErrorCode = "NOT_VALID"
	ErrorCodeBadParameter       ErrorCode = "BAD_PARAMETER"
	ErrorCodeDuplicatedField    ErrorCode = "DUPLICATED_FIELD"
	ErrorCodeMalformedInput     ErrorCode = "MALFORMED_INPUT"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrorCodeUnspecified        ErrorCode = "UNSPECIFIED"
)

// Error is the carrier every service method reports failures with: a stable
// machine-readable code plus a free-text description.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
