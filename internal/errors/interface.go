package errors

// ErrorCode identifies each error condition the module can report
type ErrorCode string

// Error is a coded domain error. The code survives wrapping, so callers can
// branch on the condition without matching message text.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

// Factory creates domain errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithData(code ErrorCode, data any) Error
}
