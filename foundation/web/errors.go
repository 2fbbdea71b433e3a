package web

// Error carries an HTTP status alongside the underlying error, plus
// per-field messages for validation failures.
type Error struct {
	Err    error
	Status int
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// NewRequestError wraps a known error with a status so the respond layer
// can reply with the right code instead of a blanket 500.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// IsRequestError reports whether err was created via NewRequestError or is
// otherwise a trusted *Error.
func IsRequestError(err error) bool {
	_, ok := err.(*Error)
	return ok
}
