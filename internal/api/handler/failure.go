package handler

// Failure attaches the client-facing message used when err maps to a 500.
type Failure struct {
	Message string
	Err     error
}

// Fail wraps err with msg. Validation and not-found errors keep their own
// mapping; msg is only shown when the error is a store or unknown failure.
func Fail(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Message: msg, Err: err}
}

func (f *Failure) Error() string { return f.Message + ": " + f.Err.Error() }

func (f *Failure) Unwrap() error { return f.Err }
