package domain

import "errors"

// Result is the two-slot outcome of a vault operation: exactly one of Error and Value is
// meaningful. A non-empty Error is a definitive failure and Value must not be read.
type Result struct {
	Error string `json:"error"`
	Value string `json:"result"`

	err error
}

// Success builds a successful result.
func Success(value string) Result {
	return Result{Value: value}
}

// failureMessage stands in for an error with no text so a failure never reads as success.
const failureMessage = "keychain operation failed"

// Failure builds a failed result from err.
func Failure(err error) Result {
	if err == nil {
		err = errors.New(failureMessage)
	}
	if err.Error() == "" {
		return Result{Error: failureMessage, err: err}
	}
	return Result{Error: err.Error(), err: err}
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Error == ""
}

// Err returns the underlying error of a failed result, or nil.
func (r Result) Err() error {
	return r.err
}
