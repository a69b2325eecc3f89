package llm

import (
	"errors"
	"fmt"
)

// RetryableError marks a transient backend failure (rate limiting,
// connection loss). The caller retries these up to its attempt cap.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// FatalError marks a permanent backend failure (bad credentials,
// malformed request). It is surfaced immediately, never retried.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is classified as transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
