package logstore

import "fmt"

// AuthenticationError indicates the log backend rejected the agent's
// credentials. Callers are expected to map it to a re-authentication flow
// rather than a generic failure.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("log backend rejected credentials (status %d): %s", e.StatusCode, e.Message)
}

// QueryError wraps any non-authentication failure while executing a query,
// preserving the backend's message for the caller.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("log query failed: %s: %v", e.Message, e.Err)
	}

	return fmt.Sprintf("log query failed: %s", e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
