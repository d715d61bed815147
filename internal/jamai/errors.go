package jamai

import "errors"

var (
	// ErrUnavailable indicates the JamAI Base service is unreachable.
	ErrUnavailable = errors.New("jamai service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("jamai request timed out")

	// ErrUnauthorized indicates the PAT or project ID was rejected.
	ErrUnauthorized = errors.New("jamai credentials rejected")

	// ErrTableNotFound indicates the configured Action Table does not exist
	// in the project.
	ErrTableNotFound = errors.New("action table not found")

	// ErrNoRows indicates the service answered without any result rows.
	ErrNoRows = errors.New("jamai response contained no rows")
)
