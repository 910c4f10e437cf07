package wine

import "errors"

var (
	// ErrLoad indicates the catalog could not be loaded. It is fatal.
	ErrLoad = errors.New("catalog load failed")
	// ErrNotFound indicates the wine doesn't exist in the catalog.
	ErrNotFound = errors.New("wine not found")
	// ErrInvalidQuery indicates no search criteria were supplied.
	ErrInvalidQuery = errors.New("invalid query: no search criteria")
	// ErrNoMatch indicates a well-formed query matched nothing.
	ErrNoMatch = errors.New("no matching wines")
	// ErrNoActiveSession indicates navigation without an active result list.
	ErrNoActiveSession = errors.New("no active search")
	// ErrRemoteProvider indicates the remote search backend failed or timed out.
	ErrRemoteProvider = errors.New("remote search provider failed")
)
