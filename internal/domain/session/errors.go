package session

import "errors"

var (
	// ErrEndOfList indicates next was requested on the last result.
	ErrEndOfList = errors.New("end of result list")
	// ErrStartOfList indicates previous was requested on the first result.
	ErrStartOfList = errors.New("start of result list")
	// ErrInvalidPayload indicates the session payload could not be decoded.
	ErrInvalidPayload = errors.New("invalid session payload")
)
