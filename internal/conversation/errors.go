package conversation

import "errors"

var (
	// ErrResponseFailed is returned when the platform rejected a response
	ErrResponseFailed = errors.New("response failed")
	// ErrUnknownIntent is returned for an intent no route handles
	ErrUnknownIntent = errors.New("unknown intent")
)
