package service

import "errors"

// Error taxonomy for the gateway. REST handlers map these onto statuses;
// the chat orchestrator decides from them whether a synthetic error message
// joins the transcript.
var (
	// ErrValidation rejects bad input locally, before any network call.
	ErrValidation = errors.New("validation error")

	// ErrAuthentication covers a missing token and backend 403s; the user
	// is prompted to sign in and no conversation state changes.
	ErrAuthentication = errors.New("please log in to continue chatting")

	// ErrBackend is a non-2xx backend reply.
	ErrBackend = errors.New("backend error")

	// ErrNetwork is a transport-level failure reaching the backend.
	ErrNetwork = errors.New("network error")
)
