package service

import (
	"errors"
	"fmt"
)

// GenericRemoteMessage is used when a failed response carries no message.
const GenericRemoteMessage = "something went wrong"

// AuthError reports rejected credentials or an expired session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// RemoteError reports a non-success response from a reachable backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GenericRemoteMessage
	}
	if e.Status == 0 {
		return msg
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

// NotFoundError reports that an update or delete target does not exist.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// FetchError reports that the task list could not be loaded.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch tasks: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports task fields rejected before any request was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError tags a failure to reach the backend or to read its reply
// (network error, timeout, malformed body). It never leaves the transport
// layer: the transport client answers such failures from the fallback store.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportFailure reports whether err is (or wraps) a *TransportError.
func IsTransportFailure(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAuth reports whether err is (or wraps) an *AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
