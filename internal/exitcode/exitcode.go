// Package exitcode maps command outcomes to process exit codes.
package exitcode

import "tasker/internal/service"

const (
	Success = 0

	// UserError covers bad arguments, failed validation and unknown tasks.
	UserError = 1

	// AuthError covers missing or rejected credentials.
	AuthError = 2

	// BackendError covers every other failure reported by the backend.
	BackendError = 3
)

// For returns the exit code for err. A nil error is Success.
func For(err error) int {
	switch {
	case err == nil:
		return Success
	case service.IsAuth(err):
		return AuthError
	case service.IsValidation(err), service.IsNotFound(err):
		return UserError
	default:
		return BackendError
	}
}
