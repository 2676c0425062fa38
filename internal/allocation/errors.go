package allocation

import "errors"

var (
	// ErrInvalidInput marks malformed input, rejected before any state is
	// touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateActiveRequest means the student already holds an open
	// allocation request.
	ErrDuplicateActiveRequest = errors.New("student already has an active request")

	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRequestNotFound means the allocation request does not exist.
	ErrRequestNotFound = errors.New("allocation request not found")

	// ErrRequestNotPending means the request is not in the pending state
	// the attempted transition requires. Terminal requests always fail
	// with this error.
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrTypeMismatch means the chosen room's type differs from the
	// student's room-type preference.
	ErrTypeMismatch = errors.New("room type does not match preference")

	// ErrScopeViolation means the acting user lacks authority over the
	// target (wrong role, or a warden acting outside their hostel).
	ErrScopeViolation = errors.New("actor lacks authority over target")
)
