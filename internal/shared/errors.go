package shared

import "errors"

// Sentinel errors shared across the core packages. Services return them
// wrapped with operation context; the transport layer maps them to status
// codes via errors.Is.
var (
	// ErrUnauthorized indicates the caller lacks standing for a privileged
	// operation (a non-admin calling an admin-only operation).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyExists indicates a live record already occupies the address.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyAssigned indicates the user already holds a live assignment.
	ErrAlreadyAssigned = errors.New("role already assigned")
	// ErrNotFound indicates a reference to an absent record.
	ErrNotFound = errors.New("not found")
	// ErrRoleNotFound indicates a role reference that does not resolve.
	ErrRoleNotFound = errors.New("role not found")
	// ErrInvalidName indicates a malformed role name.
	ErrInvalidName = errors.New("invalid role name")
	// ErrInvalidPermission indicates an unknown or duplicated permission token.
	ErrInvalidPermission = errors.New("invalid permission")
	// ErrInvalidAction indicates an action outside the fixed action table.
	ErrInvalidAction = errors.New("invalid action")
	// ErrPermissionDenied indicates an authenticated caller whose role does
	// not carry the permission the requested action needs.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvariantViolation indicates core-state corruption such as a counter
	// underflow. Not user-recoverable; the operation aborts loudly.
	ErrInvariantViolation = errors.New("invariant violation")
)
