package assignments

import "time"

const (
	// Namespace seeds address derivation for assignment records. The
	// address is derived from the user identity alone, which is what
	// enforces the one-live-assignment-per-user rule: a second assignment
	// has nowhere else to live.
	Namespace = "user_role"
	// Schema tags the record body layout.
	Schema = "user_role.v1"
)

// Assignment binds exactly one role to one user identity.
type Assignment struct {
	User       string    `cbor:"user"`
	Role       string    `cbor:"role"`
	AssignedAt time.Time `cbor:"assigned_at"`
	AssignedBy string    `cbor:"assigned_by"`
}
