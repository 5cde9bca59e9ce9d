package system

const (
	// Namespace seeds address derivation for the singleton state record.
	// There is exactly one state record per deployment, derived with no
	// additional parts.
	Namespace = "rbac_state"
	// Schema tags the record body layout.
	Schema = "rbac_state.v1"
)

// State is the global system record. Admin is immutable after
// initialization; the counters track live roles and assignments.
type State struct {
	Admin     string `cbor:"admin"`
	RoleCount uint32 `cbor:"role_count"`
	UserCount uint32 `cbor:"user_count"`
	Active    bool   `cbor:"active"`
}
