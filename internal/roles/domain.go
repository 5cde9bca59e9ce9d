package roles

import (
	"fmt"
	"time"

	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

const (
	// Namespace seeds address derivation for role records.
	Namespace = "role"
	// Schema tags the record body layout.
	Schema = "role.v1"
	// AdminRoleName is the role auto-created at system initialization.
	AdminRoleName = "admin"
	// MaxNameLength caps role names at 32 bytes.
	MaxNameLength = 32
)

// Role is a named, immutable-once-created permission set. The name is the
// uniqueness key: the record address is derived from it, so two roles can
// never share a name.
type Role struct {
	Name        string    `cbor:"name"`
	Permissions rbac.Set  `cbor:"permissions"`
	CreatedAt   time.Time `cbor:"created_at"`
}

// ValidateName rejects empty, oversized, or non-canonical role names. Names
// feed address derivation and the CLI surface, so the charset stays narrow.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("role name is empty: %w", shared.ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("role name exceeds %d bytes: %w", MaxNameLength, shared.ErrInvalidName)
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' && c != '-' {
			return fmt.Errorf("role name %q contains %q: %w", name, c, shared.ErrInvalidName)
		}
	}
	return nil
}
