// Package rbac holds the permission model and the authorization engine that
// every state-changing operation consults.
package rbac

import (
	"fmt"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Permission is an atomic capability token from a closed enumeration.
// Tokens are case-sensitive at every boundary.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionCreate Permission = "create"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"
	PermissionAdmin  Permission = "admin"
)

// All returns every permission in canonical order.
func All() Set {
	return Set{PermissionRead, PermissionCreate, PermissionUpdate, PermissionDelete, PermissionAdmin}
}

// Valid reports whether p is a member of the enumeration.
func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionCreate, PermissionUpdate, PermissionDelete, PermissionAdmin:
		return true
	}
	return false
}

// Set is a duplicate-free collection of permissions. Membership is flat:
// holding admin grants nothing beyond admin itself.
type Set []Permission

// ParseSet validates raw tokens into a Set, rejecting unknown tokens and
// duplicates. An empty input yields an empty, valid set.
func ParseSet(tokens []string) (Set, error) {
	seen := make(map[Permission]struct{}, len(tokens))
	set := make(Set, 0, len(tokens))
	for _, token := range tokens {
		perm := Permission(token)
		if !perm.Valid() {
			return nil, fmt.Errorf("unknown permission %q: %w", token, shared.ErrInvalidPermission)
		}
		if _, dup := seen[perm]; dup {
			return nil, fmt.Errorf("duplicate permission %q: %w", token, shared.ErrInvalidPermission)
		}
		seen[perm] = struct{}{}
		set = append(set, perm)
	}
	return set, nil
}

// Has reports exact membership. No permission implies another.
func (s Set) Has(required Permission) bool {
	for _, perm := range s {
		if perm == required {
			return true
		}
	}
	return false
}

// Strings returns the set as plain tokens for transport and audit payloads.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, perm := range s {
		out[i] = string(perm)
	}
	return out
}
