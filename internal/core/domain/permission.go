package domain

import "slices"

// Permission is a role label granting a capability.
type Permission string

const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

var knownPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

// DefaultPermissions is the set assigned at signup.
func DefaultPermissions() []Permission {
	return []Permission{PermissionUser}
}

// IsValid reports whether p is one of the known labels.
func (p Permission) IsValid() bool {
	return slices.Contains(knownPermissions, p)
}

// NormalizePermissions drops duplicates while keeping first-seen order.
// It returns false if any label is unknown.
func NormalizePermissions(in []Permission) ([]Permission, bool) {
	out := make([]Permission, 0, len(in))
	for _, p := range in {
		if !p.IsValid() {
			return nil, false
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, true
}

// PermissionStrings converts a permission set for logging and storage.
func PermissionStrings(ps []Permission) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
