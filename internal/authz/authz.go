// Package authz centralizes access decisions. Handlers never compare role
// strings themselves; they ask this package.
package authz

// Access is the level a user holds on a combat.
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

// Share roles as stored in combat_shares.role.
const (
	ShareRead  = "read"
	ShareWrite = "write"
)

// User roles as stored in users.role.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// CombatAccess decides what userID may do with a combat owned by ownerID.
// shareRole is the role of the user's share on that combat, or "" when no
// share exists. The owner always has write access; a read share never grants
// mutation. AccessNone must surface to clients as not-found, not forbidden,
// so that inaccessible combats do not leak their existence.
func CombatAccess(ownerID, userID uint64, shareRole string) Access {
	if userID == ownerID {
		return AccessWrite
	}
	switch shareRole {
	case ShareWrite:
		return AccessWrite
	case ShareRead:
		return AccessRead
	}
	return AccessNone
}

// CanRead reports whether the access level permits reading.
func (a Access) CanRead() bool { return a >= AccessRead }

// CanWrite reports whether the access level permits mutation.
func (a Access) CanWrite() bool { return a >= AccessWrite }

// ValidShareRole reports whether s is an acceptable share role payload value.
func ValidShareRole(s string) bool { return s == ShareRead || s == ShareWrite }

// ValidUserRole reports whether s is a known user role.
func ValidUserRole(s string) bool {
	return s == RoleUser || s == RoleAdmin || s == RoleSuperadmin
}

// CanManageGlobalLexicon gates mutation of the shared vocabulary lists.
func CanManageGlobalLexicon(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// CanAdministrate gates the admin surface (user listing, password resets,
// audit log).
func CanAdministrate(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// CanChangeRoles gates role changes; only the superadmin may promote or
// demote accounts.
func CanChangeRoles(role string) bool { return role == RoleSuperadmin }
