package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombatAccessOwner(t *testing.T) {
	a := CombatAccess(7, 7, "")
	assert.True(t, a.CanRead())
	assert.True(t, a.CanWrite())
}

func TestCombatAccessWriteShare(t *testing.T) {
	a := CombatAccess(7, 9, ShareWrite)
	assert.True(t, a.CanRead())
	assert.True(t, a.CanWrite())
}

func TestCombatAccessReadShareRejectsMutation(t *testing.T) {
	a := CombatAccess(7, 9, ShareRead)
	assert.True(t, a.CanRead())
	assert.False(t, a.CanWrite())
}

func TestCombatAccessStranger(t *testing.T) {
	a := CombatAccess(7, 9, "")
	assert.Equal(t, AccessNone, a)
	assert.False(t, a.CanRead())
	assert.False(t, a.CanWrite())
}

func TestCombatAccessUnknownShareRoleGrantsNothing(t *testing.T) {
	assert.Equal(t, AccessNone, CombatAccess(7, 9, "owner"))
}

func TestRoleGates(t *testing.T) {
	assert.False(t, CanManageGlobalLexicon(RoleUser))
	assert.True(t, CanManageGlobalLexicon(RoleAdmin))
	assert.True(t, CanManageGlobalLexicon(RoleSuperadmin))

	assert.False(t, CanAdministrate(RoleUser))
	assert.True(t, CanAdministrate(RoleAdmin))

	assert.False(t, CanChangeRoles(RoleAdmin))
	assert.True(t, CanChangeRoles(RoleSuperadmin))
}

func TestValidShareRole(t *testing.T) {
	assert.True(t, ValidShareRole(ShareRead))
	assert.True(t, ValidShareRole(ShareWrite))
	assert.False(t, ValidShareRole(""))
	assert.False(t, ValidShareRole("admin"))
}
