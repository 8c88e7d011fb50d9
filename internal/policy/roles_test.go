package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskflowhq/taskflow-api/internal/models"
)

func TestNormalizeRoleName(t *testing.T) {
	tests := []struct {
		input string
		want  models.RoleName
	}{
		{"admin", models.RoleAdmin},
		{"Admin", models.RoleAdmin},
		{"ADMIN", models.RoleAdmin},
		{"manager", models.RoleManager},
		{" Manager ", models.RoleManager},
		{"product_owner", models.RoleProductOwner},
		{"PRODUCT_OWNER", models.RoleProductOwner},
		{"user", models.RoleUser},
		{"ROLE_ADMIN", models.RoleUser},
		{"something-else", models.RoleUser},
		{"", models.RoleUser},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRoleName(tt.input), "input %q", tt.input)
	}
}

func TestResolveRegistrationRoles_FirstUser(t *testing.T) {
	// The first user gets the bootstrap roles no matter what was requested.
	roles := ResolveRegistrationRoles([]string{"user"}, true)
	assert.Equal(t, []models.RoleName{models.RoleProductOwner, models.RoleAdmin}, roles)

	roles = ResolveRegistrationRoles(nil, true)
	assert.Equal(t, []models.RoleName{models.RoleProductOwner, models.RoleAdmin}, roles)
}

func TestResolveRegistrationRoles_DefaultUser(t *testing.T) {
	roles := ResolveRegistrationRoles(nil, false)
	assert.Equal(t, []models.RoleName{models.RoleUser}, roles)

	roles = ResolveRegistrationRoles([]string{}, false)
	assert.Equal(t, []models.RoleName{models.RoleUser}, roles)
}

func TestResolveRegistrationRoles_RequestedRoles(t *testing.T) {
	roles := ResolveRegistrationRoles([]string{"Admin", "manager"}, false)
	assert.Equal(t, []models.RoleName{models.RoleAdmin, models.RoleManager}, roles)
}

func TestResolveRegistrationRoles_UnknownFallsBackToUser(t *testing.T) {
	roles := ResolveRegistrationRoles([]string{"wizard"}, false)
	assert.Equal(t, []models.RoleName{models.RoleUser}, roles)
}

func TestResolveRegistrationRoles_DuplicatesCollapse(t *testing.T) {
	roles := ResolveRegistrationRoles([]string{"admin", "ADMIN", "wizard", "nobody"}, false)
	assert.Equal(t, []models.RoleName{models.RoleAdmin, models.RoleUser}, roles)
}
