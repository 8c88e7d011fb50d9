package policy

import (
	"strings"

	"github.com/taskflowhq/taskflow-api/internal/models"
)

// NormalizeRoleName maps a requested role name, case-insensitively, to one of
// the fixed roles. Unrecognized names fall back to ROLE_USER. The lenient
// fallback is deliberate: registration never fails because of a bad role
// string.
func NormalizeRoleName(name string) models.RoleName {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return models.RoleAdmin
	case "manager":
		return models.RoleManager
	case "product_owner":
		return models.RoleProductOwner
	default:
		return models.RoleUser
	}
}

// ResolveRegistrationRoles decides which roles a registering user receives.
//
// The first user ever registered gets ROLE_PRODUCT_OWNER and ROLE_ADMIN
// regardless of what was requested, so the system is never left unowned.
// After that, an empty request yields ROLE_USER and a non-empty request is
// mapped name by name with duplicates collapsed.
func ResolveRegistrationRoles(requested []string, firstUser bool) []models.RoleName {
	if firstUser {
		return []models.RoleName{models.RoleProductOwner, models.RoleAdmin}
	}
	if len(requested) == 0 {
		return []models.RoleName{models.RoleUser}
	}

	seen := make(map[models.RoleName]struct{}, len(requested))
	names := make([]models.RoleName, 0, len(requested))
	for _, r := range requested {
		name := NormalizeRoleName(r)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
