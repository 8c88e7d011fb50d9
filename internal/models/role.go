package models

// RoleName identifies one of the fixed reference roles.
type RoleName string

const (
	RoleUser         RoleName = "ROLE_USER"
	RoleManager      RoleName = "ROLE_MANAGER"
	RoleAdmin        RoleName = "ROLE_ADMIN"
	RoleProductOwner RoleName = "ROLE_PRODUCT_OWNER"
)

// AllRoleNames lists every role seeded at startup.
var AllRoleNames = []RoleName{RoleUser, RoleManager, RoleAdmin, RoleProductOwner}

type Role struct {
	ID   uint64   `gorm:"primarykey" json:"id"`
	Name RoleName `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
}
