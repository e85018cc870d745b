package models

type RoleType string

const (
	RoleAdmin  RoleType = "ADMIN"
	RoleTenant RoleType = "TENANT"
	// RoleSystem is used by the overdue scan and the admin CLI.
	RoleSystem RoleType = "SYSTEM"
)

func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleTenant, RoleSystem:
		return true
	default:
		return false
	}
}
