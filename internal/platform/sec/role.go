// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Console Roles

// Role is the authorization level granted to a console account.
type Role string

const (
	// Full access, including deletes and workflow steps
	RoleAdministrator Role = "administrator"

	// Can create, edit and run workflow steps
	RoleClerk Role = "clerk"

	// Read-only access to lists and exports
	RoleViewer Role = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

func (r Role) level() int {
	switch r {
	case RoleAdministrator:
		return 30
	case RoleClerk:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
