package services

import (
	"resource-request-api/models"
)

// Membership is one resolved (role name, department id) pair.
type Membership struct {
	Role         string
	DepartmentID int
}

// RoleSet is a principal's flat set of (role, department) memberships.
// There is no role hierarchy and no wildcard role; checks are exact-name
// set membership, so the result never depends on membership order.
type RoleSet struct {
	memberships []Membership
}

// NewRoleSet builds a RoleSet from preloaded membership rows.
func NewRoleSet(rows []models.UserRole) RoleSet {
	memberships := make([]Membership, 0, len(rows))
	for _, row := range rows {
		if row.DeleteAt != nil || row.Role.RoleName == "" {
			continue
		}
		memberships = append(memberships, Membership{
			Role:         row.Role.RoleName,
			DepartmentID: row.DepartmentID,
		})
	}
	return RoleSet{memberships: memberships}
}

// NewRoleSetFromMemberships builds a RoleSet from already-resolved pairs.
func NewRoleSetFromMemberships(memberships []Membership) RoleSet {
	copied := make([]Membership, len(memberships))
	copy(copied, memberships)
	return RoleSet{memberships: copied}
}

// Memberships returns a copy of the resolved pairs.
func (rs RoleSet) Memberships() []Membership {
	copied := make([]Membership, len(rs.memberships))
	copy(copied, rs.memberships)
	return copied
}

// HasRole reports whether the principal holds any of the named roles in
// any department.
func (rs RoleSet) HasRole(names ...string) bool {
	for _, m := range rs.memberships {
		for _, name := range names {
			if m.Role == name {
				return true
			}
		}
	}
	return false
}

// Authorize is the single gate for role/department checks. It returns true
// iff the principal holds at least one membership whose role name is in
// allowedRoles and, when allowedDepartment is non-nil, a membership in that
// department. Pure predicate: no store access, no side effects.
func Authorize(rs RoleSet, allowedRoles []string, allowedDepartment *int) bool {
	roleOK := false
	for _, m := range rs.memberships {
		for _, name := range allowedRoles {
			if m.Role == name {
				roleOK = true
			}
		}
	}
	if !roleOK {
		return false
	}
	if allowedDepartment == nil {
		return true
	}
	for _, m := range rs.memberships {
		if m.DepartmentID == *allowedDepartment {
			return true
		}
	}
	return false
}
