package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"resource-request-api/models"
)

func TestAuthorizeIsOrderIndependent(t *testing.T) {
	dept := 4
	forward := NewRoleSetFromMemberships([]Membership{
		{Role: models.RolePersonnel, DepartmentID: 1},
		{Role: models.RoleRequestManager, DepartmentID: 4},
		{Role: models.RoleRequestReviewer, DepartmentID: 2},
	})
	reversed := NewRoleSetFromMemberships([]Membership{
		{Role: models.RoleRequestReviewer, DepartmentID: 2},
		{Role: models.RoleRequestManager, DepartmentID: 4},
		{Role: models.RolePersonnel, DepartmentID: 1},
	})

	allowed := []string{models.RoleRequestManager}
	require.True(t, Authorize(forward, allowed, &dept))
	require.True(t, Authorize(reversed, allowed, &dept))

	other := 9
	require.False(t, Authorize(forward, allowed, &other))
	require.False(t, Authorize(reversed, allowed, &other))
}

func TestAuthorizeEmptyInputs(t *testing.T) {
	dept := 1
	rs := NewRoleSetFromMemberships([]Membership{
		{Role: models.RoleAdmin, DepartmentID: 1},
	})

	require.False(t, Authorize(rs, nil, &dept))
	require.False(t, Authorize(rs, []string{}, &dept))
	require.False(t, Authorize(RoleSet{}, []string{models.RoleAdmin}, &dept))
	require.False(t, Authorize(RoleSet{}, []string{models.RoleAdmin}, nil))
}

func TestAuthorizeNilDepartmentSkipsScope(t *testing.T) {
	rs := NewRoleSetFromMemberships([]Membership{
		{Role: models.RoleSystemAdmin, DepartmentID: 7},
	})
	require.True(t, Authorize(rs, []string{models.RoleSystemAdmin}, nil))
}

func TestAuthorizeRoleWithoutDepartment(t *testing.T) {
	dept := 2
	rs := NewRoleSetFromMemberships([]Membership{
		{Role: models.RoleRequestReviewer, DepartmentID: 5},
	})
	require.False(t, Authorize(rs, []string{models.RoleRequestReviewer}, &dept))
}

func TestAuthorizeRoleAndDepartmentFromDifferentMemberships(t *testing.T) {
	// Role and department checks are each satisfied by some membership;
	// they do not have to be the same row.
	dept := 2
	rs := NewRoleSetFromMemberships([]Membership{
		{Role: models.RoleRequestManager, DepartmentID: 5},
		{Role: models.RolePersonnel, DepartmentID: 2},
	})
	require.True(t, Authorize(rs, []string{models.RoleRequestManager}, &dept))
}

func TestHasRole(t *testing.T) {
	rs := NewRoleSetFromMemberships([]Membership{
		{Role: models.RolePersonnel, DepartmentID: 1},
		{Role: models.RoleDepartmentHead, DepartmentID: 1},
	})
	require.True(t, rs.HasRole(models.RoleDepartmentHead))
	require.True(t, rs.HasRole(models.RoleAdmin, models.RolePersonnel))
	require.False(t, rs.HasRole(models.RoleAdmin, models.RoleSystemAdmin))
	require.False(t, rs.HasRole())
}

func TestNewRoleSetSkipsDeletedAndUnresolvedRows(t *testing.T) {
	deleted := time.Now()
	rs := NewRoleSet([]models.UserRole{
		{
			UserID:       1,
			DepartmentID: 1,
			Role:         models.Role{RoleName: models.RoleAdmin},
			DeleteAt:     &deleted,
		},
		{
			UserID:       1,
			DepartmentID: 2,
			// Role relation was not preloaded; the row is unusable.
		},
		{
			UserID:       1,
			DepartmentID: 3,
			Role:         models.Role{RoleName: models.RolePersonnel},
		},
	})

	require.Equal(t, []Membership{{Role: models.RolePersonnel, DepartmentID: 3}}, rs.Memberships())
	require.False(t, rs.HasRole(models.RoleAdmin))
}
