package models

import (
	"time"
)

// Role names used by route gates and the authorization predicate.
// Membership is flat: a user holds zero or more (role, department) pairs.
const (
	RolePersonnel       = "PERSONNEL"
	RoleRequestReviewer = "REQUEST_REVIEWER"
	RoleRequestManager  = "REQUEST_MANAGER"
	RoleDepartmentHead  = "DEPARTMENT_HEAD"
	RoleAdmin           = "ADMIN"
	RoleSystemAdmin     = "SYSTEMADMIN"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Memberships []UserRole `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	RoleName string     `gorm:"column:role_name;unique" json:"role_name"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Department struct {
	DepartmentID   int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	DepartmentName string     `gorm:"column:department_name" json:"department_name"`
	IsActive       bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// UserRole is one (role, department) membership row.
type UserRole struct {
	UserRoleID   int        `gorm:"primaryKey;column:user_role_id" json:"user_role_id"`
	UserID       int        `gorm:"column:user_id" json:"user_id"`
	RoleID       int        `gorm:"column:role_id" json:"role_id"`
	DepartmentID int        `gorm:"column:department_id" json:"department_id"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role       Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (Department) TableName() string {
	return "departments"
}

func (UserRole) TableName() string {
	return "user_roles"
}
