package models

// Role is a named bundle of permissions, assigned per tenant through Membership.
type Role struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	RolePermissions []RolePermission `gorm:"foreignKey:RoleID" json:"rolePermissions,omitempty"`
}

// Permission is a named capability, e.g. "users.manage".
type Permission struct {
	BaseModel
	Key  string `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Name string `gorm:"size:255" json:"name"`
}

// RolePermission links a role to one of its permissions.
type RolePermission struct {
	BaseModel
	RoleID       string `gorm:"size:36;index;uniqueIndex:idx_role_permission" json:"roleId"`
	PermissionID string `gorm:"size:36;uniqueIndex:idx_role_permission" json:"permissionId"`

	Permission Permission `gorm:"foreignKey:PermissionID" json:"permission"`
}

// Membership binds a user to a company with one role. The composite unique
// index keeps one membership per (user, company) pair.
type Membership struct {
	BaseModel
	UserID    string `gorm:"size:36;uniqueIndex:idx_user_company" json:"userId"`
	CompanyID string `gorm:"size:36;uniqueIndex:idx_user_company" json:"companyId"`
	RoleID    string `gorm:"size:36;index" json:"roleId"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Role    Role    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// PermissionKeys collects the permission keys granted by the membership's role.
func (m *Membership) PermissionKeys() []string {
	keys := make([]string, 0, len(m.Role.RolePermissions))
	for _, rp := range m.Role.RolePermissions {
		keys = append(keys, rp.Permission.Key)
	}
	return keys
}
