package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, CUSTOMER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Manages inventory and views store reports",
	},
	{
		Code:        RoleCustomer,
		Name:        "Customer",
		Description: "Browses the catalog and places orders",
	},
}

// PrivilegeCodesFor returns the privileges a role is seeded with.
func PrivilegeCodesFor(roleCode string) []string {
	if roleCode == RoleAdmin {
		codes := make([]string, len(DefaultPrivileges))
		for i, p := range DefaultPrivileges {
			codes[i] = p.Code
		}
		return codes
	}
	return append([]string(nil), CustomerPrivileges...)
}
