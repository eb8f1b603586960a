package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := &User{ID: "alice"}
	require.NoError(t, u.SetPassword("s3cret"))

	assert.NotEqual(t, "s3cret", u.Password)
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestUserPrivileges(t *testing.T) {
	u := &User{
		ID:         "alice",
		Role:       &Role{Code: RoleCustomer},
		Privileges: []Privilege{{Code: PrivCartManage}, {Code: PrivCatalogView}},
	}

	assert.True(t, u.HasPrivilege(PrivCartManage))
	assert.False(t, u.HasPrivilege(PrivStockUpdate))
	assert.Equal(t, []string{PrivCartManage, PrivCatalogView}, u.GetPrivilegeCodes())
	assert.Equal(t, RoleCustomer, u.ToResponse().Role)
}

func TestPrivilegeCodesFor(t *testing.T) {
	admin := PrivilegeCodesFor(RoleAdmin)
	assert.Len(t, admin, len(DefaultPrivileges))
	for _, code := range CustomerPrivileges {
		assert.Contains(t, admin, code)
	}

	customer := PrivilegeCodesFor(RoleCustomer)
	assert.ElementsMatch(t, CustomerPrivileges, customer)
	assert.NotContains(t, customer, PrivStockUpdate)
}
