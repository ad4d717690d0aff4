package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPermission(t *testing.T) {
	perm, err := NewPermission(ActionRead, "Product", "Can view products", "Read access to the product catalog")
	require.NoError(t, err)
	assert.Equal(t, ActionRead, perm.Action)
	assert.Equal(t, "product", perm.Object)
	assert.Equal(t, "READ:product", perm.Code())
	assert.Equal(t, "Can view products", perm.Name)
	assert.Equal(t, "Read access to the product catalog", perm.Description)
}

func TestNewPermission_NameDefaultsToCode(t *testing.T) {
	perm, err := NewPermission(ActionDelete, "review", "", "")
	require.NoError(t, err)
	assert.Equal(t, "DELETE:review", perm.Name)
}

func TestNewPermission_InvalidAction(t *testing.T) {
	_, err := NewPermission(PermissionAction("GRANT"), "product", "", "")
	assert.Error(t, err)
}

func TestNewPermission_EmptyObject(t *testing.T) {
	_, err := NewPermission(ActionCreate, "   ", "", "")
	assert.Error(t, err)
}

// Every staff guard constant must be mintable as an actual grant, otherwise
// no group could ever satisfy the corresponding route guard.
func TestStaffCodes_Mintable(t *testing.T) {
	cases := []struct {
		action PermissionAction
		object string
		code   string
	}{
		{ActionManage, "user", CodeManageUsers},
		{ActionManage, "group", CodeManageGroups},
		{ActionManage, "catalog", CodeManageCatalog},
		{ActionManage, "order", CodeManageOrders},
		{ActionManage, "voucher", CodeManageVouchers},
		{ActionModerate, "review", CodeModerateReviews},
		{ActionManage, "ticket", CodeManageTickets},
		{ActionManage, "export", CodeManageExports},
	}

	for _, tc := range cases {
		perm, err := NewPermission(tc.action, tc.object, "", "")
		require.NoError(t, err)
		assert.Equal(t, tc.code, perm.Code())
	}
}
