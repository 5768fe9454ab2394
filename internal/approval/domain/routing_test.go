package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproverFor(t *testing.T) {
	cases := []struct {
		maker    Role
		approver Role
	}{
		{RoleSubCityOfficer, RoleSubCityAdmin},
		{RoleRevenueOfficer, RoleRevenueAdmin},
		{RoleCityOfficer, RoleCityAdmin},
	}
	for _, tc := range cases {
		approver, err := ApproverFor(tc.maker)
		require.NoError(t, err)
		assert.Equal(t, tc.approver, approver)
	}

	_, err := ApproverFor(Role("CLERK"))
	assert.ErrorIs(t, err, ErrUnroutableRole)

	// Admin roles make no requests of their own
	_, err = ApproverFor(RoleSubCityAdmin)
	assert.ErrorIs(t, err, ErrUnroutableRole)
}

func TestCanDecide(t *testing.T) {
	assert.True(t, CanDecide(RoleSubCityAdmin, RoleSubCityAdmin))
	assert.True(t, CanDecide(RoleSuperAdmin, RoleSubCityAdmin))
	assert.True(t, CanDecide(RoleSuperAdmin, RoleRevenueAdmin))
	assert.False(t, CanDecide(RoleRevenueAdmin, RoleSubCityAdmin))
	assert.False(t, CanDecide(RoleSubCityOfficer, RoleSubCityAdmin))
}
