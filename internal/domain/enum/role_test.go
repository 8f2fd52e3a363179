package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		role    Role
		allowed []Capability
		denied  []Capability
	}{
		{
			role:    RoleEmployee,
			allowed: []Capability{CapRecordSales, CapManageProducts, CapEditOwnSales, CapViewBaskets},
			denied:  []Capability{CapViewUsers, CapDeleteProducts, CapDeleteSales, CapViewTopSales, CapEditAnySale},
		},
		{
			role:    RoleAdmin,
			allowed: []Capability{CapViewUsers, CapManageUsers, CapDeleteProducts, CapDeleteSales, CapViewTopSales},
			denied:  []Capability{CapEditAnySale},
		},
		{
			role:    RoleSuperAdmin,
			allowed: []Capability{CapViewUsers, CapDeleteSales, CapEditAnySale, CapExportReports},
		},
		{
			role:   Role("cajero"),
			denied: []Capability{CapRecordSales, CapViewProducts},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			caps := CapabilitiesFor(tt.role)
			for _, c := range tt.allowed {
				assert.Truef(t, caps.Has(c), "%s should have %s", tt.role, c)
			}
			for _, c := range tt.denied {
				assert.Falsef(t, tt.role.Can(c), "%s should not have %s", tt.role, c)
			}
		})
	}
}

func TestSectionsFor(t *testing.T) {
	keys := func(r Role) []string {
		var out []string
		for _, s := range SectionsFor(r) {
			out = append(out, s.Key)
		}
		return out
	}

	assert.Equal(t, []string{"productos", "ventas", "historial-ventas", "canastos", "dashboard"}, keys(RoleEmployee))
	assert.Equal(t, []string{"usuarios", "productos", "ventas", "historial-ventas", "canastos", "dashboard"}, keys(RoleAdmin))
	assert.Empty(t, keys(Role("")))
}

func TestRoleHome(t *testing.T) {
	assert.Equal(t, "admin-home", RoleAdmin.Home())
	assert.Equal(t, "empleado-home", RoleEmployee.Home())
	assert.Equal(t, "superadmin-home", RoleSuperAdmin.Home())
	assert.Equal(t, "home", Role("x").Home())
	assert.False(t, RoleSuperAdmin.IsAssignable())
	assert.True(t, RoleEmployee.IsAssignable())
}
