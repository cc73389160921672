package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/foodhub/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		resource Resource
		action   Action
		want     bool
	}{
		{"customer places order", models.RoleCustomer, ResourceOrder, ActionCreate, true},
		{"customer reads own orders", models.RoleCustomer, ResourceOrder, ActionList, true},
		{"customer cannot change status", models.RoleCustomer, ResourceOrderStatus, ActionUpdate, false},
		{"customer cannot see dashboard", models.RoleCustomer, ResourceDashboard, ActionRead, false},
		{"staff changes status", models.RoleStaff, ResourceOrderStatus, ActionUpdate, true},
		{"staff places order", models.RoleStaff, ResourceOrder, ActionCreate, true},
		{"staff cannot edit restaurants", models.RoleStaff, ResourceRestaurant, ActionUpdate, false},
		{"staff lists restaurant orders", models.RoleStaff, ResourceRestaurantOrder, ActionList, true},
		{"customer cannot list restaurant orders", models.RoleCustomer, ResourceRestaurantOrder, ActionList, false},
		{"staff cannot see platform", models.RoleStaff, ResourcePlatform, ActionRead, false},
		{"staff cannot manage users", models.RoleStaff, ResourceUser, ActionUpdate, false},
		{"admin deletes menu item", models.RoleAdmin, ResourceMenuItem, ActionDelete, true},
		{"admin changes roles", models.RoleAdmin, ResourceUser, ActionUpdate, true},
		{"unknown role", models.Role("GUEST"), ResourceOrder, ActionRead, false},
		{"empty role", "", ResourceOrder, ActionCreate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.resource, tt.action))
		})
	}
}
