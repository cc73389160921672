// Package policy answers one question for every protected operation:
// may a principal with this role perform this action on this resource?
package policy

import "github.com/yeremiapane/foodhub/models"

type Resource string

const (
	ResourceOrder       Resource = "order"
	ResourceOrderStatus Resource = "order_status"
	ResourceRestaurant  Resource = "restaurant"
	ResourceMenuItem    Resource = "menu_item"
	ResourceCategory    Resource = "category"
	ResourceUser        Resource = "user"
	ResourceDashboard   Resource = "dashboard"

	// ResourceRestaurantOrder covers orders of the restaurants a staff member owns.
	ResourceRestaurantOrder Resource = "restaurant_order"
	// ResourcePlatform covers platform-wide views such as every order.
	ResourcePlatform Resource = "platform"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type capability struct {
	resource Resource
	action   Action
}

var customerCaps = []capability{
	{ResourceOrder, ActionCreate},
	{ResourceOrder, ActionRead},
	{ResourceOrder, ActionList},
}

// Staff rows are scoped to owned restaurants by the handlers' queries.
var staffCaps = append([]capability{
	{ResourceOrderStatus, ActionUpdate},
	{ResourceRestaurantOrder, ActionList},
	{ResourceRestaurant, ActionList},
	{ResourceDashboard, ActionRead},
}, customerCaps...)

var table = map[models.Role]map[capability]bool{
	models.RoleCustomer: toSet(customerCaps),
	models.RoleStaff:    toSet(staffCaps),
}

func toSet(caps []capability) map[capability]bool {
	set := make(map[capability]bool, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

// Allowed reports whether role may perform action on resource.
// ADMIN may do everything; unknown roles may do nothing.
func Allowed(role models.Role, resource Resource, action Action) bool {
	if role == models.RoleAdmin {
		return true
	}
	return table[role][capability{resource, action}]
}
