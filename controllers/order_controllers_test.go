package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodhub/models"
)

func (e *testEnv) pizzaOrder(t *testing.T) map[string]interface{} {
	t.Helper()
	restaurant := e.restaurant(t, "Pizza Palace")
	return map[string]interface{}{
		"restaurantId": restaurant.ID,
		"items": []map[string]interface{}{
			{"menuItemId": e.menuItem(t, "Margherita Pizza").ID, "quantity": 1, "price": 12.99},
			{"menuItemId": e.menuItem(t, "Pepperoni Pizza").ID, "quantity": 1, "price": 14.99},
		},
		"total":           27.98,
		"deliveryAddress": "1 Main St",
		"phone":           "555-0100",
		"notes":           "Leave at door",
	}
}

func (e *testEnv) placeOrder(t *testing.T, token string) models.Order {
	t.Helper()
	w := e.request(http.MethodPost, "/orders", token, e.pizzaOrder(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, w, &order)
	return order
}

func TestCreateOrder(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, customerEmail)

	order := env.placeOrder(t, token)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 27.98, order.Total, 0.0001)
	assert.Equal(t, "1 Main St | Notes: Leave at door | Phone: 555-0100", order.Notes)

	var stored models.Order
	require.NoError(t, env.db.Preload("OrderItems").First(&stored, order.ID).Error)
	assert.InDelta(t, 27.98, stored.Total, 0.0001)
	require.Len(t, stored.OrderItems, 2)
	assert.ElementsMatch(t,
		[]float64{12.99, 14.99},
		[]float64{stored.OrderItems[0].Price, stored.OrderItems[1].Price})
}

func TestCreateOrderErrors(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, customerEmail)

	w := env.request(http.MethodPost, "/orders", "", env.pizzaOrder(t))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, field := range []string{"restaurantId", "items", "total", "deliveryAddress", "phone"} {
		t.Run("missing "+field, func(t *testing.T) {
			body := env.pizzaOrder(t)
			delete(body, field)
			w := env.request(http.MethodPost, "/orders", token, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, decode(t, w, nil).Status)
		})
	}

	body := env.pizzaOrder(t)
	body["total"] = 0
	assert.Equal(t, http.StatusBadRequest, env.request(http.MethodPost, "/orders", token, body).Code)
}

func TestUpdateOrderStatusToCancelledFromAnyStatus(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.token(t, customerEmail)
	staff := env.token(t, staffEmail)

	for _, from := range []string{"PENDING", "PREPARING", "READY", "DELIVERED", "CANCELLED"} {
		t.Run(from, func(t *testing.T) {
			order := env.placeOrder(t, customer)
			if from != "PENDING" {
				w := env.request(http.MethodPatch, fmt.Sprintf("/orders/%d/status", order.ID), staff, map[string]string{"status": from})
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			}

			w := env.request(http.MethodPatch, fmt.Sprintf("/orders/%d/status", order.ID), staff, map[string]string{"status": "CANCELLED"})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = env.request(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), customer, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var detail struct {
				Order    models.Order `json:"order"`
				Progress int          `json:"progress"`
			}
			decode(t, w, &detail)
			assert.Equal(t, models.StatusCancelled, detail.Order.Status)
			assert.Equal(t, -1, detail.Progress)
		})
	}
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.token(t, customerEmail)
	staff := env.token(t, staffEmail)
	order := env.placeOrder(t, customer)
	path := fmt.Sprintf("/orders/%d/status", order.ID)

	w := env.request(http.MethodPatch, path, customer, map[string]string{"status": "READY"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "customers may not change status")

	w = env.request(http.MethodPatch, path, "", map[string]string{"status": "READY"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(http.MethodPatch, path, staff, map[string]string{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(http.MethodPatch, "/orders/9999/status", staff, map[string]string{"status": "READY"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	admin := env.token(t, adminEmail)
	w = env.request(http.MethodPatch, path, admin, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetOtherCustomersOrderIsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.token(t, customerEmail)
	order := env.placeOrder(t, customer)

	w := env.request(http.MethodPost, "/register", "", map[string]string{
		"name": "Jane Roe", "email": "jane@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	other := env.token(t, "jane@example.com")

	w = env.request(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(http.MethodGet, "/orders/abc", other, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMyOrdersAndStats(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.token(t, customerEmail)
	placed := env.placeOrder(t, customer)

	w := env.request(http.MethodGet, "/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decode(t, w, &orders)
	require.Len(t, orders, 3, "two seeded orders plus the new one")
	assert.Equal(t, placed.ID, orders[0].ID, "newest first")
	require.NotNil(t, orders[0].Restaurant)
	assert.Equal(t, "Pizza Palace", orders[0].Restaurant.Name)

	w = env.request(http.MethodGet, "/orders/stats", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Total     int64 `json:"total"`
		Pending   int64 `json:"pending"`
		Delivered int64 `json:"delivered"`
	}
	decode(t, w, &stats)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Delivered)
}

func TestStaffAndAdminOrderLists(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.token(t, customerEmail)
	staff := env.token(t, staffEmail)
	admin := env.token(t, adminEmail)
	env.placeOrder(t, customer)

	var orders []models.Order
	w := env.request(http.MethodGet, "/staff/orders", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &orders)
	assert.Len(t, orders, 3, "all orders are for restaurants owned by staff")

	w = env.request(http.MethodGet, "/staff/orders?status=PREPARING", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusPreparing, orders[0].Status)

	// Admin owns no restaurant with orders.
	w = env.request(http.MethodGet, "/staff/orders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &orders)
	assert.Empty(t, orders)

	assert.Equal(t, http.StatusUnauthorized, env.request(http.MethodGet, "/staff/orders", customer, nil).Code)

	w = env.request(http.MethodGet, "/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &orders)
	assert.Len(t, orders, 3)

	assert.Equal(t, http.StatusUnauthorized, env.request(http.MethodGet, "/admin/orders", staff, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.request(http.MethodGet, "/admin/orders?status=LOST", admin, nil).Code)
}
