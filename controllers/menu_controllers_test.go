package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodhub/models"
)

func TestAdminMenuItems(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.token(t, adminEmail)
	pizza := env.restaurant(t, "Pizza Palace")

	w := env.request(http.MethodPost, "/admin/menu-items", admin, map[string]interface{}{
		"name": "Calzone", "price": 11.5, "restaurant_id": pizza.ID, "is_available": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.MenuItem
	decode(t, w, &item)
	assert.False(t, item.IsAvailable)

	var stored models.MenuItem
	require.NoError(t, env.db.First(&stored, item.ID).Error)
	assert.False(t, stored.IsAvailable, "explicit false survives the column default")

	path := fmt.Sprintf("/admin/menu-items/%d", item.ID)
	w = env.request(http.MethodPatch, path, admin, map[string]interface{}{"is_available": true, "price": 12})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &item)
	assert.True(t, item.IsAvailable)
	assert.InDelta(t, 12.0, item.Price, 0.0001)

	w = env.request(http.MethodPatch, path, admin, map[string]interface{}{"is_available": false})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &item)
	assert.False(t, item.IsAvailable)

	assert.Equal(t, http.StatusBadRequest, env.request(http.MethodPatch, path, admin, map[string]interface{}{"price": -1}).Code)
	assert.Equal(t, http.StatusBadRequest, env.request(http.MethodPost, "/admin/menu-items", admin, map[string]interface{}{
		"name": "Ghost", "price": 1, "restaurant_id": 999,
	}).Code)

	var items []models.MenuItem
	w = env.request(http.MethodGet, fmt.Sprintf("/admin/menu-items?restaurant_id=%d", pizza.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	assert.Len(t, items, 6)

	assert.Equal(t, http.StatusOK, env.request(http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.request(http.MethodDelete, path, admin, nil).Code)

	margherita := env.menuItem(t, "Margherita Pizza")
	w = env.request(http.MethodDelete, fmt.Sprintf("/admin/menu-items/%d", margherita.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "items on orders are kept")

	assert.Equal(t, http.StatusUnauthorized, env.request(http.MethodGet, "/admin/menu-items", env.token(t, staffEmail), nil).Code)
}

func TestCategories(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.token(t, adminEmail)

	var categories []models.Category
	w := env.request(http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &categories)
	require.Len(t, categories, 6)
	assert.Equal(t, "Asian", categories[0].Name)

	w = env.request(http.MethodPost, "/admin/categories", admin, map[string]string{"name": "Ice Cream & Gelato"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Category
	decode(t, w, &created)
	assert.Equal(t, "ice-cream-gelato", created.Slug)

	assert.Equal(t, http.StatusBadRequest, env.request(http.MethodPost, "/admin/categories", admin, map[string]string{"name": "Pizza"}).Code)

	w = env.request(http.MethodPatch, fmt.Sprintf("/admin/categories/%d", created.ID), admin, map[string]string{"slug": "Gelato"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &created)
	assert.Equal(t, "gelato", created.Slug)

	var pizza models.Category
	require.NoError(t, env.db.Where("slug = ?", "pizza").First(&pizza).Error)
	w = env.request(http.MethodDelete, fmt.Sprintf("/admin/categories/%d", pizza.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	margherita := env.menuItem(t, "Margherita Pizza")
	assert.Nil(t, margherita.CategoryID, "menu items are detached from a deleted category")

	assert.Equal(t, http.StatusNotFound, env.request(http.MethodDelete, fmt.Sprintf("/admin/categories/%d", pizza.ID), admin, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.request(http.MethodPost, "/admin/categories", env.token(t, customerEmail), map[string]string{"name": "X"}).Code)
}
