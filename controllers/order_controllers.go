package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/services"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

type OrderController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderController(db *gorm.DB, svc *services.OrderService) *OrderController {
	return &OrderController{DB: db, Service: svc}
}

// statusFilter reads the optional ?status= query.
func statusFilter(c *gin.Context) (*models.OrderStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, err := models.ParseOrderStatus(raw)
	if err != nil {
		return nil, utils.Validation("invalid status")
	}
	return &status, nil
}

// CreateOrder -> POST /orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)

	var input services.CreateOrderInput
	if err := bindJSON(c, &input); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	order, err := oc.Service.CreateOrder(userID, input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetMyOrders -> orders of the current user, newest first
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)

	orders, err := oc.Service.ListForUser(userID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetMyOrderStats(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)

	stats, err := oc.Service.StatsForUser(userID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order stats", stats)
}

// GetOrderByID -> one of the current user's orders; anything else is 404
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)
	id, err := paramID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	order, err := oc.Service.GetForUser(id, userID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order":    order,
		"progress": order.Status.Progress(),
		"steps":    models.StatusSteps,
	})
}

// UpdateOrderStatus -> PATCH /orders/:order_id/status {"status": "READY"}
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := paramID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	order, err := oc.Service.UpdateStatus(id, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetRestaurantOrders -> orders of the restaurants the current user owns
func (oc *OrderController) GetRestaurantOrders(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)
	status, err := statusFilter(c)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var restaurantIDs []uint
	if err := oc.DB.Model(&models.Restaurant{}).Where("owner_id = ?", userID).Pluck("id", &restaurantIDs).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load restaurants", err))
		return
	}

	orders, err := oc.Service.ListForRestaurants(restaurantIDs, status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant orders", orders)
}

// GetAllOrders -> every order, for admins
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	status, err := statusFilter(c)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	orders, err := oc.Service.ListAll(status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}
