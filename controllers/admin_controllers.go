package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GetDashboardStats -> platform totals for the admin dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalOrders      int64            `json:"total_orders"`
		TotalRevenue     float64          `json:"total_revenue"`
		RevenueDisplay   string           `json:"revenue_display"`
		TotalRestaurants int64            `json:"total_restaurants"`
		TotalCustomers   int64            `json:"total_customers"`
		OrdersByStatus   map[string]int64 `json:"orders_by_status"`
		RecentOrders     []models.Order   `json:"recent_orders"`
	}

	if err := ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to count orders", err))
		return
	}
	if err := ac.DB.Model(&models.Order{}).Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TotalRevenue); err != nil {
		utils.RespondAppError(c, utils.Internal("failed to sum revenue", err))
		return
	}
	if err := ac.DB.Model(&models.Restaurant{}).Count(&stats.TotalRestaurants).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to count restaurants", err))
		return
	}
	if err := ac.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&stats.TotalCustomers).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to count customers", err))
		return
	}

	var grouped []struct {
		Status string
		N      int64
	}
	if err := ac.DB.Model(&models.Order{}).Select("status, COUNT(*) AS n").Group("status").Scan(&grouped).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to group orders", err))
		return
	}
	stats.OrdersByStatus = make(map[string]int64, len(grouped))
	for _, g := range grouped {
		stats.OrdersByStatus[g.Status] = g.N
	}

	stats.RecentOrders = []models.Order{}
	if err := ac.DB.Preload("User").Preload("Restaurant").
		Order("created_at DESC").Order("id DESC").Limit(5).
		Find(&stats.RecentOrders).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load recent orders", err))
		return
	}
	stats.RevenueDisplay = utils.FormatCurrency(stats.TotalRevenue)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetStaffDashboard -> figures for the restaurants the current user owns
func (ac *AdminController) GetStaffDashboard(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)

	var stats struct {
		TodayOrders     int64   `json:"today_orders"`
		PendingOrders   int64   `json:"pending_orders"`
		TotalRevenue    float64 `json:"total_revenue"`
		RevenueDisplay  string  `json:"revenue_display"`
		RestaurantCount int     `json:"restaurant_count"`
	}

	var restaurantIDs []uint
	if err := ac.DB.Model(&models.Restaurant{}).Where("owner_id = ?", userID).Pluck("id", &restaurantIDs).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load restaurants", err))
		return
	}
	stats.RestaurantCount = len(restaurantIDs)

	if len(restaurantIDs) > 0 {
		scoped := func() *gorm.DB {
			return ac.DB.Model(&models.Order{}).Where("restaurant_id IN ?", restaurantIDs)
		}
		if err := scoped().Where("created_at >= ?", startOfDay(time.Now())).Count(&stats.TodayOrders).Error; err != nil {
			utils.RespondAppError(c, utils.Internal("failed to count orders", err))
			return
		}
		if err := scoped().Where("status IN ?", []models.OrderStatus{models.StatusPending, models.StatusPreparing}).
			Count(&stats.PendingOrders).Error; err != nil {
			utils.RespondAppError(c, utils.Internal("failed to count orders", err))
			return
		}
		if err := scoped().Where("status = ?", models.StatusDelivered).
			Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TotalRevenue); err != nil {
			utils.RespondAppError(c, utils.Internal("failed to sum revenue", err))
			return
		}
	}
	stats.RevenueDisplay = utils.FormatCurrency(stats.TotalRevenue)

	utils.RespondJSON(c, http.StatusOK, "Staff dashboard stats", stats)
}
