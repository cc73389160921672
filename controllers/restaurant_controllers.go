package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

func containsFold(column, term string) (string, string) {
	return "LOWER(" + column + ") LIKE ?", "%" + strings.ToLower(term) + "%"
}

// ListRestaurants -> active restaurants, newest first, filtered by ?search= and ?cuisine=
func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	q := rc.DB.Where("is_active = ?", true)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		cond, arg := containsFold("name", search)
		q = q.Where(cond, arg)
	}
	if cuisine := strings.TrimSpace(c.Query("cuisine")); cuisine != "" {
		cond, arg := containsFold("cuisine", cuisine)
		q = q.Where(cond, arg)
	}

	restaurants := []models.Restaurant{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&restaurants).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list restaurants", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// GetCuisines -> distinct cuisines of active restaurants
func (rc *RestaurantController) GetCuisines(c *gin.Context) {
	cuisines := []string{}
	err := rc.DB.Model(&models.Restaurant{}).
		Where("is_active = ? AND cuisine IS NOT NULL AND cuisine <> ''", true).
		Distinct().Order("cuisine").Pluck("cuisine", &cuisines).Error
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list cuisines", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of cuisines", cuisines)
}

// GetRestaurant -> one active restaurant with its available menu, ordered by name
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var restaurant models.Restaurant
	err = rc.DB.
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("name ASC")
		}).
		Preload("MenuItems.Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.NotFound("restaurant not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load restaurant", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// ListOwnedRestaurants -> restaurants owned by the current staff member
func (rc *RestaurantController) ListOwnedRestaurants(c *gin.Context) {
	userID, _, _ := middlewares.CurrentUser(c)

	restaurants := []models.Restaurant{}
	if err := rc.DB.Where("owner_id = ?", userID).Order("name ASC").Find(&restaurants).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list restaurants", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Owned restaurants", restaurants)
}

type restaurantSummary struct {
	models.Restaurant
	MenuItemCount int64 `json:"menu_item_count"`
	OrderCount    int64 `json:"order_count"`
}

// ListAllRestaurants -> every restaurant with owner and counts, for the admin table
func (rc *RestaurantController) ListAllRestaurants(c *gin.Context) {
	restaurants := []models.Restaurant{}
	if err := rc.DB.Preload("Owner").Order("created_at DESC").Find(&restaurants).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list restaurants", err))
		return
	}

	type count struct {
		RestaurantID uint
		N            int64
	}
	var menuCounts, orderCounts []count
	if err := rc.DB.Model(&models.MenuItem{}).Select("restaurant_id, COUNT(*) AS n").Group("restaurant_id").Scan(&menuCounts).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to count menu items", err))
		return
	}
	if err := rc.DB.Model(&models.Order{}).Select("restaurant_id, COUNT(*) AS n").Group("restaurant_id").Scan(&orderCounts).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to count orders", err))
		return
	}
	menus := make(map[uint]int64, len(menuCounts))
	for _, mc := range menuCounts {
		menus[mc.RestaurantID] = mc.N
	}
	orders := make(map[uint]int64, len(orderCounts))
	for _, oc := range orderCounts {
		orders[oc.RestaurantID] = oc.N
	}

	summaries := make([]restaurantSummary, 0, len(restaurants))
	for _, r := range restaurants {
		summaries = append(summaries, restaurantSummary{Restaurant: r, MenuItemCount: menus[r.ID], OrderCount: orders[r.ID]})
	}
	utils.RespondJSON(c, http.StatusOK, "All restaurants", summaries)
}

type restaurantInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Cuisine     *string `json:"cuisine"`
	Location    *string `json:"location"`
	IsActive    *bool   `json:"is_active"`
	OwnerID     *uint   `json:"owner_id"`
}

// updates returns only the provided fields, so false and empty values are written too.
func (in restaurantInput) updates() map[string]interface{} {
	m := map[string]interface{}{}
	if in.Name != nil {
		m["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	if in.Image != nil {
		m["image"] = *in.Image
	}
	if in.Cuisine != nil {
		m["cuisine"] = *in.Cuisine
	}
	if in.Location != nil {
		m["location"] = *in.Location
	}
	if in.IsActive != nil {
		m["is_active"] = *in.IsActive
	}
	if in.OwnerID != nil {
		m["owner_id"] = *in.OwnerID
	}
	return m
}

// checkOwner requires the owner to be a STAFF or ADMIN account.
func (rc *RestaurantController) checkOwner(ownerID uint) error {
	var owner models.User
	err := rc.DB.First(&owner, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Validation("owner not found")
	}
	if err != nil {
		return utils.Internal("failed to load owner", err)
	}
	if owner.Role != models.RoleStaff && owner.Role != models.RoleAdmin {
		return utils.Validation("owner must be staff or admin")
	}
	return nil
}

func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var in restaurantInput
	if err := bindJSON(c, &in); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.OwnerID == nil {
		utils.RespondAppError(c, utils.Validation("name and owner_id are required"))
		return
	}
	if err := rc.checkOwner(*in.OwnerID); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	restaurant := models.Restaurant{
		Name:     strings.TrimSpace(*in.Name),
		Image:    in.Image,
		Cuisine:  in.Cuisine,
		Location: in.Location,
		IsActive: true,
		OwnerID:  *in.OwnerID,
	}
	if in.Description != nil {
		restaurant.Description = *in.Description
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to create restaurant", err))
		return
	}
	// is_active has a database default, so an explicit false needs its own write.
	if in.IsActive != nil && !*in.IsActive {
		if err := rc.DB.Model(&restaurant).Update("is_active", false).Error; err != nil {
			utils.RespondAppError(c, utils.Internal("failed to create restaurant", err))
			return
		}
		restaurant.IsActive = false
	}

	utils.InfoLogger.WithField("restaurant_id", restaurant.ID).Info("restaurant created")
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var in restaurantInput
	if err := bindJSON(c, &in); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		utils.RespondAppError(c, utils.Validation("name must not be empty"))
		return
	}
	if in.OwnerID != nil {
		if err := rc.checkOwner(*in.OwnerID); err != nil {
			utils.RespondAppError(c, err)
			return
		}
	}

	var restaurant models.Restaurant
	err = rc.DB.First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.NotFound("restaurant not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load restaurant", err))
		return
	}

	if updates := in.updates(); len(updates) > 0 {
		if err := rc.DB.Model(&restaurant).Updates(updates).Error; err != nil {
			utils.RespondAppError(c, utils.Internal("failed to update restaurant", err))
			return
		}
	}
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to reload restaurant", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant removes a restaurant and its menu. Restaurants with orders
// are kept for the order history; deactivate them instead.
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("restaurant not found")
			}
			return err
		}
		var orders int64
		if err := tx.Model(&models.Order{}).Where("restaurant_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return utils.Validation("restaurant has orders, deactivate it instead")
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		var appErr *utils.AppError
		if !errors.As(err, &appErr) {
			err = utils.Internal("failed to delete restaurant", err)
		}
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("restaurant_id", id).Info("restaurant deleted")
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}
