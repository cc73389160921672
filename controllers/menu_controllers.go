package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems -> every menu item with restaurant and category, optionally ?restaurant_id=
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	q := mc.DB.Preload("Restaurant").Preload("Category").Order("created_at DESC")
	if rid := c.Query("restaurant_id"); rid != "" {
		q = q.Where("restaurant_id = ?", rid)
	}

	items := []models.MenuItem{}
	if err := q.Find(&items).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list menu items", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

type menuItemInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Image        *string  `json:"image"`
	IsAvailable  *bool    `json:"is_available"`
	RestaurantID *uint    `json:"restaurant_id"`
	CategoryID   *uint    `json:"category_id"`
}

func (in menuItemInput) validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return utils.Validation("name must not be empty")
	}
	if in.Price != nil && *in.Price < 0 {
		return utils.Validation("price must not be negative")
	}
	return nil
}

func (in menuItemInput) updates() map[string]interface{} {
	m := map[string]interface{}{}
	if in.Name != nil {
		m["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	if in.Price != nil {
		m["price"] = *in.Price
	}
	if in.Image != nil {
		m["image"] = *in.Image
	}
	if in.IsAvailable != nil {
		m["is_available"] = *in.IsAvailable
	}
	if in.RestaurantID != nil {
		m["restaurant_id"] = *in.RestaurantID
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			m["category_id"] = nil
		} else {
			m["category_id"] = *in.CategoryID
		}
	}
	return m
}

// checkRefs makes sure referenced restaurant and category exist.
func (mc *MenuController) checkRefs(in menuItemInput) error {
	if in.RestaurantID != nil {
		var n int64
		if err := mc.DB.Model(&models.Restaurant{}).Where("id = ?", *in.RestaurantID).Count(&n).Error; err != nil {
			return utils.Internal("failed to check restaurant", err)
		}
		if n == 0 {
			return utils.Validation("restaurant not found")
		}
	}
	if in.CategoryID != nil && *in.CategoryID != 0 {
		var n int64
		if err := mc.DB.Model(&models.Category{}).Where("id = ?", *in.CategoryID).Count(&n).Error; err != nil {
			return utils.Internal("failed to check category", err)
		}
		if n == 0 {
			return utils.Validation("category not found")
		}
	}
	return nil
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var in menuItemInput
	if err := bindJSON(c, &in); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if in.Name == nil || in.Price == nil || in.RestaurantID == nil {
		utils.RespondAppError(c, utils.Validation("name, price and restaurant_id are required"))
		return
	}
	if err := in.validate(); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := mc.checkRefs(in); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	item := models.MenuItem{
		Name:         strings.TrimSpace(*in.Name),
		Price:        *in.Price,
		Image:        in.Image,
		IsAvailable:  true,
		RestaurantID: *in.RestaurantID,
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil && *in.CategoryID != 0 {
		item.CategoryID = in.CategoryID
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if in.IsAvailable != nil && !*in.IsAvailable {
			item.IsAvailable = false
			return tx.Model(&item).Update("is_available", false).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to create menu item", err))
		return
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"menu_item_id":  item.ID,
		"restaurant_id": item.RestaurantID,
	}).Info("menu item created")
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem applies a partial update. {"is_available": false} hides the item from the menu.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var in menuItemInput
	if err := bindJSON(c, &in); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := in.validate(); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := mc.checkRefs(in); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var item models.MenuItem
	err = mc.DB.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.NotFound("menu item not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load menu item", err))
		return
	}

	if updates := in.updates(); len(updates) > 0 {
		if err := mc.DB.Model(&item).Updates(updates).Error; err != nil {
			utils.RespondAppError(c, utils.Internal("failed to update menu item", err))
			return
		}
	}
	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to reload menu item", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem refuses items that appear on orders; mark them unavailable instead.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var used int64
	if err := mc.DB.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&used).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to check order items", err))
		return
	}
	if used > 0 {
		utils.RespondAppError(c, utils.Validation("menu item is on existing orders, mark it unavailable instead"))
		return
	}

	res := mc.DB.Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		utils.RespondAppError(c, utils.Internal("failed to delete menu item", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondAppError(c, utils.NotFound("menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_item_id": id})
}
