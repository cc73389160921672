package controllers

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

// slugify lowercases name and joins its words with dashes.
func slugify(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}

// GetAllCategories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	categories := []models.Category{}
	if err := mcc.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list categories", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// taken reports whether another category already uses name or slug.
func (mcc *MenuCategoryController) taken(name, slug string, exceptID uint) (bool, error) {
	var n int64
	err := mcc.DB.Model(&models.Category{}).
		Where("(name = ? OR slug = ?) AND id <> ?", name, slug, exceptID).
		Count(&n).Error
	return n > 0, err
}

// CreateCategory
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name  string  `json:"name" binding:"required"`
		Slug  string  `json:"slug"`
		Image *string `json:"image"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	category := models.Category{
		Name:  strings.TrimSpace(body.Name),
		Slug:  slugify(body.Slug),
		Image: body.Image,
	}
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	if category.Name == "" || category.Slug == "" {
		utils.RespondAppError(c, utils.Validation("name is required"))
		return
	}

	exists, err := mcc.taken(category.Name, category.Slug, 0)
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to check category", err))
		return
	}
	if exists {
		utils.RespondAppError(c, utils.Validation("category name or slug already exists"))
		return
	}

	if err := mcc.DB.Create(&category).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to create category", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var body struct {
		Name  *string `json:"name"`
		Slug  *string `json:"slug"`
		Image *string `json:"image"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var category models.Category
	err = mcc.DB.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.NotFound("category not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load category", err))
		return
	}

	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		category.Name = strings.TrimSpace(*body.Name)
	}
	if body.Slug != nil && slugify(*body.Slug) != "" {
		category.Slug = slugify(*body.Slug)
	}
	if body.Image != nil {
		category.Image = body.Image
	}

	exists, err := mcc.taken(category.Name, category.Slug, category.ID)
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to check category", err))
		return
	}
	if exists {
		utils.RespondAppError(c, utils.Validation("category name or slug already exists"))
		return
	}

	if err := mcc.DB.Save(&category).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to update category", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory detaches its menu items before removing it.
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	err = mcc.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NotFound("category not found")
		}
		return tx.Model(&models.MenuItem{}).Where("category_id = ?", id).Update("category_id", nil).Error
	})
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			err = utils.Internal("failed to delete category", err)
		}
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
