package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func userView(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	}
}

// Register creates a CUSTOMER account. Roles are only granted by an admin.
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	if err := uc.DB.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to check email", err))
		return
	}
	if existing > 0 {
		utils.RespondAppError(c, utils.Validation("email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to hash password", err))
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleCustomer,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to create user", err))
		return
	}

	utils.InfoLogger.WithField("user_id", user.ID).Info("user registered")
	utils.RespondJSON(c, http.StatusCreated, "User registered", userView(user))
}

// Login exchanges credentials for a bearer token.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var user models.User
	err := uc.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.Unauthorized("invalid credentials"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load user", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondAppError(c, utils.Unauthorized("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to issue token", err))
		return
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("login successful")

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  userView(user),
	})
}

// Logout revokes the presented token until it would have expired.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	expiresAt := time.Now().Add(utils.TokenTTL)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondAppError(c, utils.Unauthorized("unauthorized"))
		return
	}

	var user models.User
	err := uc.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.NotFound("user not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load user", err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", userView(user))
}

// GetAllUsers lists accounts for the admin users screen, newest first.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	users := []models.User{}
	if err := uc.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to list users", err))
		return
	}

	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	utils.RespondJSON(c, http.StatusOK, "All users", views)
}

// UpdateUserRole changes an account's role.
func (uc *UserController) UpdateUserRole(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(body.Role)))
	if !role.Valid() {
		utils.RespondAppError(c, utils.Validation("invalid role"))
		return
	}

	var user models.User
	err = uc.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, utils.NotFound("user not found"))
		return
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to load user", err))
		return
	}

	if err := uc.DB.Model(&user).Update("role", role).Error; err != nil {
		utils.RespondAppError(c, utils.Internal("failed to update role", err))
		return
	}
	user.Role = role

	utils.InfoLogger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    role,
	}).Info("user role updated")
	utils.RespondJSON(c, http.StatusOK, "User role updated", userView(user))
}
