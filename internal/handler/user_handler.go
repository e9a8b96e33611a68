package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mafiatrack/backend/internal/config"
	"mafiatrack/backend/internal/database"
	"mafiatrack/backend/internal/identity"
	"mafiatrack/backend/internal/models"
)

// region --- DTOs ---

// UserResponse defines the admin-facing view of a user profile. The
// permission-assignment field itself is never exposed for editing.
type UserResponse struct {
	ID          uint      `json:"id" example:"1"`
	CreatedAt   time.Time `json:"created_at"`
	Email       string    `json:"email" example:"don@example.com"`
	FirstName   string    `json:"first_name" example:"Don"`
	LastName    string    `json:"last_name" example:"Corleone"`
	Nickname    string    `json:"nickname" example:"thedon"`
	Image       string    `json:"image,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
}

// UpdateMeInput defines the fields a user may change on their own profile.
type UpdateMeInput struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=25"`
	LastName  *string `json:"last_name" binding:"omitempty,max=25"`
	Nickname  *string `json:"nickname" binding:"omitempty,max=25"`
}

// AdminCreateUserInput defines the admin console's user-creation form.
type AdminCreateUserInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name" binding:"max=25"`
	LastName    string `json:"last_name" binding:"max=25"`
	Nickname    string `json:"nickname" binding:"max=25"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// SetActiveInput toggles an account's activation flag.
type SetActiveInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func newUserResponse(user models.UserProfile) UserResponse {
	return UserResponse{
		ID:          user.ID,
		CreatedAt:   user.CreatedAt,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Nickname:    user.Nickname,
		Image:       user.Image,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
	}
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	user, err := identity.NewStore(database.DB).GetByID(viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Updates the name and nickname fields of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateMeInput true "Profile fields"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input UpdateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := identity.NewStore(database.DB).GetByID(viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Nickname != nil {
		updates["nickname"] = *input.Nickname
	}

	if len(updates) > 0 {
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// UploadAvatar godoc
// @Summary      Upload an avatar image
// @Description  Stores the uploaded image and records its path on the profile.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Avatar image"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/avatar [post]
func UploadAvatar(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	user, err := identity.NewStore(database.DB).GetByID(viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Stored under a generated name so uploads can never collide.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(config.AppConfig.UploadDir, "userprofile", name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	if err := database.DB.Model(user).Update("image", dst).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// endregion

// region --- Admin Handlers ---

// ListUsers godoc
// @Summary      List user profiles
// @Description  Lists users with pagination; q searches email, first and last name.
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for email, first or last name"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[UserResponse]
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Superuser access required"
// @Router       /admin/users [get]
func ListUsers(c *gin.Context) {
	searchQuery := c.Query("q")
	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))

	query := database.DB.Model(&models.UserProfile{})
	if searchQuery != "" {
		pattern := "%" + searchQuery + "%"
		query = query.Where(
			"LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	var users []models.UserProfile
	offset := (page - 1) * limit
	if err := query.Order("email").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = newUserResponse(user)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// AdminCreateUser godoc
// @Summary      Create a user profile
// @Description  Creates a regular user, or a superuser when is_superuser is set.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AdminCreateUserInput true "User Info"
// @Success      201  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      409  {object}  ErrorResponse "Email already registered"
// @Router       /admin/users [post]
func AdminCreateUser(c *gin.Context) {
	var input AdminCreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := identity.NewStore(database.DB)
	extra := identity.Extra{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Nickname:    input.Nickname,
		IsSuperuser: input.IsSuperuser,
	}

	var user *models.UserProfile
	var err error
	if input.IsSuperuser != nil && *input.IsSuperuser {
		user, err = store.CreateSuperuser(input.Email, input.Password, extra)
	} else {
		user, err = store.CreateUser(input.Email, input.Password, extra)
	}
	if err != nil {
		if ve, ok := identity.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(*user))
}

// SetUserActive godoc
// @Summary      Activate or deactivate a user
// @Description  Deactivation is the supported way to retire an account.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "User ID"
// @Param        input body      SetActiveInput true  "Activation flag"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Superuser access required"
// @Failure      404   {object}  ErrorResponse "User not found"
// @Router       /admin/users/{id}/active [patch]
func SetUserActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input SetActiveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := identity.NewStore(database.DB).SetActive(uint(id), *input.IsActive)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// DeleteUser godoc
// @Summary      Delete a user profile
// @Description  Permanently removes a user; their game participations are removed by cascade.
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string "{"message": "User deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /admin/users/{id} [delete]
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := identity.NewStore(database.DB).Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// endregion
