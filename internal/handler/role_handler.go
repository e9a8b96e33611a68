package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mafiatrack/backend/internal/database"
	"mafiatrack/backend/internal/models"
)

type RoleInput struct {
	Name        string `json:"name" binding:"required,max=25"`
	Description string `json:"description" binding:"max=100"`
	Team        string `json:"team" binding:"required,oneof=Mafia Town"`
}

type RoleResponse struct {
	ID          uint        `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Team        models.Team `json:"team"`
}

func newRoleResponse(role models.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
		Name:        role.Name,
		Description: role.Description,
		Team:        role.Team,
	}
}

// CreateRole godoc
// @Summary      Create a new role
// @Description  Creates an assignable in-game role belonging to one of the two teams.
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoleInput true "Role Info"
// @Success      201  {object}  RoleResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Router       /admin/roles [post]
func CreateRole(c *gin.Context) {
	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role{
		Name:        input.Name,
		Description: input.Description,
		Team:        models.Team(input.Team),
	}
	if err := database.DB.Create(&role).Error; err != nil {
		if errors.Is(err, models.ErrInvalidTeam) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, newRoleResponse(role))
}

// GetRoles godoc
// @Summary      Get all roles
// @Description  Retrieves the list of assignable roles.
// @Tags         admin-roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   RoleResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Router       /admin/roles [get]
func GetRoles(c *gin.Context) {
	var roles []models.Role
	if err := database.DB.Order("name").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve roles"})
		return
	}

	response := make([]RoleResponse, len(roles))
	for i, role := range roles {
		response[i] = newRoleResponse(role)
	}
	c.JSON(http.StatusOK, response)
}

// UpdateRole godoc
// @Summary      Update a role
// @Description  Updates an existing role's name, description or team.
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     int       true "Role ID"
// @Param        input body     RoleInput true "New Role Info"
// @Success      200  {object}  RoleResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      404  {object}  ErrorResponse "Role not found"
// @Router       /admin/roles/{id} [put]
func UpdateRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role models.Role
	if err := database.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	role.Name = input.Name
	role.Description = input.Description
	role.Team = models.Team(input.Team)
	if err := database.DB.Save(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, newRoleResponse(role))
}

// DeleteRole godoc
// @Summary      Delete a role
// @Description  Deletes a role; participations referencing it are removed by cascade.
// @Tags         admin-roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  map[string]string "{"message": "Role deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      404  {object}  ErrorResponse "Role not found"
// @Router       /admin/roles/{id} [delete]
func DeleteRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	result := database.DB.Unscoped().Delete(&models.Role{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}
