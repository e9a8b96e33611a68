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

// region --- DTOs ---

type ParticipantInput struct {
	UserID uint `json:"user_id" binding:"required"`
	RoleID uint `json:"role_id" binding:"required"`
}

type GameInput struct {
	EndTime      time.Time          `json:"end_time" binding:"required"`
	Winner       string             `json:"winner" binding:"required,oneof=Mafia Town"`
	Participants []ParticipantInput `json:"participants"`
}

type ParticipationResponse struct {
	ID       uint        `json:"id"`
	UserID   uint        `json:"user_id"`
	Nickname string      `json:"nickname"`
	RoleID   uint        `json:"role_id"`
	RoleName string      `json:"role_name"`
	Team     models.Team `json:"team"`
}

type GameResponse struct {
	ID           uint                    `json:"id"`
	Timestamp    time.Time               `json:"timestamp"`
	EndTime      time.Time               `json:"end_time"`
	Winner       models.Team             `json:"winner"`
	Participants []ParticipationResponse `json:"participants"`
}

func newParticipationResponse(p models.GameParticipation) ParticipationResponse {
	return ParticipationResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		Nickname: p.User.Nickname,
		RoleID:   p.RoleID,
		RoleName: p.Role.Name,
		Team:     p.Role.Team,
	}
}

func newGameResponse(game models.Game) GameResponse {
	participants := make([]ParticipationResponse, len(game.Participations))
	for i, p := range game.Participations {
		participants[i] = newParticipationResponse(p)
	}

	return GameResponse{
		ID:           game.ID,
		Timestamp:    game.CreatedAt,
		EndTime:      game.EndTime,
		Winner:       game.Winner,
		Participants: participants,
	}
}

// endregion

// region --- Game Handlers ---

// CreateGame godoc
// @Summary      Record a completed game
// @Description  Persists a finished game's outcome along with each participant's role.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game outcome"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Router       /admin/games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game := models.Game{
		EndTime: input.EndTime,
		Winner:  models.Team(input.Winner),
	}
	for _, p := range input.Participants {
		game.Participations = append(game.Participations, models.GameParticipation{
			UserID: p.UserID,
			RoleID: p.RoleID,
		})
	}

	if err := database.DB.Create(&game).Error; err != nil {
		if errors.Is(err, models.ErrEndTimeRequired) || errors.Is(err, models.ErrInvalidTeam) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to record game"})
		return
	}

	// Reload so participant nicknames and role names are populated.
	database.DB.
		Preload("Participations.User").
		Preload("Participations.Role").
		First(&game, game.ID)

	c.JSON(http.StatusCreated, newGameResponse(game))
}

// GetGames godoc
// @Summary      List recorded games
// @Description  Retrieves recorded games with pagination, newest first.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[GameResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))

	var totalItems int64
	if err := database.DB.Model(&models.Game{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
		return
	}

	var games []models.Game
	offset := (page - 1) * limit
	err := database.DB.
		Preload("Participations.User").
		Preload("Participations.Role").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&games).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	responses := make([]GameResponse, len(games))
	for i, game := range games {
		responses[i] = newGameResponse(game)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// GetGameByID godoc
// @Summary      Get game by ID
// @Description  Retrieves one recorded game with its participants.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var game models.Game
	err = database.DB.
		Preload("Participations.User").
		Preload("Participations.Role").
		First(&game, uint(id)).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game))
}

// DeleteGame godoc
// @Summary      Delete a recorded game
// @Description  Removes a game record; its participations are removed by cascade.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  map[string]string "{"message": "Game deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	result := database.DB.Unscoped().Delete(&models.Game{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion

// region --- Participation Handlers ---

// AddParticipation godoc
// @Summary      Add a participant to a game
// @Description  Records that a user played the given role in an already recorded game.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     int              true "Game ID"
// @Param        input body     ParticipantInput true "Participant"
// @Success      201  {object}  ParticipationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id}/participations [post]
func AddParticipation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var input ParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var game models.Game
	if err := database.DB.First(&game, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	participation := models.GameParticipation{
		GameID: game.ID,
		UserID: input.UserID,
		RoleID: input.RoleID,
	}
	if err := database.DB.Create(&participation).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to record participation"})
		return
	}

	err = database.DB.
		Preload("User").
		Preload("Role").
		First(&participation, participation.ID).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load participation"})
		return
	}

	c.JSON(http.StatusCreated, newParticipationResponse(participation))
}

// DeleteParticipation godoc
// @Summary      Remove a participation record
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Participation ID"
// @Success      200  {object}  map[string]string "{"message": "Participation deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Superuser access required"
// @Failure      404  {object}  ErrorResponse "Participation not found"
// @Router       /admin/participations/{id} [delete]
func DeleteParticipation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participation ID"})
		return
	}

	result := database.DB.Unscoped().Delete(&models.GameParticipation{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete participation"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participation deleted"})
}

// endregion
