package main

import (
	"fmt"
	"log"
	"net/http"

	"mafiatrack/backend/internal/auth"
	"mafiatrack/backend/internal/config"
	"mafiatrack/backend/internal/database"
	"mafiatrack/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "mafiatrack/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Mafiatrack API
// @version         1.0
// @description     User accounts and game records for a mafia night tracker.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.POST("/me/avatar", handler.UploadAvatar)
		}

		// Game routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/:id", handler.GetGameByID)
		}

		// Admin routes (protected by auth and superuser check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// User administration
			adminUserRoutes := adminRoutes.Group("/users")
			{
				adminUserRoutes.GET("", handler.ListUsers)
				adminUserRoutes.POST("", handler.AdminCreateUser)
				adminUserRoutes.PATCH("/:id/active", handler.SetUserActive)
				adminUserRoutes.DELETE("/:id", handler.DeleteUser)
			}

			// Roles CRUD
			roles := adminRoutes.Group("/roles")
			{
				roles.POST("", handler.CreateRole)
				roles.GET("", handler.GetRoles)
				roles.PUT("/:id", handler.UpdateRole)
				roles.DELETE("/:id", handler.DeleteRole)
			}

			// Game records (admin-only parts)
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", handler.CreateGame)
				adminGameRoutes.DELETE("/:id", handler.DeleteGame)
				adminGameRoutes.POST("/:id/participations", handler.AddParticipation)
			}
			adminRoutes.DELETE("/participations/:id", handler.DeleteParticipation)
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ListenAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ListenAddr))
}
