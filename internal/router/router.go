package router

import (
	"resourcehub/internal/handlers"
	"resourcehub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(middleware.LoadKey())

	resourceHandler := handlers.NewResourceHandler()
	voteHandler := handlers.NewVoteHandler()
	tagHandler := handlers.NewTagHandler()

	// Public reads
	r.GET("/resources", resourceHandler.List)
	r.GET("/resources/:id", resourceHandler.Get)
	r.GET("/languages", tagHandler.ListLanguages)
	r.GET("/categories", tagHandler.ListCategories)

	// Click tracking works without an API key
	r.PUT("/resources/:id/click", resourceHandler.Click)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/resources", resourceHandler.Create)
		authorized.PUT("/resources/:id", resourceHandler.Update)
		authorized.PUT("/resources/:id/:direction", voteHandler.Vote)
	}
}
