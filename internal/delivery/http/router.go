package http

import (
	"github.com/James3014/snowbuddy-backend/internal/delivery/http/handler"
	"github.com/James3014/snowbuddy-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	searchHandler  *handler.SearchHandler
	requestHandler *handler.RequestHandler
	authMiddleware *middleware.AuthMiddleware
}

func NewRouter(
	searchHandler *handler.SearchHandler,
	requestHandler *handler.RequestHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		searchHandler:  searchHandler,
		requestHandler: requestHandler,
		authMiddleware: authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Matching search routes
			matching := protected.Group("/matching")
			{
				matching.POST("/searches", r.searchHandler.SubmitSearch)
				matching.GET("/searches/:search_id", r.searchHandler.GetSearch)
			}

			// Buddy request routes
			requests := protected.Group("/requests")
			{
				requests.POST("", r.requestHandler.CreateRequest)
				requests.GET("", r.requestHandler.ListRequests)
				requests.GET("/:id", r.requestHandler.GetRequest)
				requests.PUT("/:id", r.requestHandler.RespondRequest)
			}
		}
	}

	return router
}
