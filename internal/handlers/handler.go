package handlers

import (
	"rotarykeypad/internal/logger"
	"rotarykeypad/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "rotarykeypad/docs" // swagger spec registration
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	auth := router.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}

	api := router.Group("/api/v1", h.userIdMiddleware)
	{
		d := api.Group("/dial")
		{
			d.GET("/state", h.getState)
			d.GET("/events", h.getEvents)
		}
		api.POST("/keys/test", h.testKey)
	}

	// Live state stream over a WebSocket upgrade, same port.
	router.GET("/ws", h.wsConnect)

	return router
}
