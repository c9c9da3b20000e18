package routes

import (
	shared "lifeline/internal/handlers/shared"
	"lifeline/internal/middleware"
	"lifeline/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupProfileRoutes sets up emergency profile and hospital directory routes
func SetupProfileRoutes(r *gin.RouterGroup, jwtSecret string, profileHandler *shared.ProfileHandler, hospitalHandler *shared.HospitalHandler) {
	profile := r.Group("/emergency-profile")
	profile.Use(middleware.AuthRequired(jwtSecret))
	{
		profile.GET("/", profileHandler.GetProfile)
		profile.PUT("/", profileHandler.UpdateProfile)
		profile.GET("/audit", profileHandler.GetAuditTrail)
	}

	hospitals := r.Group("/hospitals")
	hospitals.Use(middleware.AuthRequired(jwtSecret))
	{
		hospitals.GET("/nearby", hospitalHandler.GetNearby)
	}

	admin := r.Group("/admin/hospitals")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/", hospitalHandler.Register)
	}
}

// SetupWebSocketRoutes exposes the live tracking socket
func SetupWebSocketRoutes(r *gin.RouterGroup, jwtSecret string, wsHandler *websocket.Handler) {
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(jwtSecret))
	{
		ws.GET("/", wsHandler.HandleWebSocket)
	}
}
