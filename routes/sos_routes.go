package routes

import (
	shared "lifeline/internal/handlers/shared"
	"lifeline/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSOSRoutes sets up the SOS lifecycle, tracking and disclosure routes
func SetupSOSRoutes(r *gin.RouterGroup, jwtSecret string, sosHandler *shared.SOSHandler, disclosureHandler *shared.DisclosureHandler) {
	sos := r.Group("/sos")
	sos.Use(middleware.AuthRequired(jwtSecret))
	{
		// User-facing lifecycle
		sos.POST("/", sosHandler.TriggerSOS)
		sos.GET("/:id", sosHandler.GetEvent)
		sos.PUT("/:id/resolve", sosHandler.ResolveSOS)
		sos.GET("/history", sosHandler.GetHistory)
		sos.DELETE("/data", sosHandler.EraseData)

		// Live tracking, visible to the user and responders alike
		sos.GET("/:id/route", sosHandler.GetRoute)
		sos.GET("/:id/eta", sosHandler.GetETA)
	}

	// Responder-side operations
	responder := r.Group("/sos")
	responder.Use(middleware.AuthRequired(jwtSecret), middleware.ResponderRequired())
	{
		responder.GET("/active", sosHandler.GetActiveEvents)
		responder.PUT("/:id/acknowledge", sosHandler.AcknowledgeSOS)
		responder.PUT("/:id/dispatch", sosHandler.DispatchAmbulance)
		responder.PUT("/:id/position", sosHandler.UpdatePosition)
		responder.GET("/:id/emergency-data", disclosureHandler.GetEmergencyData)
	}

	// Audit access for compliance review
	admin := r.Group("/admin/sos")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/:id/audit", disclosureHandler.GetEventTrail)
	}
}
