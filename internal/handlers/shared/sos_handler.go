package handlers

import (
	"lifeline/internal/middleware"
	"lifeline/internal/models"
	"lifeline/internal/services"
	"lifeline/internal/utils"
	"lifeline/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SOSHandler struct {
	sosService      services.SOSService
	trackingService services.TrackingService
}

func NewSOSHandler(sosService services.SOSService, trackingService services.TrackingService) *SOSHandler {
	return &SOSHandler{
		sosService:      sosService,
		trackingService: trackingService,
	}
}

// TriggerSOS creates a new emergency event for the authenticated user
func (h *SOSHandler) TriggerSOS(c *gin.Context) {
	var request models.SOSCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	request.UserID = userID

	if errs := validators.ValidateSOSCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	event, err := h.sosService.TriggerSOS(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.CreatedResponse(c, "SOS triggered", event)
}

// AcknowledgeSOS marks a triggered event as received by a responder
func (h *SOSHandler) AcknowledgeSOS(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	event, err := h.sosService.AcknowledgeSOS(c.Request.Context(), eventID)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "SOS acknowledged", event)
}

// DispatchAmbulance assigns an ambulance and route to an acknowledged event
func (h *SOSHandler) DispatchAmbulance(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	var request models.SOSDispatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateSOSDispatch(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	event, err := h.sosService.DispatchAmbulance(c.Request.Context(), eventID, &request)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "Ambulance dispatched", event)
}

// UpdatePosition ingests one ambulance position sample
func (h *SOSHandler) UpdatePosition(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	var request models.SOSPositionUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateSOSPositionUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	event, err := h.sosService.UpdateAmbulancePosition(c.Request.Context(), eventID, request.Position, request.ProgressIndex)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "Position updated", event)
}

// ResolveSOS closes an event and revokes its disclosure grant
func (h *SOSHandler) ResolveSOS(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	event, err := h.sosService.ResolveSOS(c.Request.Context(), eventID)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "SOS resolved", event)
}

// GetEvent returns a single SOS event
func (h *SOSHandler) GetEvent(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	event, err := h.sosService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "SOS event retrieved", event)
}

// GetActiveEvents lists open events visible to responders
func (h *SOSHandler) GetActiveEvents(c *gin.Context) {
	events, err := h.sosService.GetActiveEvents(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "SOS events")
		return
	}

	utils.SuccessResponseWithMeta(c, "Active SOS events retrieved", events, &utils.Meta{
		Count: len(events),
	})
}

// GetHistory lists the authenticated user's past events
func (h *SOSHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	events, total, err := h.sosService.GetUserHistory(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err, "SOS events")
		return
	}

	utils.SuccessResponseWithMeta(c, "SOS history retrieved", events, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetRoute returns the traveled and remaining polyline segments
func (h *SOSHandler) GetRoute(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	render, err := h.trackingService.GetRouteRender(c.Request.Context(), eventID)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "Route retrieved", render)
}

// GetETA returns the arrival estimate for an event
func (h *SOSHandler) GetETA(c *gin.Context) {
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	eta, err := h.trackingService.GetETA(c.Request.Context(), eventID)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "ETA retrieved", eta)
}

// EraseData deletes all SOS data for the authenticated user
func (h *SOSHandler) EraseData(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	deleted, err := h.sosService.EraseUserData(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "user data")
		return
	}

	utils.SuccessResponse(c, "Emergency data erased", gin.H{"events_deleted": deleted})
}

func (h *SOSHandler) eventID(c *gin.Context) (primitive.ObjectID, bool) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidObjectID)
		return primitive.NilObjectID, false
	}
	return eventID, true
}
