package handlers

import (
	"lifeline/internal/services"
	"lifeline/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DisclosureHandler struct {
	disclosureService services.DisclosureService
	auditService      services.AuditService
}

func NewDisclosureHandler(disclosureService services.DisclosureService, auditService services.AuditService) *DisclosureHandler {
	return &DisclosureHandler{
		disclosureService: disclosureService,
		auditService:      auditService,
	}
}

// GetEmergencyData returns the grant-scoped data packet for an SOS event.
// The requesting responder's identity goes into the audit trail.
func (h *DisclosureHandler) GetEmergencyData(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidObjectID)
		return
	}

	requestedBy := utils.EmergencyResponderParty
	if userID, exists := c.Get(utils.ContextUserID); exists {
		if oid, ok := userID.(primitive.ObjectID); ok {
			requestedBy = "responder:" + oid.Hex()
		}
	}

	data, err := h.disclosureService.GetDisclosure(c.Request.Context(), eventID, requestedBy)
	if err != nil {
		handleServiceError(c, err, "SOS event")
		return
	}

	utils.SuccessResponse(c, "Emergency data retrieved", data)
}

// GetEventTrail returns every access decision recorded against an event
func (h *DisclosureHandler) GetEventTrail(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidObjectID)
		return
	}

	entries, err := h.auditService.GetEventTrail(c.Request.Context(), eventID.Hex())
	if err != nil {
		handleServiceError(c, err, "audit trail")
		return
	}

	utils.SuccessResponseWithMeta(c, "Event audit trail retrieved", entries, &utils.Meta{
		Count: len(entries),
	})
}
