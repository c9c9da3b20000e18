package handlers

import (
	"lifeline/internal/middleware"
	"lifeline/internal/models"
	"lifeline/internal/services"
	"lifeline/internal/utils"
	"lifeline/internal/validators"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService services.ProfileService
	auditService   services.AuditService
}

func NewProfileHandler(profileService services.ProfileService, auditService services.AuditService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		auditService:   auditService,
	}
}

// GetProfile returns the authenticated user's emergency profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "emergency profile")
		return
	}

	utils.SuccessResponse(c, "Emergency profile retrieved", profile)
}

// UpdateProfile applies a partial update to the emergency profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var update models.EmergencyProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateProfileUpdate(&update); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &update)
	if err != nil {
		handleServiceError(c, err, "emergency profile")
		return
	}

	utils.SuccessResponse(c, "Emergency profile updated", profile)
}

// GetAuditTrail returns the user's data access history
func (h *ProfileHandler) GetAuditTrail(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.auditService.GetUserTrail(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err, "audit trail")
		return
	}

	utils.SuccessResponseWithMeta(c, "Audit trail retrieved", entries, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
