package handlers

import (
	"strconv"

	"lifeline/internal/models"
	"lifeline/internal/services"
	"lifeline/internal/utils"

	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	hospitalService services.HospitalService
}

func NewHospitalHandler(hospitalService services.HospitalService) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
	}
}

// GetNearby lists hospitals around a coordinate, closest first
func (h *HospitalHandler) GetNearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "lat is required")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "lng is required")
		return
	}

	radiusKM, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "0"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	hospitals, err := h.hospitalService.GetNearby(c.Request.Context(), lat, lng, radiusKM, limit)
	if err != nil {
		handleServiceError(c, err, "hospitals")
		return
	}

	utils.SuccessResponseWithMeta(c, "Nearby hospitals retrieved", hospitals, &utils.Meta{
		Count: len(hospitals),
	})
}

// Register adds a hospital to the directory (admin only)
func (h *HospitalHandler) Register(c *gin.Context) {
	var hospital models.Hospital
	if err := c.ShouldBindJSON(&hospital); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.hospitalService.Register(c.Request.Context(), &hospital); err != nil {
		handleServiceError(c, err, "hospital")
		return
	}

	utils.CreatedResponse(c, "Hospital registered", hospital)
}
