// internal/handlers/vehicle.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aetflow/aet-backend/internal/i18n"
	"github.com/aetflow/aet-backend/internal/services"
	"github.com/aetflow/aet-backend/internal/utils"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// POST /vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	vehicle, err := h.vehicleService.Create(transporterID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVehicleCreated),
		"vehicle": vehicle,
	})
}

// PUT /vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	vehicle, err := h.vehicleService.Update(id, transporterID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVehicleUpdated),
		"vehicle": vehicle,
	})
}

// GET /vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.Get(id, transporterID)
	if err != nil {
		utils.NotFoundResponse(c, "vehicle")
		return
	}

	utils.SuccessResponse(c, gin.H{"vehicle": vehicle})
}

// GET /vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	vehicles, total, err := h.vehicleService.List(transporterID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(vehicles, total, params))
}

// DELETE /vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.vehicleService.Delete(id, transporterID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyVehicleDeleted)})
}
