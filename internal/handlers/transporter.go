// internal/handlers/transporter.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aetflow/aet-backend/internal/i18n"
	"github.com/aetflow/aet-backend/internal/services"
	"github.com/aetflow/aet-backend/internal/utils"
)

type TransporterHandler struct {
	transporterService *services.TransporterService
}

func NewTransporterHandler(transporterService *services.TransporterService) *TransporterHandler {
	return &TransporterHandler{
		transporterService: transporterService,
	}
}

// POST /transporters
func (h *TransporterHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.TransporterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transporter, err := h.transporterService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyTransporterCreated),
		"transporter": transporter,
	})
}

// GET /transporters/me
func (h *TransporterHandler) GetOwn(c *gin.Context) {
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.NotFoundResponse(c, "transporter")
		return
	}

	transporter, err := h.transporterService.Get(transporterID)
	if err != nil {
		utils.NotFoundResponse(c, "transporter")
		return
	}

	utils.SuccessResponse(c, gin.H{"transporter": transporter})
}

// PUT /transporters/me
func (h *TransporterHandler) UpdateOwn(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.NotFoundResponse(c, "transporter")
		return
	}

	var req services.TransporterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transporter, err := h.transporterService.Update(transporterID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"transporter": transporter})
}
