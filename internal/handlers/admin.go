// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aetflow/aet-backend/internal/i18n"
	"github.com/aetflow/aet-backend/internal/services"
	"github.com/aetflow/aet-backend/internal/utils"
)

type AdminHandler struct {
	licenseService     *services.LicenseService
	transporterService *services.TransporterService
}

func NewAdminHandler(licenseService *services.LicenseService, transporterService *services.TransporterService) *AdminHandler {
	return &AdminHandler{
		licenseService:     licenseService,
		transporterService: transporterService,
	}
}

// GET /admin/licenses
// With ?expand=state the response is one row per (license, state) pair
// instead of one per license.
func (h *AdminHandler) ListLicenses(c *gin.Context) {
	params := buildLicenseSearchParams(c)

	if c.Query("expand") == "state" {
		rows, total, err := h.licenseService.AdminListExpanded(params)
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		utils.PaginatedResponse(c, utils.CreatePaginationResult(rows, total, params.PaginationParams))
		return
	}

	licenses, total, err := h.licenseService.AdminList(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(licenses, total, params.PaginationParams))
}

// PATCH /admin/licenses/:id/status
// Multipart form: status, comments, valid_until, licenseFile.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	req := &services.UpdateStatusRequest{
		Status:     c.PostForm("status"),
		Comments:   c.PostForm("comments"),
		ValidUntil: c.PostForm("valid_until"),
	}
	if file, err := c.FormFile("licenseFile"); err == nil {
		req.File = file
	}

	license, err := h.licenseService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseStatusUpdated),
		"license": license,
	})
}

// PATCH /admin/licenses/:id/state-status
// Multipart form: state, status, comments, aet_number, valid_until,
// stateFile.
func (h *AdminHandler) UpdateStateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	req := &services.UpdateStateStatusRequest{
		State:      c.PostForm("state"),
		Status:     c.PostForm("status"),
		Comments:   c.PostForm("comments"),
		AETNumber:  c.PostForm("aet_number"),
		ValidUntil: c.PostForm("valid_until"),
	}
	if file, err := c.FormFile("stateFile"); err == nil {
		req.File = file
	}

	license, err := h.licenseService.UpdateStateStatus(c.Request.Context(), id, req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseStatusUpdated),
		"license": license,
	})
}

// GET /admin/transporters
func (h *AdminHandler) ListTransporters(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	transporters, total, err := h.transporterService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transporters, total, params))
}

// POST /admin/transporters/:id/verify
func (h *AdminHandler) VerifyTransporter(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transporter, err := h.transporterService.Verify(c.Request.Context(), id)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"transporter": transporter})
}
