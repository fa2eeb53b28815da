// internal/handlers/license.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aetflow/aet-backend/internal/i18n"
	"github.com/aetflow/aet-backend/internal/services"
	"github.com/aetflow/aet-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// POST /licenses
func (h *LicenseHandler) CreateDraft(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	transporterID, _ := utils.GetTransporterIDFromContext(c)

	var req services.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	license, err := h.licenseService.CreateDraft(userID, transporterID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseCreated),
		"license": license,
	})
}

// PUT /licenses/:id
func (h *LicenseHandler) UpdateDraft(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	license, err := h.licenseService.UpdateDraft(id, userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseUpdated),
		"license": license,
	})
}

// DELETE /licenses/:id
func (h *LicenseHandler) DeleteDraft(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.licenseService.DeleteDraft(id, userID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyLicenseDeleted)})
}

// POST /licenses/:id/submit
func (h *LicenseHandler) SubmitDraft(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	license, err := h.licenseService.SubmitDraft(id, userID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseSubmitted),
		"license": license,
	})
}

// POST /licenses/renew
func (h *LicenseHandler) Renew(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	transporterID, _ := utils.GetTransporterIDFromContext(c)

	var req struct {
		LicenseID uint   `json:"license_id" binding:"required"`
		State     string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	draft, err := h.licenseService.Renew(req.LicenseID, req.State, userID, transporterID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseRenewalCreated),
		"license": draft,
	})
}

// GET /licenses/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	transporterID, _ := utils.GetTransporterIDFromContext(c)
	role, _ := utils.GetUserRoleFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	staff := role == "admin" || role == "operator"
	license, err := h.licenseService.GetLicense(id, transporterID, staff)
	if err != nil {
		utils.NotFoundResponse(c, "license")
		return
	}

	utils.SuccessResponse(c, gin.H{"license": license})
}

// GET /licenses
func (h *LicenseHandler) ListLicenses(c *gin.Context) {
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := buildLicenseSearchParams(c)
	licenses, total, err := h.licenseService.ListOwn(transporterID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(licenses, total, params.PaginationParams))
}

// GET /licenses/issued
func (h *LicenseHandler) ListIssued(c *gin.Context) {
	transporterID, exists := utils.GetTransporterIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := buildLicenseSearchParams(c)
	licenses, total, err := h.licenseService.ListIssued(transporterID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(licenses, total, params.PaginationParams))
}

func buildLicenseSearchParams(c *gin.Context) services.LicenseSearchParams {
	params := services.LicenseSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		Status:           c.Query("status"),
		State:            c.Query("state"),
	}

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			params.To = &end
		}
	}

	return params
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID", nil)
		return 0, false
	}
	return uint(id), true
}
