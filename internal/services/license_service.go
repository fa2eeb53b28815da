// internal/services/license_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aetflow/aet-backend/internal/database"
	"github.com/aetflow/aet-backend/internal/models"
	"github.com/aetflow/aet-backend/internal/realtime"
	"github.com/aetflow/aet-backend/internal/states"
	"github.com/aetflow/aet-backend/internal/utils"
)

type LicenseService struct {
	db                  *gorm.DB
	storageService      *StorageService
	notificationService *NotificationService
	hub                 *realtime.Hub
}

func NewLicenseService(db *gorm.DB, storageService *StorageService, notificationService *NotificationService, hub *realtime.Hub) *LicenseService {
	return &LicenseService{
		db:                  db,
		storageService:      storageService,
		notificationService: notificationService,
		hub:                 hub,
	}
}

type DraftRequest struct {
	ConjunctType    models.ConjunctType `json:"conjunct_type" validate:"required"`
	CargoType       string              `json:"cargo_type" validate:"max=120"`
	LengthCm        int                 `json:"length_cm" validate:"gte=0"`
	WidthCm         int                 `json:"width_cm" validate:"gte=0"`
	HeightCm        int                 `json:"height_cm" validate:"gte=0"`
	TractorUnitID   *uint               `json:"tractor_unit_id"`
	FirstTrailerID  *uint               `json:"first_trailer_id"`
	DollyID         *uint               `json:"dolly_id"`
	SecondTrailerID *uint               `json:"second_trailer_id"`
	FlatbedID       *uint               `json:"flatbed_id"`
	ExtraPlates     []string            `json:"extra_plates" validate:"dive,plate"`
	States          []string            `json:"states" validate:"dive,uf"`
}

type UpdateStatusRequest struct {
	Status     string                `form:"status" validate:"required"`
	Comments   string                `form:"comments"`
	ValidUntil string                `form:"valid_until"` // 2006-01-02
	File       *multipart.FileHeader `form:"-"`
}

type UpdateStateStatusRequest struct {
	State      string                `form:"state" validate:"required,uf"`
	Status     string                `form:"status" validate:"required"`
	Comments   string                `form:"comments"`
	AETNumber  string                `form:"aet_number"`
	ValidUntil string                `form:"valid_until"` // 2006-01-02
	File       *multipart.FileHeader `form:"-"`
}

type LicenseSearchParams struct {
	utils.PaginationParams
	Status string
	State  string
	From   *time.Time
	To     *time.Time
}

var conjunctTypes = map[models.ConjunctType]bool{
	models.ConjunctRoadTrain7Axles: true,
	models.ConjunctRoadTrain9Axles: true,
	models.ConjunctBitrain7Axles:   true,
	models.ConjunctBitrain9Axles:   true,
	models.ConjunctFlatbed:         true,
	models.ConjunctTruckAndTrailer: true,
}

func (s *LicenseService) CreateDraft(userID, transporterID uint, req *DraftRequest) (*models.LicenseRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !conjunctTypes[req.ConjunctType] {
		return nil, errors.New("invalid conjunct type")
	}
	if transporterID == 0 {
		return nil, errors.New("account is not linked to a transporter")
	}

	license := &models.LicenseRequest{
		TransporterID: transporterID,
		CreatedByID:   userID,
		ConjunctType:  req.ConjunctType,
		CargoType:     req.CargoType,
		LengthCm:      req.LengthCm,
		WidthCm:       req.WidthCm,
		HeightCm:      req.HeightCm,
		ExtraPlates:   normalizePlates(req.ExtraPlates),
		States:        states.Dedupe(req.States),
		Status:        string(states.StatusPendingRegistration),
		IsDraft:       true,
	}
	s.applyVehicleRefs(license, req)

	if err := s.validateVehicleOwnership(license, transporterID); err != nil {
		return nil, err
	}

	if err := s.db.Create(license).Error; err != nil {
		return nil, fmt.Errorf("failed to create license request: %w", err)
	}

	return license, nil
}

func (s *LicenseService) UpdateDraft(id, userID uint, req *DraftRequest) (*models.LicenseRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	license, err := s.ownedDraft(id, userID)
	if err != nil {
		return nil, err
	}

	license.ConjunctType = req.ConjunctType
	license.CargoType = req.CargoType
	license.LengthCm = req.LengthCm
	license.WidthCm = req.WidthCm
	license.HeightCm = req.HeightCm
	license.ExtraPlates = normalizePlates(req.ExtraPlates)
	license.States = states.Dedupe(req.States)
	s.applyVehicleRefs(license, req)

	if err := s.validateVehicleOwnership(license, license.TransporterID); err != nil {
		return nil, err
	}

	if err := s.db.Save(license).Error; err != nil {
		return nil, fmt.Errorf("failed to update license request: %w", err)
	}

	return license, nil
}

func (s *LicenseService) DeleteDraft(id, userID uint) error {
	license, err := s.ownedDraft(id, userID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(license).Error; err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// SubmitDraft turns a draft into a live request: the request number is
// assigned here, every target state starts at pending_registration.
func (s *LicenseService) SubmitDraft(id, userID uint) (*models.LicenseRequest, error) {
	license, err := s.ownedDraft(id, userID)
	if err != nil {
		return nil, err
	}

	if len(license.States) == 0 {
		return nil, errors.New("at least one target state is required before submission")
	}
	if license.TractorUnitID == nil && license.FlatbedID == nil {
		return nil, errors.New("a tractor unit or flatbed is required before submission")
	}

	now := time.Now()
	license.IsDraft = false
	license.SubmittedAt = &now
	license.RequestNumber = fmt.Sprintf("AET-%d-%06d", now.Year(), license.ID)
	license.Status = string(states.ProjectOverall(states.DecodeAll(license.StateStatuses, license.States)))

	if err := s.db.Save(license).Error; err != nil {
		return nil, fmt.Errorf("failed to submit draft: %w", err)
	}

	return license, nil
}

// renewalDraft assembles the single-state draft a renewal opens. The
// vehicle composition, dimensions and cargo carry over from the source;
// per-state history (statuses, documents, AET numbers) starts empty.
func renewalDraft(source *models.LicenseRequest, state string, userID uint) *models.LicenseRequest {
	return &models.LicenseRequest{
		TransporterID:   source.TransporterID,
		CreatedByID:     userID,
		ConjunctType:    source.ConjunctType,
		CargoType:       source.CargoType,
		LengthCm:        source.LengthCm,
		WidthCm:         source.WidthCm,
		HeightCm:        source.HeightCm,
		TractorUnitID:   source.TractorUnitID,
		FirstTrailerID:  source.FirstTrailerID,
		DollyID:         source.DollyID,
		SecondTrailerID: source.SecondTrailerID,
		FlatbedID:       source.FlatbedID,
		ExtraPlates:     source.ExtraPlates,
		States:          []string{state},
		Status:          string(states.StatusPendingRegistration),
		IsDraft:         true,
	}
}

// Renew opens a fresh draft scoped to a single state of an existing
// license, copying the composition but none of the per-state history.
func (s *LicenseService) Renew(licenseID uint, state string, userID, transporterID uint) (*models.LicenseRequest, error) {
	state = normalizeState(state)
	if !utils.ValidStateCode(state) {
		return nil, errors.New("invalid state code")
	}

	var source models.LicenseRequest
	if err := s.db.First(&source, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if source.TransporterID != transporterID {
		return nil, errors.New("unauthorized to renew this license request")
	}

	if !containsState(source.States, state) {
		return nil, errors.New("license request does not target this state")
	}

	draft := renewalDraft(&source, state, userID)

	if err := s.db.Create(draft).Error; err != nil {
		return nil, fmt.Errorf("failed to create renewal draft: %w", err)
	}

	return draft, nil
}

func (s *LicenseService) GetLicense(id uint, transporterID uint, staff bool) (*models.LicenseRequest, error) {
	var license models.LicenseRequest
	if err := s.preloadVehicles(s.db).Preload("Transporter").First(&license, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !staff && license.TransporterID != transporterID {
		return nil, errors.New("unauthorized to view this license request")
	}

	return &license, nil
}

// ListOwn returns the caller transporter's requests, drafts included.
func (s *LicenseService) ListOwn(transporterID uint, params LicenseSearchParams) ([]models.LicenseRequest, int64, error) {
	query := s.db.Model(&models.LicenseRequest{}).Where("transporter_id = ?", transporterID)
	return s.listLicenses(query, params)
}

// ListIssued returns requests with at least one approved state.
func (s *LicenseService) ListIssued(transporterID uint, params LicenseSearchParams) ([]models.LicenseRequest, int64, error) {
	query := s.db.Model(&models.LicenseRequest{}).
		Where("transporter_id = ? AND is_draft = ?", transporterID, false).
		Where("EXISTS (SELECT 1 FROM unnest(state_statuses) AS entry WHERE split_part(entry, ':', 2) IN ('approved', 'released'))")
	return s.listLicenses(query, params)
}

// AdminList returns every request, staff only.
func (s *LicenseService) AdminList(params LicenseSearchParams) ([]models.LicenseRequest, int64, error) {
	query := s.db.Model(&models.LicenseRequest{})
	return s.listLicenses(query, params)
}

// AdminListExpanded flattens all requests into per-state rows, then
// filters/sorts/paginates the expanded list so one license can appear
// once per matching state.
func (s *LicenseService) AdminListExpanded(params LicenseSearchParams) ([]states.Row, int64, error) {
	var licenses []models.LicenseRequest
	if err := s.db.Where("is_draft = ?", false).Order("created_at DESC").Find(&licenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch license requests: %w", err)
	}

	filter := states.RowFilter{
		Search: params.Search,
		From:   params.From,
		To:     params.To,
	}
	if params.Status != "" {
		filter.Status = states.Normalize(params.Status)
	}
	rows := states.FilterRows(states.ExpandAll(licenses), filter)

	states.SortRows(rows, params.Sort, params.Order == "desc")
	total := int64(len(rows))
	return states.PaginateRows(rows, params.Page, params.Limit), total, nil
}

// UpdateStatus overrides the aggregate status of a request and
// optionally attaches the overall issued document and validity.
func (s *LicenseService) UpdateStatus(ctx context.Context, id uint, req *UpdateStatusRequest) (*models.LicenseRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := states.Normalize(req.Status)
	if status == states.StatusUnknown {
		return nil, errors.New("invalid status")
	}

	var license models.LicenseRequest
	if err := s.db.First(&license, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if license.IsDraft {
		return nil, errors.New("draft requests have no status to update")
	}

	license.Status = string(status)
	if req.Comments != "" {
		license.Comments = req.Comments
	}

	if req.ValidUntil != "" {
		validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
		if err != nil {
			return nil, errors.New("invalid validity date, expected YYYY-MM-DD")
		}
		license.ValidUntil = &validUntil
	}

	if req.File != nil {
		result, err := s.uploadDocument(req.File, "license_documents")
		if err != nil {
			return nil, err
		}
		license.LicenseFileURL = result.URL
	}

	if err := s.db.Save(&license).Error; err != nil {
		return nil, fmt.Errorf("failed to update license request: %w", err)
	}

	s.hub.Publish(ctx, realtime.Event{
		Type: realtime.EventStatusUpdate,
		Data: realtime.EventData{
			LicenseID: license.ID,
			Status:    license.Status,
			License:   &license,
		},
	})

	return &license, nil
}

// UpdateStateStatus rewrites one state's packed entry and recomputes
// the aggregate projection in the same transaction, then broadcasts
// the change.
func (s *LicenseService) UpdateStateStatus(ctx context.Context, id uint, req *UpdateStateStatusRequest) (*models.LicenseRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := states.Normalize(req.Status)
	if status == states.StatusUnknown {
		return nil, errors.New("invalid status")
	}
	if status == states.StatusApproved && req.ValidUntil == "" {
		return nil, errors.New("an approval requires a validity date")
	}
	if req.ValidUntil != "" {
		if _, err := time.Parse("2006-01-02", req.ValidUntil); err != nil {
			return nil, errors.New("invalid validity date, expected YYYY-MM-DD")
		}
	}

	var license models.LicenseRequest
	if err := s.db.First(&license, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if license.IsDraft {
		return nil, errors.New("draft requests have no status to update")
	}

	state := normalizeState(req.State)
	if !containsState(license.States, state) {
		return nil, errors.New("license request does not target this state")
	}

	var fileURL string
	if req.File != nil {
		result, err := s.uploadDocument(req.File, "state_documents")
		if err != nil {
			return nil, err
		}
		fileURL = result.URL
	}
	if status == states.StatusApproved && fileURL == "" && states.Value(license.StateFiles, state) == "" {
		return nil, errors.New("an approval requires the issued AET document")
	}

	rec := states.Record{State: state, Status: status, AETNumber: req.AETNumber}
	if status == states.StatusApproved {
		rec.ValidUntil = req.ValidUntil
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		license.StateStatuses = states.Encode(license.StateStatuses, rec)
		if fileURL != "" {
			license.StateFiles = states.SetValue(license.StateFiles, state, fileURL)
		}
		if req.AETNumber != "" {
			license.StateAETNumbers = states.SetValue(license.StateAETNumbers, state, req.AETNumber)
		}
		if req.Comments != "" {
			license.Comments = req.Comments
		}

		license.Status = string(states.ProjectOverall(states.DecodeAll(license.StateStatuses, license.States)))

		return tx.Save(&license).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update state status: %w", err)
	}

	s.hub.Publish(ctx, realtime.Event{
		Type: realtime.EventStatusUpdate,
		Data: realtime.EventData{
			LicenseID: license.ID,
			State:     state,
			Status:    string(status),
		},
	})

	if s.notificationService != nil && status.IsTerminal() {
		go notifyAsync(logrus.Fields{"license_id": license.ID, "state": state}, func() error {
			return s.notificationService.SendStateStatusNotification(&license, state, status, req.Comments)
		})
	}

	return &license, nil
}

func (s *LicenseService) listLicenses(query *gorm.DB, params LicenseSearchParams) ([]models.LicenseRequest, int64, error) {
	if params.Status != "" {
		query = query.Where("status = ?", string(states.Normalize(params.Status)))
	}
	if state := normalizeState(params.State); state != "" {
		// Stored entries are always upper-cased, the query filter
		// must be too.
		query = query.Where("? = ANY(states)", state)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at <= ?", *params.To)
	}
	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where("request_number ILIKE ? OR cargo_type ILIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count license requests: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "request_number", "status", "valid_until"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var licenses []models.LicenseRequest
	if err := s.preloadVehicles(query).Find(&licenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch license requests: %w", err)
	}

	return licenses, total, nil
}

func (s *LicenseService) preloadVehicles(query *gorm.DB) *gorm.DB {
	return query.Preload("TractorUnit").Preload("FirstTrailer").Preload("Dolly").
		Preload("SecondTrailer").Preload("Flatbed")
}

func (s *LicenseService) ownedDraft(id, userID uint) (*models.LicenseRequest, error) {
	var license models.LicenseRequest
	if err := s.db.First(&license, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if license.CreatedByID != userID {
		return nil, errors.New("unauthorized to modify this license request")
	}
	if !license.IsDraft {
		return nil, errors.New("only drafts can be modified by the requester")
	}

	return &license, nil
}

func (s *LicenseService) applyVehicleRefs(license *models.LicenseRequest, req *DraftRequest) {
	license.TractorUnitID = req.TractorUnitID
	license.FirstTrailerID = req.FirstTrailerID
	license.DollyID = req.DollyID
	license.SecondTrailerID = req.SecondTrailerID
	license.FlatbedID = req.FlatbedID
}

func (s *LicenseService) validateVehicleOwnership(license *models.LicenseRequest, transporterID uint) error {
	ids := make([]uint, 0, 5)
	for _, ref := range []*uint{license.TractorUnitID, license.FirstTrailerID, license.DollyID, license.SecondTrailerID, license.FlatbedID} {
		if ref != nil {
			ids = append(ids, *ref)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.Vehicle{}).
		Where("id IN ? AND transporter_id = ?", ids, transporterID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to verify vehicles: %w", err)
	}
	if count != int64(len(ids)) {
		return errors.New("referenced vehicle does not belong to this transporter")
	}
	return nil
}

func (s *LicenseService) uploadDocument(header *multipart.FileHeader, category string) (*UploadResult, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions(category))
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	return result, nil
}

func normalizeState(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizePlates(plates []string) []string {
	out := make([]string, 0, len(plates))
	for _, p := range plates {
		if p = utils.NormalizePlate(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsState(list []string, state string) bool {
	for _, s := range list {
		if s == state {
			return true
		}
	}
	return false
}
