// internal/services/transporter_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aetflow/aet-backend/internal/models"
	"github.com/aetflow/aet-backend/internal/utils"
)

type TransporterService struct {
	db            *gorm.DB
	transparencia *TransparenciaClient
}

func NewTransporterService(db *gorm.DB, transparencia *TransparenciaClient) *TransporterService {
	return &TransporterService{db: db, transparencia: transparencia}
}

type TransporterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=150"`
	TradeName string `json:"trade_name" validate:"max=150"`
	CNPJ      string `json:"cnpj" validate:"required,cnpj"`
}

func (s *TransporterService) Create(ctx context.Context, req *TransporterRequest) (*models.Transporter, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cnpj := utils.NormalizeCNPJ(req.CNPJ)

	var existing models.Transporter
	err := s.db.Where("cnpj = ?", cnpj).First(&existing).Error
	if err == nil {
		return nil, errors.New("a transporter with this CNPJ is already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	transporter := &models.Transporter{
		Name:      req.Name,
		TradeName: req.TradeName,
		CNPJ:      cnpj,
	}
	s.verifyAgainstRegistry(ctx, transporter)

	if err := s.db.Create(transporter).Error; err != nil {
		return nil, fmt.Errorf("failed to create transporter: %w", err)
	}

	return transporter, nil
}

func (s *TransporterService) Update(id uint, req *TransporterRequest) (*models.Transporter, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	transporter, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	cnpj := utils.NormalizeCNPJ(req.CNPJ)
	if cnpj != transporter.CNPJ {
		return nil, errors.New("the CNPJ of a transporter cannot be changed")
	}

	transporter.Name = req.Name
	transporter.TradeName = req.TradeName

	if err := s.db.Save(transporter).Error; err != nil {
		return nil, fmt.Errorf("failed to update transporter: %w", err)
	}

	return transporter, nil
}

func (s *TransporterService) Get(id uint) (*models.Transporter, error) {
	var transporter models.Transporter
	if err := s.db.First(&transporter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transporter not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &transporter, nil
}

func (s *TransporterService) List(params utils.PaginationParams) ([]models.Transporter, int64, error) {
	query := s.db.Model(&models.Transporter{})

	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR trade_name ILIKE ? OR cnpj LIKE ?", term, term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transporters: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "cnpj"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transporters []models.Transporter
	if err := query.Find(&transporters).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transporters: %w", err)
	}

	return transporters, total, nil
}

// Verify re-checks a transporter against the federal registry, staff only.
func (s *TransporterService) Verify(ctx context.Context, id uint) (*models.Transporter, error) {
	transporter, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	s.verifyAgainstRegistry(ctx, transporter)
	if !transporter.Verified {
		return nil, errors.New("CNPJ could not be verified against the federal registry")
	}

	if err := s.db.Save(transporter).Error; err != nil {
		return nil, fmt.Errorf("failed to update transporter: %w", err)
	}

	return transporter, nil
}

// verifyAgainstRegistry enriches the record from Portal da Transparência
// when the client is configured. Lookup failures are logged, not fatal:
// registration must not depend on an external API being up.
func (s *TransporterService) verifyAgainstRegistry(ctx context.Context, transporter *models.Transporter) {
	if s.transparencia == nil || !s.transparencia.Enabled() {
		return
	}

	info, err := s.transparencia.Lookup(ctx, transporter.CNPJ)
	if err != nil {
		logrus.WithError(err).WithField("cnpj", transporter.CNPJ).Warn("CNPJ registry lookup failed")
		return
	}
	if info == nil {
		return
	}

	if info.Name != "" {
		transporter.Name = info.Name
	}
	if info.TradeName != "" && transporter.TradeName == "" {
		transporter.TradeName = info.TradeName
	}
	transporter.Verified = true
}
