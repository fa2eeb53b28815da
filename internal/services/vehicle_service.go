// internal/services/vehicle_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aetflow/aet-backend/internal/models"
	"github.com/aetflow/aet-backend/internal/utils"
)

type VehicleService struct {
	db *gorm.DB
}

func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{db: db}
}

type VehicleRequest struct {
	Plate        string             `json:"plate" validate:"required,plate"`
	Type         models.VehicleType `json:"type" validate:"required"`
	Renavam      string             `json:"renavam" validate:"omitempty,len=11,numeric"`
	Brand        string             `json:"brand" validate:"max=60"`
	Model        string             `json:"model" validate:"max=60"`
	Year         int                `json:"year" validate:"omitempty,gte=1960,lte=2100"`
	AxleCount    int                `json:"axle_count" validate:"omitempty,gte=1,lte=12"`
	TareWeightKg int                `json:"tare_weight_kg" validate:"gte=0"`
	BodyType     string             `json:"body_type" validate:"max=60"`
}

var vehicleTypes = map[models.VehicleType]bool{
	models.VehicleTypeTractorUnit: true,
	models.VehicleTypeSemiTrailer: true,
	models.VehicleTypeDolly:       true,
	models.VehicleTypeTrailer:     true,
	models.VehicleTypeFlatbed:     true,
	models.VehicleTypeTruck:       true,
}

func (s *VehicleService) Create(transporterID uint, req *VehicleRequest) (*models.Vehicle, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !vehicleTypes[req.Type] {
		return nil, errors.New("invalid vehicle type")
	}
	if transporterID == 0 {
		return nil, errors.New("account is not linked to a transporter")
	}

	plate := utils.NormalizePlate(req.Plate)

	var existing models.Vehicle
	err := s.db.Where("transporter_id = ? AND plate = ?", transporterID, plate).First(&existing).Error
	if err == nil {
		return nil, errors.New("a vehicle with this plate is already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	vehicle := &models.Vehicle{
		TransporterID: transporterID,
		Plate:         plate,
		Type:          req.Type,
		Renavam:       req.Renavam,
		Brand:         req.Brand,
		Model:         req.Model,
		Year:          req.Year,
		AxleCount:     req.AxleCount,
		TareWeightKg:  req.TareWeightKg,
		BodyType:      req.BodyType,
	}

	if err := s.db.Create(vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return vehicle, nil
}

func (s *VehicleService) Update(id, transporterID uint, req *VehicleRequest) (*models.Vehicle, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	vehicle, err := s.Get(id, transporterID)
	if err != nil {
		return nil, err
	}

	vehicle.Plate = utils.NormalizePlate(req.Plate)
	vehicle.Type = req.Type
	vehicle.Renavam = req.Renavam
	vehicle.Brand = req.Brand
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.AxleCount = req.AxleCount
	vehicle.TareWeightKg = req.TareWeightKg
	vehicle.BodyType = req.BodyType

	if err := s.db.Save(vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	return vehicle, nil
}

func (s *VehicleService) Get(id, transporterID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vehicle not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if vehicle.TransporterID != transporterID {
		return nil, errors.New("unauthorized to access this vehicle")
	}

	return &vehicle, nil
}

func (s *VehicleService) List(transporterID uint, params utils.PaginationParams) ([]models.Vehicle, int64, error) {
	query := s.db.Model(&models.Vehicle{}).Where("transporter_id = ?", transporterID)

	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where("plate ILIKE ? OR brand ILIKE ? OR model ILIKE ?", term, term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	allowedSortFields := []string{"created_at", "plate", "type", "year"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	return vehicles, total, nil
}

// Delete refuses while the vehicle is referenced by a non-draft request.
func (s *VehicleService) Delete(id, transporterID uint) error {
	vehicle, err := s.Get(id, transporterID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.LicenseRequest{}).
		Where("is_draft = ? AND (tractor_unit_id = ? OR first_trailer_id = ? OR dolly_id = ? OR second_trailer_id = ? OR flatbed_id = ?)",
			false, id, id, id, id, id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check license references: %w", err)
	}
	if count > 0 {
		return errors.New("vehicle is referenced by a submitted license request")
	}

	if err := s.db.Delete(vehicle).Error; err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}
