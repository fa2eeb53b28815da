// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleTransporter UserRole = "transporter"
	UserRoleOperator    UserRole = "operator"
	UserRoleAdmin       UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type VehicleType string

const (
	VehicleTypeTractorUnit VehicleType = "tractor_unit"
	VehicleTypeSemiTrailer VehicleType = "semi_trailer"
	VehicleTypeDolly       VehicleType = "dolly"
	VehicleTypeTrailer     VehicleType = "trailer"
	VehicleTypeFlatbed     VehicleType = "flatbed"
	VehicleTypeTruck       VehicleType = "truck"
)

type ConjunctType string

const (
	ConjunctRoadTrain7Axles ConjunctType = "road_train_7_axles"
	ConjunctRoadTrain9Axles ConjunctType = "road_train_9_axles"
	ConjunctBitrain7Axles   ConjunctType = "bitrain_7_axles"
	ConjunctBitrain9Axles   ConjunctType = "bitrain_9_axles"
	ConjunctFlatbed         ConjunctType = "flatbed"
	ConjunctTruckAndTrailer ConjunctType = "truck_and_trailer"
)
