// internal/models/license.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// LicenseRequest is one AET request targeting one or more states. The
// per-state sub-records travel in the packed arrays below; use the
// states package to read or write them, never split entries by hand.
type LicenseRequest struct {
	BaseModel
	RequestNumber string       `json:"request_number" gorm:"size:20;uniqueIndex"`
	TransporterID uint         `json:"transporter_id" gorm:"not null;index"`
	CreatedByID   uint         `json:"created_by_id" gorm:"not null;index"`
	ConjunctType  ConjunctType `json:"conjunct_type" gorm:"type:varchar(30);not null"`
	CargoType     string       `json:"cargo_type" gorm:"size:120"`

	// Dimensions in integer centimeters, displayed as meters by clients.
	LengthCm int `json:"length_cm"`
	WidthCm  int `json:"width_cm"`
	HeightCm int `json:"height_cm"`

	TractorUnitID   *uint          `json:"tractor_unit_id" gorm:"index"`
	FirstTrailerID  *uint          `json:"first_trailer_id"`
	DollyID         *uint          `json:"dolly_id"`
	SecondTrailerID *uint          `json:"second_trailer_id"`
	FlatbedID       *uint          `json:"flatbed_id"`
	ExtraPlates     pq.StringArray `json:"extra_plates" gorm:"type:text[]"`

	States          pq.StringArray `json:"states" gorm:"type:text[]"`
	StateStatuses   pq.StringArray `json:"state_statuses" gorm:"type:text[]"`
	StateFiles      pq.StringArray `json:"state_files" gorm:"type:text[]"`
	StateAETNumbers pq.StringArray `json:"state_aet_numbers" gorm:"type:text[]"`

	Status         string     `json:"status" gorm:"type:varchar(30);default:'pending_registration';index"`
	IsDraft        bool       `json:"is_draft" gorm:"default:true;index"`
	ValidUntil     *time.Time `json:"valid_until"`
	LicenseFileURL string     `json:"license_file_url" gorm:"type:text"`
	Comments       string     `json:"comments" gorm:"type:text"`
	SubmittedAt    *time.Time `json:"submitted_at"`

	// Relationships
	Transporter   Transporter `json:"transporter,omitempty" gorm:"foreignKey:TransporterID"`
	CreatedBy     User        `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	TractorUnit   *Vehicle    `json:"tractor_unit,omitempty" gorm:"foreignKey:TractorUnitID"`
	FirstTrailer  *Vehicle    `json:"first_trailer,omitempty" gorm:"foreignKey:FirstTrailerID"`
	Dolly         *Vehicle    `json:"dolly,omitempty" gorm:"foreignKey:DollyID"`
	SecondTrailer *Vehicle    `json:"second_trailer,omitempty" gorm:"foreignKey:SecondTrailerID"`
	Flatbed       *Vehicle    `json:"flatbed,omitempty" gorm:"foreignKey:FlatbedID"`
}
