// internal/models/vehicle.go
package models

type Vehicle struct {
	BaseModel
	TransporterID uint        `json:"transporter_id" gorm:"not null;uniqueIndex:idx_vehicles_transporter_plate"`
	Plate         string      `json:"plate" gorm:"size:7;not null;uniqueIndex:idx_vehicles_transporter_plate"`
	Type          VehicleType `json:"type" gorm:"type:varchar(20);not null;index"`
	Renavam       string      `json:"renavam" gorm:"size:11"`
	Brand         string      `json:"brand" gorm:"size:60"`
	Model         string      `json:"model" gorm:"size:60"`
	Year          int         `json:"year"`
	AxleCount     int         `json:"axle_count"`
	TareWeightKg  int         `json:"tare_weight_kg"`
	BodyType      string      `json:"body_type" gorm:"size:60"`

	// Relationships
	Transporter Transporter `json:"transporter,omitempty" gorm:"foreignKey:TransporterID"`
}
