// internal/models/transporter.go
package models

type Transporter struct {
	BaseModel
	Name      string `json:"name" gorm:"size:200;not null"`
	TradeName string `json:"trade_name" gorm:"size:200"`
	CNPJ      string `json:"cnpj" gorm:"uniqueIndex;size:14;not null"`
	Verified  bool   `json:"verified" gorm:"default:false"`

	// Relationships
	Users    []User    `json:"users,omitempty" gorm:"foreignKey:TransporterID"`
	Vehicles []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:TransporterID"`
}
