// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name          string     `json:"name" gorm:"size:120;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string     `json:"-" gorm:"size:255;not null"`
	Role          UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'transporter'"`
	Status        UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	TransporterID *uint      `json:"transporter_id" gorm:"index"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	// Relationships
	Transporter *Transporter `json:"transporter,omitempty" gorm:"foreignKey:TransporterID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsStaff() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleOperator
}
