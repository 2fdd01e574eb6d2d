package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocType represents the identity document type of a person
type DocType string

const (
	DocTypeCC       DocType = "CC"
	DocTypeCE       DocType = "CE"
	DocTypeTI       DocType = "TI"
	DocTypeNIT      DocType = "NIT"
	DocTypePassport DocType = "Pasaporte"
)

// Person represents a counterparty: someone the user lends to or borrows from
type Person struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string  `gorm:"type:varchar(128);index" json:"user_id"`
	FirstName string  `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string  `gorm:"type:varchar(255)" json:"last_name"`
	DocType   DocType `gorm:"type:varchar(20);default:'CC'" json:"doc_type"`
	DocNumber string  `gorm:"type:varchar(50)" json:"doc_number"`
	Phone     string  `gorm:"type:varchar(50)" json:"phone"`
	Email     string  `gorm:"type:varchar(255)" json:"email"`

	// Relationships
	Debts []Debt `gorm:"foreignKey:PersonID" json:"debts,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FullName returns the display name used as the debt counterparty snapshot
func (p Person) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
