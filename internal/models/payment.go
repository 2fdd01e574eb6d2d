package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one entry in a debt's ledger. Payments are immutable once
// created; the only mutation is deletion.
type Payment struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	DebtID   string        `gorm:"type:uuid;index" json:"debt_id"`
	Amount   float64       `gorm:"type:decimal(15,2)" json:"amount"`
	Medium   PaymentMedium `gorm:"type:varchar(50)" json:"medium"`
	Note     string        `gorm:"type:varchar(255)" json:"note,omitempty"`
	Date     time.Time     `json:"date"`
	Evidence *string       `gorm:"type:varchar(512)" json:"evidence,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
