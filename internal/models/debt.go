package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DebtType says which way the money went
type DebtType string

const (
	DebtTypeLent     DebtType = "lent"     // they owe me
	DebtTypeBorrowed DebtType = "borrowed" // I owe them
)

// DebtStatus is the lifecycle state of a debt.
// active and settled are derived from the payment ledger; archived is set
// manually and overrides the derivation until the debt is reactivated.
type DebtStatus string

const (
	DebtStatusActive   DebtStatus = "active"
	DebtStatusSettled  DebtStatus = "settled"
	DebtStatusArchived DebtStatus = "archived"
)

// PaymentMedium represents how money changed hands
type PaymentMedium string

const (
	MediumTransfer PaymentMedium = "Transferencia"
	MediumCash     PaymentMedium = "Efectivo"
	MediumCard     PaymentMedium = "Tarjeta"
	MediumOther    PaymentMedium = "Otro"
)

// ValidMedium reports whether m is one of the accepted payment mediums
func ValidMedium(m PaymentMedium) bool {
	switch m {
	case MediumTransfer, MediumCash, MediumCard, MediumOther:
		return true
	default:
		return false
	}
}

// Debt represents money lent to or borrowed from a counterparty.
// PaidAmount and Status are derived from Payments and must never be set
// independently of the ledger.
type Debt struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID   string   `gorm:"type:varchar(128);index" json:"user_id"`
	Type     DebtType `gorm:"type:varchar(20)" json:"type"`
	PersonID string   `gorm:"type:uuid;index" json:"person_id"`

	// Counterparty is a display-name snapshot taken when the debt is created.
	// Renaming the person later does not rewrite it.
	Counterparty string `gorm:"type:varchar(255)" json:"counterparty"`

	Amount       float64       `gorm:"type:decimal(15,2)" json:"amount"`      // principal
	PaidAmount   float64       `gorm:"type:decimal(15,2)" json:"paid_amount"` // derived
	Status       DebtStatus    `gorm:"type:varchar(20);default:'active'" json:"status"`
	Reason       string        `gorm:"type:varchar(255)" json:"reason"`
	Medium       PaymentMedium `gorm:"type:varchar(50)" json:"medium"`
	Date         time.Time     `json:"date"`
	DueDate      *time.Time    `json:"due_date,omitempty"`
	Observations string        `gorm:"type:text" json:"observations,omitempty"`
	Evidence     []string      `gorm:"serializer:json;type:text" json:"evidence"`

	// Relationships
	Person   Person    `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Payments []Payment `gorm:"foreignKey:DebtID" json:"payments"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Remaining returns the pending balance. Negative when overpaid.
func (d Debt) Remaining() float64 {
	return d.Amount - d.PaidAmount
}
