package provider

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
)

// Postgres is the remote provider: a thin GORM layer over the relational
// backend. Derivation stays in the service layer; this type only moves rows.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres wraps an initialized GORM connection.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	var debts []models.Debt
	err := p.db.WithContext(ctx).
		Preload("Payments").
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&debts).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return debts, nil
}

func (p *Postgres) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	var debt models.Debt
	err := p.db.WithContext(ctx).
		Preload("Payments").
		Where("user_id = ? AND id = ?", userID, debtID).
		First(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("debt", debtID)
	}
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return &debt, nil
}

func (p *Postgres) CreateDebt(ctx context.Context, debt *models.Debt) error {
	if err := p.db.WithContext(ctx).Create(debt).Error; err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (p *Postgres) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	res := p.db.WithContext(ctx).
		Omit("Payments").
		Where("user_id = ?", debt.UserID).
		Save(debt)
	if res.Error != nil {
		return apperr.Transient(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("debt", debt.ID)
	}
	return nil
}

func (p *Postgres) CreatePayment(ctx context.Context, debtID string, payment *models.Payment) error {
	payment.DebtID = debtID
	if err := p.db.WithContext(ctx).Create(payment).Error; err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (p *Postgres) DeletePayment(ctx context.Context, debtID, paymentID string) error {
	res := p.db.WithContext(ctx).
		Where("debt_id = ? AND id = ?", debtID, paymentID).
		Delete(&models.Payment{})
	if res.Error != nil {
		return apperr.Transient(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("payment", paymentID)
	}
	return nil
}

func (p *Postgres) ListPersons(ctx context.Context, userID string) ([]models.Person, error) {
	var persons []models.Person
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("first_name").
		Find(&persons).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return persons, nil
}

func (p *Postgres) GetPerson(ctx context.Context, userID, personID string) (*models.Person, error) {
	var person models.Person
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, personID).
		First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("person", personID)
	}
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return &person, nil
}

func (p *Postgres) CreatePerson(ctx context.Context, person *models.Person) error {
	if err := p.db.WithContext(ctx).Create(person).Error; err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (p *Postgres) UpdatePerson(ctx context.Context, person *models.Person) error {
	res := p.db.WithContext(ctx).
		Where("user_id = ?", person.UserID).
		Save(person)
	if res.Error != nil {
		return apperr.Transient(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("person", person.ID)
	}
	return nil
}

func (p *Postgres) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("profile", userID)
	}
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return &profile, nil
}

func (p *Postgres) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
	if err != nil {
		return apperr.Transient(err)
	}
	return nil
}
