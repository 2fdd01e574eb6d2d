package services

import (
	"context"
	"time"

	"paycontrol/internal/apperr"
	"paycontrol/internal/ledger"
	"paycontrol/internal/models"
	"paycontrol/internal/provider"
)

// DebtService is the registry of a user's debts. Every mutation goes through
// the ledger so paid amount and status are always derived, never trusted,
// and through the provider so nothing local survives a storage failure.
type DebtService struct {
	store provider.Provider
	cache *RedisCache
}

// NewDebtService creates a DebtService. cache may be nil.
func NewDebtService(store provider.Provider, cache *RedisCache) *DebtService {
	return &DebtService{store: store, cache: cache}
}

// DebtInput carries the fields of a new debt.
type DebtInput struct {
	Type         models.DebtType
	PersonID     string
	Amount       float64
	Reason       string
	Medium       models.PaymentMedium
	Date         time.Time
	DueDate      *time.Time
	Observations string
}

// DebtPatch carries the editable fields of an existing debt. Nil means
// "leave unchanged". Amount edits go through the principal guard.
type DebtPatch struct {
	Amount       *float64
	PersonID     *string
	Reason       *string
	Medium       *models.PaymentMedium
	Date         *time.Time
	DueDate      *time.Time
	Observations *string
}

// List returns the user's debts, newest first.
func (s *DebtService) List(ctx context.Context, userID string) ([]models.Debt, error) {
	return s.store.ListDebts(ctx, userID)
}

// Get returns one debt with its payment history.
func (s *DebtService) Get(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	return s.store.GetDebt(ctx, userID, debtID)
}

// Create registers a new debt. The person must exist; the counterparty
// display name is snapshotted from it at this moment and not kept in sync
// with later renames.
func (s *DebtService) Create(ctx context.Context, userID string, in DebtInput) (*models.Debt, error) {
	if in.Amount <= 0 {
		return nil, apperr.Validation("debt amount must be positive, got %.2f", in.Amount)
	}
	if in.Type != models.DebtTypeLent && in.Type != models.DebtTypeBorrowed {
		return nil, apperr.Validation("unknown debt type %q", in.Type)
	}
	if in.PersonID == "" {
		return nil, apperr.Validation("person is required")
	}
	person, err := s.store.GetPerson(ctx, userID, in.PersonID)
	if err != nil {
		return nil, err
	}

	medium := in.Medium
	if medium == "" {
		medium = models.MediumTransfer
	}
	if !models.ValidMedium(medium) {
		return nil, apperr.Validation("unknown payment medium %q", medium)
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	debt := &models.Debt{
		UserID:       userID,
		Type:         in.Type,
		PersonID:     person.ID,
		Counterparty: person.FullName(),
		Amount:       in.Amount,
		PaidAmount:   0,
		Status:       models.DebtStatusActive,
		Reason:       in.Reason,
		Medium:       medium,
		Date:         date,
		DueDate:      in.DueDate,
		Observations: in.Observations,
		Evidence:     []string{},
		Payments:     []models.Payment{},
	}
	if err := s.store.CreateDebt(ctx, debt); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return debt, nil
}

// Edit merges the patch into the debt. A principal change re-derives the
// status and fails if the new amount is below the paid total.
func (s *DebtService) Edit(ctx context.Context, userID, debtID string, patch DebtPatch) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	if patch.Amount != nil {
		if err := ledger.EditPrincipal(debt, *patch.Amount); err != nil {
			return nil, err
		}
	}
	if patch.PersonID != nil && *patch.PersonID != debt.PersonID {
		person, err := s.store.GetPerson(ctx, userID, *patch.PersonID)
		if err != nil {
			return nil, err
		}
		debt.PersonID = person.ID
		debt.Counterparty = person.FullName()
	}
	if patch.Reason != nil {
		debt.Reason = *patch.Reason
	}
	if patch.Medium != nil {
		if !models.ValidMedium(*patch.Medium) {
			return nil, apperr.Validation("unknown payment medium %q", *patch.Medium)
		}
		debt.Medium = *patch.Medium
	}
	if patch.Date != nil {
		debt.Date = *patch.Date
	}
	if patch.DueDate != nil {
		debt.DueDate = patch.DueDate
	}
	if patch.Observations != nil {
		debt.Observations = *patch.Observations
	}

	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return debt, nil
}

// Archive parks the debt regardless of its paid state.
func (s *DebtService) Archive(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	ledger.Archive(debt)
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return debt, nil
}

// Reactivate brings an archived debt back, re-deriving active or settled
// from its current paid/principal ratio.
func (s *DebtService) Reactivate(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	ledger.Reactivate(debt)
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return debt, nil
}

// RecordPayment appends a payment to the debt's ledger and re-derives its
// state. Overshooting the remaining balance is allowed.
func (s *DebtService) RecordPayment(ctx context.Context, userID, debtID string, in ledger.PaymentInput) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	payment, err := ledger.AddPayment(debt, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreatePayment(ctx, debtID, &payment); err != nil {
		return nil, err
	}
	debt.Payments[len(debt.Payments)-1].ID = payment.ID

	ledger.Recompute(debt)
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return debt, nil
}

// DeletePayment removes a payment from the debt's ledger and re-derives its
// state, possibly reverting settled back to active.
func (s *DebtService) DeletePayment(ctx context.Context, userID, debtID, paymentID string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	if err := ledger.RemovePayment(debt, paymentID); err != nil {
		return nil, err
	}
	if err := s.store.DeletePayment(ctx, debtID, paymentID); err != nil {
		return nil, err
	}

	ledger.Recompute(debt)
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return debt, nil
}

// AttachEvidence appends a stored object key to the debt's evidence list.
func (s *DebtService) AttachEvidence(ctx context.Context, userID, debtID, objectKey string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	debt.Evidence = append(debt.Evidence, objectKey)
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, err
	}
	return debt, nil
}

func (s *DebtService) invalidate(ctx context.Context, userID string) {
	s.cache.InvalidateDashboard(ctx, userID)
}
