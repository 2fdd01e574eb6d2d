// Package provider abstracts where PayControl records live. The service layer
// talks to this contract only; whether the backing store is the in-memory
// mock or Postgres is a deployment choice.
package provider

import (
	"context"

	"paycontrol/internal/models"
)

// Provider is the storage contract consumed by the service layer.
// Implementations scope every read and write by the owning user id.
// Lookup misses surface as apperr.ErrNotFound, driver failures as
// apperr.ErrTransient.
type Provider interface {
	// ListDebts returns the user's debts, payments included, newest first.
	ListDebts(ctx context.Context, userID string) ([]models.Debt, error)
	GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error)
	CreateDebt(ctx context.Context, debt *models.Debt) error
	// UpdateDebt persists the debt's own columns; the payments relation is
	// managed through CreatePayment/DeletePayment.
	UpdateDebt(ctx context.Context, debt *models.Debt) error

	CreatePayment(ctx context.Context, debtID string, payment *models.Payment) error
	DeletePayment(ctx context.Context, debtID, paymentID string) error

	ListPersons(ctx context.Context, userID string) ([]models.Person, error)
	GetPerson(ctx context.Context, userID, personID string) (*models.Person, error)
	CreatePerson(ctx context.Context, person *models.Person) error
	UpdatePerson(ctx context.Context, person *models.Person) error

	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}
