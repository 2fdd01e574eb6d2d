package provider

import (
	"context"
	"time"

	"paycontrol/internal/models"
)

// Seed loads the demo fixture for the given user: three counterparties, a
// partially paid borrowed debt, an untouched lent one and a settled one.
// Memory-provider deployments call this at boot so the dashboard is not empty.
func (m *Memory) Seed(ctx context.Context, userID string) error {
	persons := []*models.Person{
		{ID: "per-1", UserID: userID, FirstName: "Andrea", LastName: "P.", DocType: models.DocTypeCC, Phone: "+34 600 111 222"},
		{ID: "per-2", UserID: userID, FirstName: "Marco", LastName: "R.", DocType: models.DocTypeCC},
		{ID: "per-3", UserID: userID, FirstName: "Gimnasio", DocType: models.DocTypeNIT},
	}
	for _, p := range persons {
		if err := m.CreatePerson(ctx, p); err != nil {
			return err
		}
	}

	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}

	debts := []*models.Debt{
		{
			ID: "deb-3", UserID: userID, Type: models.DebtTypeBorrowed,
			PersonID: "per-3", Counterparty: "Gimnasio",
			Amount: 45, PaidAmount: 45, Status: models.DebtStatusSettled,
			Reason: "Cuota Octubre", Medium: models.MediumCard,
			Date: day("2024-10-01"), Evidence: []string{"recibo.pdf"},
			Payments: []models.Payment{
				{ID: "pay-2", Amount: 45, Medium: models.MediumCard, Date: day("2024-10-05")},
			},
		},
		{
			ID: "deb-2", UserID: userID, Type: models.DebtTypeLent,
			PersonID: "per-2", Counterparty: "Marco R.",
			Amount: 320.50, Status: models.DebtStatusActive,
			Reason: "Entradas Concierto", Medium: models.MediumCash,
			Date: day("2024-10-18"), DueDate: ptrTime(day("2024-12-01")),
		},
		{
			ID: "deb-1", UserID: userID, Type: models.DebtTypeBorrowed,
			PersonID: "per-1", Counterparty: "Andrea P.",
			Amount: 150, PaidAmount: 50, Status: models.DebtStatusActive,
			Reason: "Cena en Nobu", Medium: models.MediumTransfer,
			Date: day("2024-10-15"), DueDate: ptrTime(day("2024-11-01")),
			Payments: []models.Payment{
				{ID: "pay-1", Amount: 50, Medium: models.MediumTransfer, Date: day("2024-10-20")},
			},
		},
	}
	for _, d := range debts {
		if err := m.CreateDebt(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
