package services

import (
	"context"
	"errors"
	"testing"

	"paycontrol/internal/apperr"
	"paycontrol/internal/ledger"
	"paycontrol/internal/models"
	"paycontrol/internal/provider"
)

const testUser = "uid-1"

func newRegistry(t *testing.T) (*DebtService, *models.Person) {
	t.Helper()
	store := provider.NewMemory()
	person := &models.Person{UserID: testUser, FirstName: "Marco", LastName: "R."}
	if err := store.CreatePerson(context.Background(), person); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	return NewDebtService(store, nil), person
}

func TestCreateDebt(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, err := svc.Create(ctx, testUser, DebtInput{
		Type:     models.DebtTypeLent,
		PersonID: person.ID,
		Amount:   150,
		Reason:   "Entradas Concierto",
		Medium:   models.MediumCash,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if debt.Status != models.DebtStatusActive || debt.PaidAmount != 0 {
		t.Errorf("new debt = %v/%v, want active/0", debt.Status, debt.PaidAmount)
	}
	if debt.Counterparty != "Marco R." {
		t.Errorf("counterparty snapshot = %q", debt.Counterparty)
	}
	if debt.Date.IsZero() {
		t.Error("date not defaulted")
	}
}

func TestCreateDebtValidation(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   DebtInput
		want error
	}{
		{
			name: "non-positive amount",
			in:   DebtInput{Type: models.DebtTypeLent, PersonID: person.ID, Amount: 0},
			want: apperr.ErrValidation,
		},
		{
			name: "unknown type",
			in:   DebtInput{Type: "gifted", PersonID: person.ID, Amount: 10},
			want: apperr.ErrValidation,
		},
		{
			name: "missing person",
			in:   DebtInput{Type: models.DebtTypeLent, Amount: 10},
			want: apperr.ErrValidation,
		},
		{
			name: "unknown person",
			in:   DebtInput{Type: models.DebtTypeLent, PersonID: "ghost", Amount: 10},
			want: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, testUser, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordPaymentSettlesAndDeleteReverts(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, err := svc.Create(ctx, testUser, DebtInput{
		Type: models.DebtTypeLent, PersonID: person.ID, Amount: 150,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	debt, err = svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: 50})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if debt.PaidAmount != 50 || debt.Status != models.DebtStatusActive {
		t.Fatalf("after $50: %v/%v", debt.PaidAmount, debt.Status)
	}
	firstID := debt.Payments[0].ID
	if firstID == "" {
		t.Fatal("payment id not assigned")
	}

	debt, err = svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: 100})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if debt.PaidAmount != 150 || debt.Status != models.DebtStatusSettled {
		t.Fatalf("after $150: %v/%v", debt.PaidAmount, debt.Status)
	}

	debt, err = svc.DeletePayment(ctx, testUser, debt.ID, firstID)
	if err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	if debt.PaidAmount != 100 || debt.Status != models.DebtStatusActive {
		t.Fatalf("after delete: %v/%v, want 100/active", debt.PaidAmount, debt.Status)
	}

	// the derived state must be persisted, not just returned
	stored, err := svc.Get(ctx, testUser, debt.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.PaidAmount != 100 || stored.Status != models.DebtStatusActive || len(stored.Payments) != 1 {
		t.Fatalf("stored state: %v/%v with %d payments", stored.PaidAmount, stored.Status, len(stored.Payments))
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, err := svc.Create(ctx, testUser, DebtInput{
		Type: models.DebtTypeLent, PersonID: person.ID, Amount: 100,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: -1}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("negative payment: got %v", err)
	}
	if _, err := svc.RecordPayment(ctx, testUser, "ghost", ledger.PaymentInput{Amount: 10}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown debt: got %v", err)
	}

	// overshooting is allowed by design
	debt, err = svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: 130})
	if err != nil {
		t.Fatalf("overpayment rejected: %v", err)
	}
	if debt.PaidAmount != 130 || debt.Status != models.DebtStatusSettled {
		t.Errorf("overpaid: %v/%v, want 130/settled", debt.PaidAmount, debt.Status)
	}
}

func TestEditPrincipalGuard(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, _ := svc.Create(ctx, testUser, DebtInput{
		Type: models.DebtTypeLent, PersonID: person.ID, Amount: 100,
	})
	if _, err := svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: 60}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	lower := 50.0
	if _, err := svc.Edit(ctx, testUser, debt.ID, DebtPatch{Amount: &lower}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("edit below paid: got %v, want validation error", err)
	}

	// failed edit must not be persisted
	stored, _ := svc.Get(ctx, testUser, debt.ID)
	if stored.Amount != 100 {
		t.Fatalf("failed edit persisted: amount=%v", stored.Amount)
	}

	exact := 60.0
	edited, err := svc.Edit(ctx, testUser, debt.ID, DebtPatch{Amount: &exact})
	if err != nil {
		t.Fatalf("edit to paid total: %v", err)
	}
	if edited.Status != models.DebtStatusSettled {
		t.Errorf("status = %v, want settled at amount == paid", edited.Status)
	}
}

func TestEditMergesFields(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, _ := svc.Create(ctx, testUser, DebtInput{
		Type: models.DebtTypeLent, PersonID: person.ID, Amount: 100, Reason: "Cena",
	})

	reason := "Cena en Nobu"
	medium := models.MediumCard
	edited, err := svc.Edit(ctx, testUser, debt.ID, DebtPatch{Reason: &reason, Medium: &medium})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited.Reason != reason || edited.Medium != medium {
		t.Errorf("merge failed: %+v", edited)
	}
	if edited.Amount != 100 {
		t.Errorf("untouched principal changed: %v", edited.Amount)
	}
}

func TestArchiveAndReactivate(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, _ := svc.Create(ctx, testUser, DebtInput{
		Type: models.DebtTypeLent, PersonID: person.ID, Amount: 150,
	})
	if _, err := svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: 100}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	archived, err := svc.Archive(ctx, testUser, debt.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if archived.Status != models.DebtStatusArchived || archived.PaidAmount != 100 {
		t.Fatalf("archived: %v/%v", archived.Status, archived.PaidAmount)
	}

	// payments while archived track the ledger but never the status
	archived, err = svc.RecordPayment(ctx, testUser, debt.ID, ledger.PaymentInput{Amount: 50})
	if err != nil {
		t.Fatalf("RecordPayment while archived: %v", err)
	}
	if archived.Status != models.DebtStatusArchived || archived.PaidAmount != 150 {
		t.Fatalf("archived after pay: %v/%v", archived.Status, archived.PaidAmount)
	}

	reactivated, err := svc.Reactivate(ctx, testUser, debt.ID)
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if reactivated.Status != models.DebtStatusSettled {
		t.Fatalf("reactivated with paid >= amount: %v, want settled", reactivated.Status)
	}

	if _, err := svc.Archive(ctx, testUser, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("archive unknown debt: got %v", err)
	}
}

func TestAttachEvidence(t *testing.T) {
	svc, person := newRegistry(t)
	ctx := context.Background()

	debt, _ := svc.Create(ctx, testUser, DebtInput{
		Type: models.DebtTypeLent, PersonID: person.ID, Amount: 100,
	})

	updated, err := svc.AttachEvidence(ctx, testUser, debt.ID, "uid-1/d1/recibo.pdf")
	if err != nil {
		t.Fatalf("AttachEvidence: %v", err)
	}
	if len(updated.Evidence) != 1 || updated.Evidence[0] != "uid-1/d1/recibo.pdf" {
		t.Errorf("evidence = %v", updated.Evidence)
	}
}
