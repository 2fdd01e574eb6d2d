// Package ledger keeps a debt's paid amount and status consistent with its
// payment history. The payment list is the source of truth: PaidAmount is
// always re-derived from it, never trusted from a caller.
package ledger

import (
	"time"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
)

// PaymentInput carries the caller-supplied fields of a new payment.
// Date defaults to now when zero.
type PaymentInput struct {
	Amount   float64
	Medium   models.PaymentMedium
	Note     string
	Date     time.Time
	Evidence *string
}

// Total sums the payment amounts. O(n), pure.
func Total(payments []models.Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum
}

// AddPayment appends a payment to the debt's ledger and returns it.
// Insertion order is the canonical order; consumers re-sort for display.
// The caller must invoke Recompute afterwards.
//
// A payment larger than the remaining balance is accepted: the debt settles
// at paid >= amount and PaidAmount may exceed the principal.
func AddPayment(debt *models.Debt, in PaymentInput) (models.Payment, error) {
	if in.Amount <= 0 {
		return models.Payment{}, apperr.Validation("payment amount must be positive, got %.2f", in.Amount)
	}
	medium := in.Medium
	if medium == "" {
		medium = models.MediumTransfer
	}
	if !models.ValidMedium(medium) {
		return models.Payment{}, apperr.Validation("unknown payment medium %q", medium)
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	payment := models.Payment{
		DebtID:   debt.ID,
		Amount:   in.Amount,
		Medium:   medium,
		Note:     in.Note,
		Date:     date,
		Evidence: in.Evidence,
	}
	debt.Payments = append(debt.Payments, payment)
	return payment, nil
}

// RemovePayment deletes the payment with the given id from the debt's ledger.
// The caller must invoke Recompute afterwards.
func RemovePayment(debt *models.Debt, paymentID string) error {
	for i, p := range debt.Payments {
		if p.ID == paymentID {
			debt.Payments = append(debt.Payments[:i], debt.Payments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("payment", paymentID)
}

// Recompute derives PaidAmount from the ledger and, unless the debt is
// archived, flips Status between active and settled. Idempotent.
func Recompute(debt *models.Debt) {
	debt.PaidAmount = Total(debt.Payments)
	if debt.Status == models.DebtStatusArchived {
		return
	}
	if debt.PaidAmount >= debt.Amount {
		debt.Status = models.DebtStatusSettled
	} else {
		debt.Status = models.DebtStatusActive
	}
}

// Archive moves the debt to archived regardless of its paid state. Paid
// amount and the ledger are untouched.
func Archive(debt *models.Debt) {
	debt.Status = models.DebtStatusArchived
}

// Reactivate is the only way out of archived: status is re-derived from the
// current paid/principal ratio, exactly as Recompute would.
func Reactivate(debt *models.Debt) {
	if debt.PaidAmount >= debt.Amount {
		debt.Status = models.DebtStatusSettled
	} else {
		debt.Status = models.DebtStatusActive
	}
}

// EditPrincipal changes the debt's principal and recomputes its status.
// Lowering the principal below the paid total is rejected: that would leave
// the debt over-settled without first reverting payments.
func EditPrincipal(debt *models.Debt, newAmount float64) error {
	if newAmount <= 0 {
		return apperr.Validation("principal must be positive, got %.2f", newAmount)
	}
	if newAmount < debt.PaidAmount {
		return apperr.Validation("principal %.2f is below paid total %.2f", newAmount, debt.PaidAmount)
	}
	debt.Amount = newAmount
	Recompute(debt)
	return nil
}
