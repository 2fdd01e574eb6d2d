package provider

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
)

// Memory is the mock provider: everything lives in process memory. It backs
// local development and the test suite. Values are copied on the way in and
// out so callers can never alias the stored state.
type Memory struct {
	mu       sync.RWMutex
	debts    []*models.Debt // newest first
	persons  []*models.Person
	profiles map[string]*models.Profile
}

// NewMemory returns an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]*models.Profile)}
}

func (m *Memory) ListDebts(_ context.Context, userID string) ([]models.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Debt
	for _, d := range m.debts {
		if d.UserID == userID {
			out = append(out, *cloneDebt(d))
		}
	}
	return out, nil
}

func (m *Memory) GetDebt(_ context.Context, userID, debtID string) (*models.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d := m.findDebt(userID, debtID)
	if d == nil {
		return nil, apperr.NotFound("debt", debtID)
	}
	return cloneDebt(d), nil
}

func (m *Memory) CreateDebt(_ context.Context, debt *models.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if debt.ID == "" {
		debt.ID = uuid.NewString()
	}
	debt.CreatedAt = time.Now()
	debt.UpdatedAt = debt.CreatedAt
	for i := range debt.Payments {
		if debt.Payments[i].ID == "" {
			debt.Payments[i].ID = uuid.NewString()
		}
		debt.Payments[i].DebtID = debt.ID
	}
	// prepend: newest-first storage convention
	m.debts = append([]*models.Debt{cloneDebt(debt)}, m.debts...)
	return nil
}

func (m *Memory) UpdateDebt(_ context.Context, debt *models.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.findDebt(debt.UserID, debt.ID)
	if stored == nil {
		return apperr.NotFound("debt", debt.ID)
	}
	debt.UpdatedAt = time.Now()
	payments := stored.Payments
	*stored = *cloneDebt(debt)
	stored.Payments = payments
	return nil
}

func (m *Memory) CreatePayment(_ context.Context, debtID string, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.findDebtByID(debtID)
	if stored == nil {
		return apperr.NotFound("debt", debtID)
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.DebtID = debtID
	payment.CreatedAt = time.Now()
	stored.Payments = append(stored.Payments, *clonePayment(payment))
	return nil
}

func (m *Memory) DeletePayment(_ context.Context, debtID, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.findDebtByID(debtID)
	if stored == nil {
		return apperr.NotFound("debt", debtID)
	}
	for i, p := range stored.Payments {
		if p.ID == paymentID {
			stored.Payments = append(stored.Payments[:i], stored.Payments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("payment", paymentID)
}

func (m *Memory) ListPersons(_ context.Context, userID string) ([]models.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Person
	for _, p := range m.persons {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *Memory) GetPerson(_ context.Context, userID, personID string) (*models.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.persons {
		if p.UserID == userID && p.ID == personID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("person", personID)
}

func (m *Memory) CreatePerson(_ context.Context, person *models.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	person.CreatedAt = time.Now()
	clone := *person
	m.persons = append(m.persons, &clone)
	return nil
}

func (m *Memory) UpdatePerson(_ context.Context, person *models.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.persons {
		if p.UserID == person.UserID && p.ID == person.ID {
			person.UpdatedAt = time.Now()
			clone := *person
			m.persons[i] = &clone
			return nil
		}
	}
	return apperr.NotFound("person", person.ID)
}

func (m *Memory) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("profile", userID)
	}
	clone := *p
	return &clone, nil
}

func (m *Memory) UpsertProfile(_ context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile.UpdatedAt = time.Now()
	clone := *profile
	m.profiles[profile.UserID] = &clone
	return nil
}

func (m *Memory) findDebt(userID, debtID string) *models.Debt {
	for _, d := range m.debts {
		if d.UserID == userID && d.ID == debtID {
			return d
		}
	}
	return nil
}

func (m *Memory) findDebtByID(debtID string) *models.Debt {
	for _, d := range m.debts {
		if d.ID == debtID {
			return d
		}
	}
	return nil
}

func cloneDebt(d *models.Debt) *models.Debt {
	clone := *d
	clone.Evidence = append([]string(nil), d.Evidence...)
	clone.Payments = make([]models.Payment, len(d.Payments))
	for i, p := range d.Payments {
		clone.Payments[i] = *clonePayment(&p)
	}
	return &clone
}

func clonePayment(p *models.Payment) *models.Payment {
	clone := *p
	if p.Evidence != nil {
		ev := *p.Evidence
		clone.Evidence = &ev
	}
	return &clone
}
