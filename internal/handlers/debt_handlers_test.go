package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/apperr"
	"paycontrol/internal/ledger"
	"paycontrol/internal/middleware"
	"paycontrol/internal/models"
	"paycontrol/internal/provider"
	"paycontrol/internal/services"
)

const testUID = "uid-1"

type fixture struct {
	e      *echo.Echo
	debts  *services.DebtService
	person *models.Person
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := provider.NewMemory()
	person := &models.Person{UserID: testUID, FirstName: "Andrea", LastName: "P."}
	if err := store.CreatePerson(context.Background(), person); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	return &fixture{
		e:      echo.New(),
		debts:  services.NewDebtService(store, nil),
		person: person,
	}
}

// request builds an authenticated echo context the way RequireAuth would
func (f *fixture) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.Set(middleware.ContextUserUID, testUID)
	c.Set(middleware.ContextUserEmail, "andrea@example.com")
	return c, rec
}

func (f *fixture) seedDebt(t *testing.T, amount float64) *models.Debt {
	t.Helper()
	debt, err := f.debts.Create(context.Background(), testUID, services.DebtInput{
		Type:     models.DebtTypeLent,
		PersonID: f.person.ID,
		Amount:   amount,
	})
	if err != nil {
		t.Fatalf("seed debt: %v", err)
	}
	return debt
}

func decodeDebt(t *testing.T, rec *httptest.ResponseRecorder) models.Debt {
	t.Helper()
	var debt models.Debt
	if err := json.Unmarshal(rec.Body.Bytes(), &debt); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return debt
}

func TestCreateDebtEndpoint(t *testing.T) {
	f := newFixture(t)
	h := NewDebtHandler(f.debts, nil)

	body := `{"type":"lent","person_id":"` + f.person.ID + `","amount":150,"reason":"Entradas Concierto","date":"2024-11-02"}`
	c, rec := f.request(http.MethodPost, "/api/debts", body)
	if err := h.CreateDebt(c); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	debt := decodeDebt(t, rec)
	if debt.Counterparty != "Andrea P." || debt.Status != models.DebtStatusActive {
		t.Errorf("created debt = %q/%v", debt.Counterparty, debt.Status)
	}
	if debt.Date.Format("2006-01-02") != "2024-11-02" {
		t.Errorf("date = %v", debt.Date)
	}
}

func TestCreateDebtEndpointValidation(t *testing.T) {
	f := newFixture(t)
	h := NewDebtHandler(f.debts, nil)

	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing amount", `{"type":"lent","person_id":"` + f.person.ID + `"}`, apperr.ErrValidation},
		{"bad date", `{"type":"lent","person_id":"` + f.person.ID + `","amount":10,"date":"noviembre"}`, apperr.ErrValidation},
		{"unknown person", `{"type":"lent","person_id":"ghost","amount":10}`, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := f.request(http.MethodPost, "/api/debts", tt.body)
			if err := h.CreateDebt(c); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestListDebtsViews(t *testing.T) {
	f := newFixture(t)
	h := NewDebtHandler(f.debts, nil)
	ctx := context.Background()

	open := f.seedDebt(t, 150)
	done := f.seedDebt(t, 45)
	if _, err := f.debts.RecordPayment(ctx, testUID, done.ID, ledger.PaymentInput{Amount: 45}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	c, rec := f.request(http.MethodGet, "/api/debts?view=active", "")
	if err := h.ListDebts(c); err != nil {
		t.Fatalf("ListDebts: %v", err)
	}
	var active []models.Debt
	if err := json.Unmarshal(rec.Body.Bytes(), &active); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(active) != 1 || active[0].ID != open.ID {
		t.Errorf("active view = %d rows", len(active))
	}

	c, rec = f.request(http.MethodGet, "/api/debts?view=history", "")
	if err := h.ListDebts(c); err != nil {
		t.Fatalf("ListDebts: %v", err)
	}
	var history []models.Debt
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 2 || history[0].Status != models.DebtStatusActive {
		t.Errorf("history view: %d rows, first status %v", len(history), history[0].Status)
	}
}

func TestRecordAndDeletePaymentEndpoints(t *testing.T) {
	f := newFixture(t)
	h := NewDebtHandler(f.debts, nil)

	debt := f.seedDebt(t, 100)

	c, rec := f.request(http.MethodPost, "/api/debts/"+debt.ID+"/payments",
		`{"amount":100,"medium":"Efectivo","note":"todo de una"}`)
	c.SetParamNames("id")
	c.SetParamValues(debt.ID)
	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	got := decodeDebt(t, rec)
	if got.Status != models.DebtStatusSettled || got.PaidAmount != 100 {
		t.Fatalf("after payment: %v/%v", got.Status, got.PaidAmount)
	}
	if got.Payments[0].Medium != models.MediumCash {
		t.Errorf("medium = %v", got.Payments[0].Medium)
	}

	c, rec = f.request(http.MethodDelete, "/", "")
	c.SetParamNames("id", "paymentId")
	c.SetParamValues(debt.ID, got.Payments[0].ID)
	if err := h.DeletePayment(c); err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	got = decodeDebt(t, rec)
	if got.Status != models.DebtStatusActive || got.PaidAmount != 0 {
		t.Errorf("after delete: %v/%v, want active/0", got.Status, got.PaidAmount)
	}
}

func TestArchiveEndpoints(t *testing.T) {
	f := newFixture(t)
	h := NewDebtHandler(f.debts, nil)

	debt := f.seedDebt(t, 100)

	c, rec := f.request(http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(debt.ID)
	if err := h.ArchiveDebt(c); err != nil {
		t.Fatalf("ArchiveDebt: %v", err)
	}
	if got := decodeDebt(t, rec); got.Status != models.DebtStatusArchived {
		t.Fatalf("status = %v", got.Status)
	}

	c, rec = f.request(http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(debt.ID)
	if err := h.ReactivateDebt(c); err != nil {
		t.Fatalf("ReactivateDebt: %v", err)
	}
	if got := decodeDebt(t, rec); got.Status != models.DebtStatusActive {
		t.Errorf("status = %v, want active with nothing paid", got.Status)
	}
}

func TestUploadEvidenceWithoutStore(t *testing.T) {
	f := newFixture(t)
	h := NewDebtHandler(f.debts, nil)

	c, _ := f.request(http.MethodPost, "/", "")
	err := h.UploadEvidence(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusServiceUnavailable {
		t.Errorf("got %v, want 503", err)
	}
}
