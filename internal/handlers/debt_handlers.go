package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/apperr"
	"paycontrol/internal/ledger"
	"paycontrol/internal/models"
	"paycontrol/internal/services"
	"paycontrol/internal/stats"
)

// DebtHandler handles debt lifecycle endpoints
type DebtHandler struct {
	debts    *services.DebtService
	evidence *services.EvidenceStore
}

// NewDebtHandler creates a new DebtHandler. evidence may be nil when no
// object storage is configured; uploads then answer 503.
func NewDebtHandler(debts *services.DebtService, evidence *services.EvidenceStore) *DebtHandler {
	return &DebtHandler{debts: debts, evidence: evidence}
}

// ListDebts returns the user's debts. view=active narrows to the dashboard
// list, view=history applies the full-history ordering; default is storage
// order, newest first.
func (h *DebtHandler) ListDebts(c echo.Context) error {
	debts, err := h.debts.List(c.Request().Context(), userUID(c))
	if err != nil {
		return err
	}

	switch c.QueryParam("view") {
	case "active":
		debts = stats.FilterActive(debts)
	case "history":
		debts = stats.SortHistory(debts)
	}
	if debts == nil {
		debts = []models.Debt{}
	}
	return c.JSON(http.StatusOK, debts)
}

// GetDebt returns one debt with its payment history
func (h *DebtHandler) GetDebt(c echo.Context) error {
	debt, err := h.debts.Get(c.Request().Context(), userUID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// CreateDebt registers a new debt
func (h *DebtHandler) CreateDebt(c echo.Context) error {
	var req debtRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Amount == nil {
		return apperr.Validation("amount is required")
	}

	in := services.DebtInput{
		Type:     models.DebtType(req.Type),
		PersonID: req.PersonID,
		Amount:   *req.Amount,
	}
	if req.Reason != nil {
		in.Reason = *req.Reason
	}
	if req.Medium != nil {
		in.Medium = models.PaymentMedium(*req.Medium)
	}
	if req.Observations != nil {
		in.Observations = *req.Observations
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		in.Date = date
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return err
		}
		in.DueDate = &due
	}

	debt, err := h.debts.Create(c.Request().Context(), userUID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, debt)
}

// UpdateDebt edits an existing debt. Principal edits below the paid total
// are rejected.
func (h *DebtHandler) UpdateDebt(c echo.Context) error {
	var req debtRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	patch := services.DebtPatch{
		Amount:       req.Amount,
		Reason:       req.Reason,
		Observations: req.Observations,
	}
	if req.PersonID != "" {
		patch.PersonID = &req.PersonID
	}
	if req.Medium != nil {
		medium := models.PaymentMedium(*req.Medium)
		patch.Medium = &medium
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		patch.Date = &date
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}

	debt, err := h.debts.Edit(c.Request().Context(), userUID(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// ArchiveDebt parks a debt regardless of its paid state
func (h *DebtHandler) ArchiveDebt(c echo.Context) error {
	debt, err := h.debts.Archive(c.Request().Context(), userUID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// ReactivateDebt brings an archived debt back to active or settled
func (h *DebtHandler) ReactivateDebt(c echo.Context) error {
	debt, err := h.debts.Reactivate(c.Request().Context(), userUID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// RecordPayment appends a payment to the debt's ledger
func (h *DebtHandler) RecordPayment(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	in := ledger.PaymentInput{
		Amount:   req.Amount,
		Medium:   models.PaymentMedium(req.Medium),
		Note:     req.Note,
		Evidence: req.Evidence,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return err
		}
		in.Date = date
	}

	debt, err := h.debts.RecordPayment(c.Request().Context(), userUID(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// DeletePayment removes a payment from the debt's ledger
func (h *DebtHandler) DeletePayment(c echo.Context) error {
	debt, err := h.debts.DeletePayment(c.Request().Context(), userUID(c), c.Param("id"), c.Param("paymentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// UploadEvidence stores a multipart attachment and links it to the debt
func (h *DebtHandler) UploadEvidence(c echo.Context) error {
	if h.evidence == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "evidence storage not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return apperr.Validation("unreadable file")
	}
	defer src.Close()

	ctx := c.Request().Context()
	uid := userUID(c)
	debtID := c.Param("id")

	// Reject uploads against debts the user does not own before touching storage
	if _, err := h.debts.Get(ctx, uid, debtID); err != nil {
		return err
	}

	key, err := h.evidence.Upload(ctx, uid, debtID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src, fileHeader.Size)
	if err != nil {
		return err
	}

	debt, err := h.debts.AttachEvidence(ctx, uid, debtID, key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debt)
}

// EvidenceURL answers a short-lived download link for one evidence object
func (h *DebtHandler) EvidenceURL(c echo.Context) error {
	if h.evidence == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "evidence storage not configured")
	}
	key := c.QueryParam("key")
	if key == "" {
		return apperr.Validation("key is required")
	}

	url, err := h.evidence.PresignedURL(c.Request().Context(), key, 15*time.Minute)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
