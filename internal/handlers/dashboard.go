package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/apperr"
	"paycontrol/internal/models"
	"paycontrol/internal/services"
	"paycontrol/internal/stats"
)

// Default row counts of the dashboard widgets: the ranking cards show three
// names, the chart shows five slices.
const (
	defaultTopLimit  = 3
	defaultPeerLimit = 5
)

// DashboardHandler handles the aggregate endpoints. Every answer is derived
// from the user's full debt list; Redis keeps the hot ones for a few minutes.
type DashboardHandler struct {
	debts *services.DebtService
	cache *services.RedisCache
}

// NewDashboardHandler creates a new DashboardHandler. cache may be nil.
func NewDashboardHandler(debts *services.DebtService, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{debts: debts, cache: cache}
}

func (h *DashboardHandler) load(c echo.Context) ([]models.Debt, error) {
	return h.debts.List(c.Request().Context(), userUID(c))
}

// summaryResponse is the headline card payload.
type summaryResponse struct {
	TotalLent     float64 `json:"total_lent"`
	TotalBorrowed float64 `json:"total_borrowed"`
	Balance       float64 `json:"balance"`
}

// Summary answers the global lent/borrowed/net card
func (h *DashboardHandler) Summary(c echo.Context) error {
	uid := userUID(c)
	key := services.DashboardKey(uid, "summary")

	resp, err := services.GetOrSet(h.cache, c.Request().Context(), key, services.DashboardCacheTTL, func() (summaryResponse, error) {
		debts, err := h.load(c)
		if err != nil {
			return summaryResponse{}, err
		}
		s := stats.GlobalSummary(debts)
		return summaryResponse{
			TotalLent:     s.TotalLent,
			TotalBorrowed: s.TotalBorrowed,
			Balance:       s.Balance(),
		}, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// TopCounterparties ranks who owes the user most (direction=lent, default) or
// who the user owes most (direction=borrowed)
func (h *DashboardHandler) TopCounterparties(c echo.Context) error {
	direction := models.DebtTypeLent
	switch c.QueryParam("direction") {
	case "", string(models.DebtTypeLent):
	case string(models.DebtTypeBorrowed):
		direction = models.DebtTypeBorrowed
	default:
		return apperr.Validation("unknown direction %q", c.QueryParam("direction"))
	}

	limit := defaultTopLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperr.Validation("limit must be a positive integer, got %q", raw)
		}
		limit = parsed
	}

	uid := userUID(c)
	key := services.DashboardKey(uid, "top", string(direction), strconv.Itoa(limit))

	rows, err := services.GetOrSet(h.cache, c.Request().Context(), key, services.DashboardCacheTTL, func() ([]stats.NamedAmount, error) {
		debts, err := h.load(c)
		if err != nil {
			return nil, err
		}
		return stats.TopCounterparties(debts, direction, limit), nil
	})
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []stats.NamedAmount{}
	}
	return c.JSON(http.StatusOK, rows)
}

// TopPeers feeds the chart: active debts grouped per counterparty, ranked by
// metric=initial|paid|pending over view=lent|borrowed
func (h *DashboardHandler) TopPeers(c echo.Context) error {
	view := models.DebtTypeLent
	switch c.QueryParam("view") {
	case "", string(models.DebtTypeLent):
	case string(models.DebtTypeBorrowed):
		view = models.DebtTypeBorrowed
	default:
		return apperr.Validation("unknown view %q", c.QueryParam("view"))
	}

	metric := stats.PeerMetricPending
	switch stats.PeerMetric(c.QueryParam("metric")) {
	case "", stats.PeerMetricPending:
	case stats.PeerMetricInitial:
		metric = stats.PeerMetricInitial
	case stats.PeerMetricPaid:
		metric = stats.PeerMetricPaid
	default:
		return apperr.Validation("unknown metric %q", c.QueryParam("metric"))
	}

	uid := userUID(c)
	key := services.DashboardKey(uid, "peers", string(view), string(metric))

	rows, err := services.GetOrSet(h.cache, c.Request().Context(), key, services.DashboardCacheTTL, func() ([]stats.NamedAmount, error) {
		debts, err := h.load(c)
		if err != nil {
			return nil, err
		}
		return stats.TopPeers(debts, view, metric, defaultPeerLimit), nil
	})
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []stats.NamedAmount{}
	}
	return c.JSON(http.StatusOK, rows)
}

// recoveredResponse pairs the month key with its recovered total.
type recoveredResponse struct {
	Month     string  `json:"month"`
	Recovered float64 `json:"recovered"`
}

// MonthlyRecovered sums payments received on lent debts during ?month=2006-01,
// defaulting to the current month
func (h *DashboardHandler) MonthlyRecovered(c echo.Context) error {
	month := c.QueryParam("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return apperr.Validation("month must look like 2006-01, got %q", month)
	}

	uid := userUID(c)
	key := services.DashboardKey(uid, "recovered", month)

	resp, err := services.GetOrSet(h.cache, c.Request().Context(), key, services.DashboardCacheTTL, func() (recoveredResponse, error) {
		debts, err := h.load(c)
		if err != nil {
			return recoveredResponse{}, err
		}
		return recoveredResponse{Month: month, Recovered: stats.MonthlyRecovered(debts, month)}, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Consolidated answers the per-person net-balance table. ?sort overrides the
// default net-balance-magnitude order, ?dir=asc flips direction.
func (h *DashboardHandler) Consolidated(c echo.Context) error {
	sortKey := stats.ConsolidatedSortKey(c.QueryParam("sort"))
	switch sortKey {
	case "", stats.SortByName, stats.SortByOriginal, stats.SortByPaid, stats.SortByPending:
	default:
		return apperr.Validation("unknown sort %q", c.QueryParam("sort"))
	}
	desc := true
	switch c.QueryParam("dir") {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return apperr.Validation("dir must be asc or desc, got %q", c.QueryParam("dir"))
	}

	uid := userUID(c)
	key := services.DashboardKey(uid, "consolidated", string(sortKey), strconv.FormatBool(desc))

	groups, err := services.GetOrSet(h.cache, c.Request().Context(), key, services.DashboardCacheTTL, func() ([]stats.PersonGroup, error) {
		debts, err := h.load(c)
		if err != nil {
			return nil, err
		}
		groups := stats.ConsolidateByPerson(debts)
		if sortKey != "" || !desc {
			stats.SortConsolidated(groups, sortKey, desc)
		}
		return groups, nil
	})
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []stats.PersonGroup{}
	}
	return c.JSON(http.StatusOK, groups)
}
