// Package stats computes dashboard aggregates over a snapshot of debts.
// Every function is pure and total: no mutation, zero values on empty input,
// and deterministic output for a fixed input order (groups keep the insertion
// order of their first occurrence, sorts are stable).
package stats

import (
	"math"
	"sort"

	"paycontrol/internal/models"
)

// Summary is the headline balance of the dashboard cards. Only active debts
// count; settled and archived ones are excluded from both totals.
type Summary struct {
	TotalLent     float64 `json:"total_lent"`
	TotalBorrowed float64 `json:"total_borrowed"`
}

// Balance is the derived display value: what the world owes the user, net.
func (s Summary) Balance() float64 {
	return s.TotalLent - s.TotalBorrowed
}

// GlobalSummary sums the remaining balance of active debts grouped by type.
func GlobalSummary(debts []models.Debt) Summary {
	var s Summary
	for _, d := range debts {
		if d.Status != models.DebtStatusActive {
			continue
		}
		switch d.Type {
		case models.DebtTypeLent:
			s.TotalLent += d.Remaining()
		case models.DebtTypeBorrowed:
			s.TotalBorrowed += d.Remaining()
		}
	}
	return s
}

// NamedAmount is one row of a per-counterparty ranking.
type NamedAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// TopCounterparties ranks counterparties of active debts of the given type by
// remaining balance, descending, truncated to limit. direction lent means
// "who owes me most", borrowed means "who I owe most".
func TopCounterparties(debts []models.Debt, direction models.DebtType, limit int) []NamedAmount {
	grouped := groupRemaining(debts, direction)
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Amount > grouped[j].Amount
	})
	if limit > 0 && len(grouped) > limit {
		grouped = grouped[:limit]
	}
	return grouped
}

func groupRemaining(debts []models.Debt, direction models.DebtType) []NamedAmount {
	index := make(map[string]int)
	var rows []NamedAmount
	for _, d := range debts {
		if d.Status != models.DebtStatusActive || d.Type != direction {
			continue
		}
		i, ok := index[d.Counterparty]
		if !ok {
			i = len(rows)
			index[d.Counterparty] = i
			rows = append(rows, NamedAmount{Name: d.Counterparty})
		}
		rows[i].Amount += d.Remaining()
	}
	return rows
}

// MonthlyRecovered sums the payments received on lent debts during the given
// calendar month (key format "2006-01"). Status does not matter: money paid
// back on a debt that later settled or was archived still counts.
// Borrowed-side payments are never "recovered".
func MonthlyRecovered(debts []models.Debt, yearMonth string) float64 {
	var total float64
	for _, d := range debts {
		if d.Type != models.DebtTypeLent {
			continue
		}
		for _, p := range d.Payments {
			if p.Date.Format("2006-01") == yearMonth {
				total += p.Amount
			}
		}
	}
	return total
}

// PeerMetric selects which column the top-peers chart ranks by.
type PeerMetric string

const (
	PeerMetricInitial PeerMetric = "initial"
	PeerMetricPaid    PeerMetric = "paid"
	PeerMetricPending PeerMetric = "pending"
)

// TopPeers groups active debts of the given type per counterparty and ranks
// them by the chosen metric, dropping zero rows and truncating to limit.
// Feeds the dashboard pie chart.
func TopPeers(debts []models.Debt, view models.DebtType, metric PeerMetric, limit int) []NamedAmount {
	type peer struct {
		initial, paid, pending float64
	}
	index := make(map[string]int)
	var names []string
	var peers []peer
	for _, d := range debts {
		if d.Status != models.DebtStatusActive || d.Type != view {
			continue
		}
		i, ok := index[d.Counterparty]
		if !ok {
			i = len(peers)
			index[d.Counterparty] = i
			names = append(names, d.Counterparty)
			peers = append(peers, peer{})
		}
		peers[i].initial += d.Amount
		peers[i].paid += d.PaidAmount
		peers[i].pending += d.Remaining()
	}

	var rows []NamedAmount
	for i, p := range peers {
		var v float64
		switch metric {
		case PeerMetricInitial:
			v = p.initial
		case PeerMetricPaid:
			v = p.paid
		default:
			v = p.pending
		}
		if v > 0 {
			rows = append(rows, NamedAmount{Name: names[i], Amount: v})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount > rows[j].Amount
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// PersonGroup is one row of the consolidated per-counterparty view.
type PersonGroup struct {
	Counterparty  string  `json:"counterparty"`
	TotalOriginal float64 `json:"total_original"`
	TotalPaid     float64 `json:"total_paid"`
	TotalPending  float64 `json:"total_pending"`
	// NetBalance is signed: positive means they owe the user net,
	// negative means the user owes them net.
	NetBalance float64 `json:"net_balance"`
	Count      int     `json:"count"`
}

// ConsolidateByPerson groups active debts per counterparty into a single
// net-balance row. Default order is descending by net-balance magnitude.
func ConsolidateByPerson(debts []models.Debt) []PersonGroup {
	index := make(map[string]int)
	var groups []PersonGroup
	for _, d := range debts {
		if d.Status != models.DebtStatusActive {
			continue
		}
		i, ok := index[d.Counterparty]
		if !ok {
			i = len(groups)
			index[d.Counterparty] = i
			groups = append(groups, PersonGroup{Counterparty: d.Counterparty})
		}
		g := &groups[i]
		g.TotalOriginal += d.Amount
		g.TotalPaid += d.PaidAmount
		g.TotalPending += d.Remaining()
		g.Count++
		if d.Type == models.DebtTypeLent {
			g.NetBalance += d.Remaining()
		} else {
			g.NetBalance -= d.Remaining()
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return math.Abs(groups[i].NetBalance) > math.Abs(groups[j].NetBalance)
	})
	return groups
}

// ConsolidatedSortKey is a column override for the consolidated view.
type ConsolidatedSortKey string

const (
	SortByName     ConsolidatedSortKey = "name"
	SortByOriginal ConsolidatedSortKey = "initial"
	SortByPaid     ConsolidatedSortKey = "paid"
	SortByPending  ConsolidatedSortKey = "pending"
)

// SortConsolidated re-orders groups in place by the given column.
func SortConsolidated(groups []PersonGroup, key ConsolidatedSortKey, desc bool) {
	less := func(i, j int) bool {
		switch key {
		case SortByName:
			return groups[i].Counterparty < groups[j].Counterparty
		case SortByOriginal:
			return groups[i].TotalOriginal < groups[j].TotalOriginal
		case SortByPaid:
			return groups[i].TotalPaid < groups[j].TotalPaid
		case SortByPending:
			return groups[i].TotalPending < groups[j].TotalPending
		default:
			return math.Abs(groups[i].NetBalance) < math.Abs(groups[j].NetBalance)
		}
	}
	if desc {
		sort.SliceStable(groups, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(groups, less)
	}
}

// HistoryRank is the status priority of the full-history list:
// pending work first, then settled, then archived.
func HistoryRank(d models.Debt) int {
	switch d.Status {
	case models.DebtStatusActive:
		return 0
	case models.DebtStatusSettled:
		return 1
	default:
		return 2
	}
}

// SortHistory returns a copy of debts in the history-list order: by status
// rank, then active debts oldest first (surfacing what is overdue) and
// non-active ones most recent first.
func SortHistory(debts []models.Debt) []models.Debt {
	sorted := make([]models.Debt, len(debts))
	copy(sorted, debts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ra, rb := HistoryRank(a), HistoryRank(b); ra != rb {
			return ra < rb
		}
		if a.Status == models.DebtStatusActive {
			return a.Date.Before(b.Date)
		}
		return b.Date.Before(a.Date)
	})
	return sorted
}

// FilterActive returns the active debts in input order, for the dashboard's
// active-debts list.
func FilterActive(debts []models.Debt) []models.Debt {
	var active []models.Debt
	for _, d := range debts {
		if d.Status == models.DebtStatusActive {
			active = append(active, d)
		}
	}
	return active
}
