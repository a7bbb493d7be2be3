package store

import "association-treasury/internal/models"

// RecomputeBudgets derives each budget's spent amount from the transaction
// set: the sum of approved expense amounts in its category. All other budget
// fields pass through unchanged. Pure and idempotent; spent amounts are a
// function of the transaction set, never authoritative on their own.
func RecomputeBudgets(transactions []models.Transaction, budgets []models.Budget) []models.Budget {
	spent := make(map[string]float64)
	for _, t := range transactions {
		if t.Type == models.TypeExpense && t.Status == models.StatusApproved {
			spent[t.Category] += t.Amount
		}
	}

	next := make([]models.Budget, len(budgets))
	for i, b := range budgets {
		b.Spent = spent[b.Category]
		next[i] = b
	}
	return next
}

// DeriveStats computes the summary figures from a transaction set. Pending
// transactions count toward pendingCount only; rejected ones count toward
// nothing.
func DeriveStats(transactions []models.Transaction) models.Stats {
	var stats models.Stats
	for _, t := range transactions {
		switch {
		case t.Status == models.StatusPending:
			stats.PendingCount++
		case t.Status == models.StatusApproved && t.Type == models.TypeIncome:
			stats.TotalIncome += t.Amount
		case t.Status == models.StatusApproved && t.Type == models.TypeExpense:
			stats.TotalExpense += t.Amount
		}
	}
	stats.Balance = stats.TotalIncome - stats.TotalExpense
	return stats
}

// budgetsEqual is the structural comparison guarding recomputation: when the
// recomputed set equals the current one, no new snapshot is installed.
func budgetsEqual(a, b []models.Budget) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
