package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"association-treasury/internal/models"
)

func TestRecomputeBudgets_SpentFromApprovedExpenses(t *testing.T) {
	transactions := []models.Transaction{
		{Type: models.TypeExpense, Status: models.StatusApproved, Category: "Transport", Amount: 2000},
		{Type: models.TypeExpense, Status: models.StatusApproved, Category: "Transport", Amount: 500},
		{Type: models.TypeExpense, Status: models.StatusPending, Category: "Transport", Amount: 9999},
		{Type: models.TypeExpense, Status: models.StatusRejected, Category: "Transport", Amount: 100},
		{Type: models.TypeIncome, Status: models.StatusApproved, Category: "Transport", Amount: 300},
		{Type: models.TypeExpense, Status: models.StatusApproved, Category: "Fournitures", Amount: 750},
	}
	budgets := []models.Budget{
		{ID: "b1", Category: "Transport", Allocated: 10000, FiscalYear: 2026, Persisted: true},
		{ID: "b2", Category: "Fournitures", Allocated: 5000, FiscalYear: 2026, Persisted: true},
		{ID: "b3", Category: "Maintenance", Allocated: 1000, FiscalYear: 2026, Persisted: true},
	}

	got := RecomputeBudgets(transactions, budgets)

	require.Len(t, got, 3)
	assert.Equal(t, 2500.0, got[0].Spent)
	assert.Equal(t, 750.0, got[1].Spent)
	assert.Equal(t, 0.0, got[2].Spent)

	// Everything else passes through untouched
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, 10000.0, got[0].Allocated)
	assert.Equal(t, 2026, got[0].FiscalYear)
	assert.True(t, got[0].Persisted)
}

func TestRecomputeBudgets_Idempotent(t *testing.T) {
	transactions := []models.Transaction{
		{Type: models.TypeExpense, Status: models.StatusApproved, Category: "Transport", Amount: 1200},
	}
	budgets := []models.Budget{
		{ID: "b1", Category: "Transport", Spent: 42},
	}

	once := RecomputeBudgets(transactions, budgets)
	twice := RecomputeBudgets(transactions, once)
	assert.Equal(t, once, twice)
}

func TestRecomputeBudgets_StaleSpentOverwritten(t *testing.T) {
	budgets := []models.Budget{
		{ID: "b1", Category: "Transport", Spent: 999},
	}

	got := RecomputeBudgets(nil, budgets)
	assert.Equal(t, 0.0, got[0].Spent)
}

func TestDeriveStats(t *testing.T) {
	tests := []struct {
		name         string
		transactions []models.Transaction
		want         models.Stats
	}{
		{
			name: "empty",
			want: models.Stats{},
		},
		{
			name: "income and pending expense",
			transactions: []models.Transaction{
				{Type: models.TypeIncome, Status: models.StatusApproved, Amount: 15000},
				{Type: models.TypeExpense, Status: models.StatusPending, Category: "Transport", Amount: 2000},
			},
			want: models.Stats{Balance: 15000, TotalIncome: 15000, PendingCount: 1},
		},
		{
			name: "approved expense reduces balance",
			transactions: []models.Transaction{
				{Type: models.TypeIncome, Status: models.StatusApproved, Amount: 15000},
				{Type: models.TypeExpense, Status: models.StatusApproved, Category: "Transport", Amount: 2000},
			},
			want: models.Stats{Balance: 13000, TotalIncome: 15000, TotalExpense: 2000},
		},
		{
			name: "rejected counts toward nothing",
			transactions: []models.Transaction{
				{Type: models.TypeIncome, Status: models.StatusRejected, Amount: 500},
				{Type: models.TypeExpense, Status: models.StatusRejected, Amount: 300},
			},
			want: models.Stats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStats(tt.transactions))
		})
	}
}

func TestBudgetsEqual(t *testing.T) {
	a := []models.Budget{{ID: "b1", Category: "Transport", Spent: 10}}
	b := []models.Budget{{ID: "b1", Category: "Transport", Spent: 10}}
	c := []models.Budget{{ID: "b1", Category: "Transport", Spent: 11}}

	assert.True(t, budgetsEqual(a, b))
	assert.False(t, budgetsEqual(a, c))
	assert.False(t, budgetsEqual(a, nil))
}
