package service

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwise/finance-service/internal/currency"
	"github.com/finwise/finance-service/internal/models"
)

// fakeStore is an in-memory Store used by the service tests
type fakeStore struct {
	expenses     map[string]models.ExpenseRecord
	incomes      map[string]models.IncomeRecord
	participants []models.Participant
	bills        map[string]models.SplitBill
	plans        map[string]models.MonthlyBudgetPlan
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenses: map[string]models.ExpenseRecord{},
		incomes:  map[string]models.IncomeRecord{},
		bills:    map[string]models.SplitBill{},
		plans:    map[string]models.MonthlyBudgetPlan{},
	}
}

func (f *fakeStore) CreateExpense(e *models.ExpenseRecord) error {
	e.CreatedAt = time.Now()
	f.expenses[e.ID] = *e
	return nil
}

func (f *fakeStore) ListExpenses() ([]models.ExpenseRecord, error) {
	var out []models.ExpenseRecord
	for _, e := range f.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) UpdateExpense(e *models.ExpenseRecord) error {
	if _, ok := f.expenses[e.ID]; !ok {
		return fmt.Errorf("expense not found")
	}
	f.expenses[e.ID] = *e
	return nil
}

func (f *fakeStore) DeleteExpense(id string) error {
	if _, ok := f.expenses[id]; !ok {
		return fmt.Errorf("expense not found")
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) CreateIncome(in *models.IncomeRecord) error {
	in.CreatedAt = time.Now()
	f.incomes[in.ID] = *in
	return nil
}

func (f *fakeStore) ListIncomes() ([]models.IncomeRecord, error) {
	var out []models.IncomeRecord
	for _, in := range f.incomes {
		out = append(out, in)
	}
	return out, nil
}

func (f *fakeStore) ListDueScheduledIncomes(now time.Time) ([]models.IncomeRecord, error) {
	var out []models.IncomeRecord
	for _, in := range f.incomes {
		if in.Status == models.IncomeStatusScheduled && !in.Date.After(now) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateIncome(in *models.IncomeRecord) error {
	if _, ok := f.incomes[in.ID]; !ok {
		return fmt.Errorf("income not found")
	}
	f.incomes[in.ID] = *in
	return nil
}

func (f *fakeStore) DeleteIncome(id string) error {
	delete(f.incomes, id)
	return nil
}

func (f *fakeStore) CreateParticipant(p *models.Participant) error {
	f.participants = append(f.participants, *p)
	return nil
}

func (f *fakeStore) ListParticipants() ([]models.Participant, error) {
	return f.participants, nil
}

func (f *fakeStore) DeleteParticipant(id string) error {
	for i, p := range f.participants {
		if p.ID == id {
			f.participants = append(f.participants[:i], f.participants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("participant not found")
}

func (f *fakeStore) CreateSplitBill(b *models.SplitBill) error {
	b.CreatedAt = time.Now()
	f.bills[b.ID] = *b
	return nil
}

func (f *fakeStore) GetSplitBill(id string) (*models.SplitBill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, fmt.Errorf("split bill not found")
	}
	return &b, nil
}

func (f *fakeStore) ListSplitBills() ([]models.SplitBill, error) {
	var out []models.SplitBill
	for _, b := range f.bills {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) ListActiveSplitBills() ([]models.SplitBill, error) {
	var out []models.SplitBill
	for _, b := range f.bills {
		if !b.Settled {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) SetBillSettled(id string, settled bool) error {
	b, ok := f.bills[id]
	if !ok {
		return fmt.Errorf("split bill not found")
	}
	b.Settled = settled
	f.bills[id] = b
	return nil
}

func (f *fakeStore) DeleteSplitBill(id string) error {
	delete(f.bills, id)
	return nil
}

func (f *fakeStore) CreatePlan(plan *models.MonthlyBudgetPlan) error {
	f.plans[plan.Month] = *plan
	return nil
}

func (f *fakeStore) GetPlan(month string) (*models.MonthlyBudgetPlan, error) {
	plan, ok := f.plans[month]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (f *fakeStore) SavePlan(plan *models.MonthlyBudgetPlan) error {
	if _, ok := f.plans[plan.Month]; !ok {
		return fmt.Errorf("plan not found")
	}
	f.plans[plan.Month] = *plan
	return nil
}

func (f *fakeStore) ListPlanMonths() ([]string, error) {
	var out []string
	for month := range f.plans {
		out = append(out, month)
	}
	return out, nil
}

func newTestService(store Store) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	identity := func(from, to string, date time.Time) (float64, error) { return 1, nil }
	return NewService(store, log, currency.NewNormalizer("USD", identity))
}

func TestCreateSplitBillValidation(t *testing.T) {
	svc := newTestService(newFakeStore())

	t.Run("should persist a valid bill with a generated id", func(t *testing.T) {
		bill, err := svc.CreateSplitBill(&models.SplitBill{
			Description:  "dinner",
			TotalAmount:  90,
			Currency:     "USD",
			PaidBy:       "p1",
			Participants: []string{"p1", "p2", "p3"},
			SplitType:    models.SplitTypeEqual,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, bill.ID)
	})

	t.Run("should reject a custom mapping that misses the total", func(t *testing.T) {
		_, err := svc.CreateSplitBill(&models.SplitBill{
			TotalAmount:   100,
			Currency:      "USD",
			PaidBy:        "p1",
			Participants:  []string{"p1", "p2"},
			SplitType:     models.SplitTypeCustom,
			CustomAmounts: map[string]float64{"p1": 10, "p2": 20},
		})
		assert.Error(t, err)
	})
}

func TestResolveSettlements(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, store.CreateParticipant(&models.Participant{ID: name, Name: name}))
	}
	_, err := svc.CreateSplitBill(&models.SplitBill{
		TotalAmount:  90,
		Currency:     "USD",
		PaidBy:       "A",
		Participants: []string{"A", "B", "C"},
		SplitType:    models.SplitTypeEqual,
	})
	require.NoError(t, err)
	_, err = svc.CreateSplitBill(&models.SplitBill{
		TotalAmount:  30,
		Currency:     "USD",
		PaidBy:       "B",
		Participants: []string{"B", "C"},
		SplitType:    models.SplitTypeEqual,
	})
	require.NoError(t, err)

	settlements, err := svc.ResolveSettlements()
	require.NoError(t, err)
	require.Len(t, settlements, 2)

	paid := map[string]float64{}
	for _, s := range settlements {
		assert.Equal(t, "A", s.To)
		paid[s.From] += s.Amount
	}
	assert.InDelta(t, 15, paid["B"], 0.01)
	assert.InDelta(t, 45, paid["C"], 0.01)

	t.Run("should exclude bills once settled", func(t *testing.T) {
		for id := range store.bills {
			require.NoError(t, svc.SettleBill(id))
		}
		settlements, err := svc.ResolveSettlements()
		require.NoError(t, err)
		assert.Empty(t, settlements)
	})
}

func TestCreateBudgetPlan(t *testing.T) {
	svc := newTestService(newFakeStore())

	plan, err := svc.CreateBudgetPlan("2025-07", 5000, nil)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, plan.Buckets[models.BucketNeeds].Planned)
	assert.Equal(t, "USD", plan.Currency)

	t.Run("should refuse to recreate an existing month", func(t *testing.T) {
		_, err := svc.CreateBudgetPlan("2025-07", 6000, nil)
		assert.Error(t, err)
	})

	t.Run("should reject a malformed month key", func(t *testing.T) {
		_, err := svc.CreateBudgetPlan("072025", 5000, nil)
		assert.Error(t, err)
	})
}

func TestLogBudgetTransaction(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.CreateBudgetPlan("2025-07", 5000, nil)
	require.NoError(t, err)

	t.Run("should persist the updated plan and mirror NEEDS spend", func(t *testing.T) {
		plan, err := svc.LogBudgetTransaction("2025-07", models.BucketNeeds, "Rent", 2600, "july rent")
		require.NoError(t, err)
		assert.Equal(t, models.StatusOver, plan.Buckets[models.BucketNeeds].Status)

		saved, err := store.GetPlan("2025-07")
		require.NoError(t, err)
		assert.Equal(t, 2600.0, saved.Buckets[models.BucketNeeds].Spent)

		expenses, err := store.ListExpenses()
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Rent", expenses[0].Category)
		assert.Equal(t, 2600.0, expenses[0].Amount)
	})

	t.Run("should not mirror SAVINGS transfers", func(t *testing.T) {
		_, err := svc.LogBudgetTransaction("2025-07", models.BucketSavings, "Emergency", 100, "")
		require.NoError(t, err)

		expenses, err := store.ListExpenses()
		require.NoError(t, err)
		assert.Len(t, expenses, 1)
	})
}

func TestProcessRecurringIncomes(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("should mark a due one-time income received", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		in := models.IncomeRecord{
			ID: "one", Amount: 100, Currency: "USD",
			Status: models.IncomeStatusScheduled, Recurrence: models.RecurrenceOneTime,
			Date: now.AddDate(0, 0, -1),
		}
		require.NoError(t, store.CreateIncome(&in))

		require.NoError(t, svc.ProcessRecurringIncomes(now))
		assert.Equal(t, models.IncomeStatusReceived, store.incomes["one"].Status)
	})

	t.Run("should record and reschedule a due monthly income", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		due := now.AddDate(0, 0, -2)
		in := models.IncomeRecord{
			ID: "salary", Amount: 3000, Currency: "USD",
			Status: models.IncomeStatusScheduled, Recurrence: models.RecurrenceMonthly,
			Date: due,
		}
		require.NoError(t, store.CreateIncome(&in))

		require.NoError(t, svc.ProcessRecurringIncomes(now))

		// The original stays scheduled one month ahead.
		rescheduled := store.incomes["salary"]
		assert.Equal(t, models.IncomeStatusScheduled, rescheduled.Status)
		assert.Equal(t, due.AddDate(0, 1, 0), rescheduled.Date)

		// A received occurrence was recorded.
		incomes, err := store.ListIncomes()
		require.NoError(t, err)
		require.Len(t, incomes, 2)
		var received *models.IncomeRecord
		for i := range incomes {
			if incomes[i].Status == models.IncomeStatusReceived {
				received = &incomes[i]
			}
		}
		require.NotNil(t, received)
		assert.Equal(t, 3000.0, received.Amount)
		assert.Equal(t, models.RecurrenceOneTime, received.Recurrence)
	})

	t.Run("should leave future incomes untouched", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		in := models.IncomeRecord{
			ID: "future", Amount: 100, Currency: "USD",
			Status: models.IncomeStatusScheduled, Recurrence: models.RecurrenceMonthly,
			Date: now.AddDate(0, 0, 5),
		}
		require.NoError(t, store.CreateIncome(&in))

		require.NoError(t, svc.ProcessRecurringIncomes(now))
		incomes, err := store.ListIncomes()
		require.NoError(t, err)
		assert.Len(t, incomes, 1)
		assert.Equal(t, models.IncomeStatusScheduled, incomes[0].Status)
	})
}

func TestInsightReport(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	// Three months of expenses through the service so ids are assigned.
	for month := 5; month <= 7; month++ {
		for d := 1; d <= 12; d++ {
			_, err := svc.CreateExpense(20, "USD", "Dining", "", time.Date(2025, time.Month(month), d, 12, 0, 0, 0, time.UTC))
			require.NoError(t, err)
		}
	}

	report, err := svc.InsightReport(nil, now)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotNil(t, report.Prediction)
	assert.Len(t, report.Cashflow, 30)

	t.Run("should honor a balance override", func(t *testing.T) {
		balance := 10000.0
		report, err := svc.InsightReport(&balance, now)
		require.NoError(t, err)
		require.Len(t, report.Cashflow, 30)
		assert.Greater(t, report.Cashflow[0].Balance, 9000.0)
	})
}
