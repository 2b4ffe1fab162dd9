package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/finwise/finance-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpense inserts a new expense record
func (r *Repository) CreateExpense(e *models.ExpenseRecord) error {
	query := `
		INSERT INTO finance.expenses (id, amount, currency, category, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRow(query, e.ID, e.Amount, e.Currency, e.Category, e.Description, e.Date).
		Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// ListExpenses retrieves all expense records ordered by date
func (r *Repository) ListExpenses() ([]models.ExpenseRecord, error) {
	query := `
		SELECT id, amount, currency, category, COALESCE(description, ''), date, created_at
		FROM finance.expenses
		ORDER BY date`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.ExpenseRecord
	for rows.Next() {
		var e models.ExpenseRecord
		if err := rows.Scan(&e.ID, &e.Amount, &e.Currency, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense updates the mutable fields of an expense record
func (r *Repository) UpdateExpense(e *models.ExpenseRecord) error {
	query := `
		UPDATE finance.expenses
		SET amount = $2, currency = $3, category = $4, description = $5, date = $6
		WHERE id = $1`
	result, err := r.db.Exec(query, e.ID, e.Amount, e.Currency, e.Category, e.Description, e.Date)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireRow(result, "expense")
}

// DeleteExpense removes an expense record
func (r *Repository) DeleteExpense(id string) error {
	result, err := r.db.Exec(`DELETE FROM finance.expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(result, "expense")
}

// CreateIncome inserts a new income record
func (r *Repository) CreateIncome(in *models.IncomeRecord) error {
	query := `
		INSERT INTO finance.incomes (id, amount, currency, category, status, recurrence, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRow(query, in.ID, in.Amount, in.Currency, in.Category, in.Status, in.Recurrence, in.Date).
		Scan(&in.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

// ListIncomes retrieves all income records ordered by date
func (r *Repository) ListIncomes() ([]models.IncomeRecord, error) {
	query := `
		SELECT id, amount, currency, category, status, recurrence, date, created_at
		FROM finance.incomes
		ORDER BY date`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []models.IncomeRecord
	for rows.Next() {
		var in models.IncomeRecord
		if err := rows.Scan(&in.ID, &in.Amount, &in.Currency, &in.Category, &in.Status, &in.Recurrence, &in.Date, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// ListDueScheduledIncomes retrieves scheduled incomes with an event date at
// or before the given time
func (r *Repository) ListDueScheduledIncomes(now time.Time) ([]models.IncomeRecord, error) {
	query := `
		SELECT id, amount, currency, category, status, recurrence, date, created_at
		FROM finance.incomes
		WHERE status = $1 AND date <= $2
		ORDER BY date`
	rows, err := r.db.Query(query, models.IncomeStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due incomes: %w", err)
	}
	defer rows.Close()

	var incomes []models.IncomeRecord
	for rows.Next() {
		var in models.IncomeRecord
		if err := rows.Scan(&in.ID, &in.Amount, &in.Currency, &in.Category, &in.Status, &in.Recurrence, &in.Date, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// UpdateIncome updates the mutable fields of an income record
func (r *Repository) UpdateIncome(in *models.IncomeRecord) error {
	query := `
		UPDATE finance.incomes
		SET amount = $2, currency = $3, category = $4, status = $5, recurrence = $6, date = $7
		WHERE id = $1`
	result, err := r.db.Exec(query, in.ID, in.Amount, in.Currency, in.Category, in.Status, in.Recurrence, in.Date)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}
	return requireRow(result, "income")
}

// DeleteIncome removes an income record
func (r *Repository) DeleteIncome(id string) error {
	result, err := r.db.Exec(`DELETE FROM finance.incomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	return requireRow(result, "income")
}

// CreateParticipant inserts a new participant
func (r *Repository) CreateParticipant(p *models.Participant) error {
	_, err := r.db.Exec(`INSERT INTO finance.participants (id, name) VALUES ($1, $2)`, p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// ListParticipants retrieves all participants ordered by name
func (r *Repository) ListParticipants() ([]models.Participant, error) {
	rows, err := r.db.Query(`SELECT id, name FROM finance.participants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// DeleteParticipant removes a participant
func (r *Repository) DeleteParticipant(id string) error {
	result, err := r.db.Exec(`DELETE FROM finance.participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return requireRow(result, "participant")
}

// CreateSplitBill inserts a new split bill with its share mapping
func (r *Repository) CreateSplitBill(b *models.SplitBill) error {
	shares, err := json.Marshal(b.CustomAmounts)
	if err != nil {
		return fmt.Errorf("failed to encode shares: %w", err)
	}
	query := `
		INSERT INTO finance.split_bills
			(id, description, total_amount, currency, paid_by, participants, split_type, custom_amounts, settled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err = r.db.QueryRow(query, b.ID, b.Description, b.TotalAmount, b.Currency, b.PaidBy,
		pq.Array(b.Participants), b.SplitType, shares, b.Settled).
		Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create split bill: %w", err)
	}
	return nil
}

// GetSplitBill retrieves one split bill by id
func (r *Repository) GetSplitBill(id string) (*models.SplitBill, error) {
	query := `
		SELECT id, description, total_amount, currency, paid_by, participants, split_type, custom_amounts, settled, created_at
		FROM finance.split_bills
		WHERE id = $1`
	b, err := scanBill(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split bill not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split bill: %w", err)
	}
	return b, nil
}

// ListActiveSplitBills retrieves all non-settled bills
func (r *Repository) ListActiveSplitBills() ([]models.SplitBill, error) {
	return r.listBills(`
		SELECT id, description, total_amount, currency, paid_by, participants, split_type, custom_amounts, settled, created_at
		FROM finance.split_bills
		WHERE NOT settled
		ORDER BY created_at`)
}

// ListSplitBills retrieves all bills
func (r *Repository) ListSplitBills() ([]models.SplitBill, error) {
	return r.listBills(`
		SELECT id, description, total_amount, currency, paid_by, participants, split_type, custom_amounts, settled, created_at
		FROM finance.split_bills
		ORDER BY created_at`)
}

func (r *Repository) listBills(query string) ([]models.SplitBill, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list split bills: %w", err)
	}
	defer rows.Close()

	var bills []models.SplitBill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBill(row rowScanner) (*models.SplitBill, error) {
	var b models.SplitBill
	var shares []byte
	err := row.Scan(&b.ID, &b.Description, &b.TotalAmount, &b.Currency, &b.PaidBy,
		pq.Array(&b.Participants), &b.SplitType, &shares, &b.Settled, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(shares) > 0 {
		if err := json.Unmarshal(shares, &b.CustomAmounts); err != nil {
			return nil, fmt.Errorf("failed to decode shares: %w", err)
		}
	}
	return &b, nil
}

// SetBillSettled toggles the settled flag on a bill
func (r *Repository) SetBillSettled(id string, settled bool) error {
	result, err := r.db.Exec(`UPDATE finance.split_bills SET settled = $2 WHERE id = $1`, id, settled)
	if err != nil {
		return fmt.Errorf("failed to update split bill: %w", err)
	}
	return requireRow(result, "split bill")
}

// DeleteSplitBill removes a bill
func (r *Repository) DeleteSplitBill(id string) error {
	result, err := r.db.Exec(`DELETE FROM finance.split_bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete split bill: %w", err)
	}
	return requireRow(result, "split bill")
}

// CreatePlan inserts a monthly budget plan. The month key is unique; plans
// for past months are never rewritten through this path.
func (r *Repository) CreatePlan(plan *models.MonthlyBudgetPlan) error {
	buckets, err := json.Marshal(plan.Buckets)
	if err != nil {
		return fmt.Errorf("failed to encode buckets: %w", err)
	}
	query := `
		INSERT INTO finance.budget_plans (month, currency, total_income, buckets, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	if _, err := r.db.Exec(query, plan.Month, plan.Currency, plan.TotalIncome, buckets); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// GetPlan retrieves the plan for a month, or nil when none exists
func (r *Repository) GetPlan(month string) (*models.MonthlyBudgetPlan, error) {
	var plan models.MonthlyBudgetPlan
	var buckets []byte
	query := `
		SELECT month, currency, total_income, buckets
		FROM finance.budget_plans
		WHERE month = $1`
	err := r.db.QueryRow(query, month).Scan(&plan.Month, &plan.Currency, &plan.TotalIncome, &buckets)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if err := json.Unmarshal(buckets, &plan.Buckets); err != nil {
		return nil, fmt.Errorf("failed to decode buckets: %w", err)
	}
	return &plan, nil
}

// SavePlan persists the updated bucket state of an existing plan
func (r *Repository) SavePlan(plan *models.MonthlyBudgetPlan) error {
	buckets, err := json.Marshal(plan.Buckets)
	if err != nil {
		return fmt.Errorf("failed to encode buckets: %w", err)
	}
	query := `
		UPDATE finance.budget_plans
		SET total_income = $2, buckets = $3, updated_at = CURRENT_TIMESTAMP
		WHERE month = $1`
	result, err := r.db.Exec(query, plan.Month, plan.TotalIncome, buckets)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return requireRow(result, "plan")
}

// ListPlanMonths retrieves the months that have a plan, newest first
func (r *Repository) ListPlanMonths() ([]string, error) {
	rows, err := r.db.Query(`SELECT month FROM finance.budget_plans ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			return nil, fmt.Errorf("failed to scan plan month: %w", err)
		}
		months = append(months, month)
	}
	return months, rows.Err()
}

// requireRow converts a zero-row result into a not-found error
func requireRow(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update: %w", entity, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s not found", entity)
	}
	return nil
}
