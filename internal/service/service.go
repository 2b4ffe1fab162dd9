package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finwise/finance-service/internal/currency"
	"github.com/finwise/finance-service/internal/engine"
	"github.com/finwise/finance-service/internal/models"
)

// Store is the persistence surface the service depends on. It is implemented
// by repository.Repository.
type Store interface {
	CreateExpense(e *models.ExpenseRecord) error
	ListExpenses() ([]models.ExpenseRecord, error)
	UpdateExpense(e *models.ExpenseRecord) error
	DeleteExpense(id string) error

	CreateIncome(in *models.IncomeRecord) error
	ListIncomes() ([]models.IncomeRecord, error)
	ListDueScheduledIncomes(now time.Time) ([]models.IncomeRecord, error)
	UpdateIncome(in *models.IncomeRecord) error
	DeleteIncome(id string) error

	CreateParticipant(p *models.Participant) error
	ListParticipants() ([]models.Participant, error)
	DeleteParticipant(id string) error

	CreateSplitBill(b *models.SplitBill) error
	GetSplitBill(id string) (*models.SplitBill, error)
	ListSplitBills() ([]models.SplitBill, error)
	ListActiveSplitBills() ([]models.SplitBill, error)
	SetBillSettled(id string, settled bool) error
	DeleteSplitBill(id string) error

	CreatePlan(plan *models.MonthlyBudgetPlan) error
	GetPlan(month string) (*models.MonthlyBudgetPlan, error)
	SavePlan(plan *models.MonthlyBudgetPlan) error
	ListPlanMonths() ([]string, error)
}

// Service handles business logic
type Service struct {
	store      Store
	log        *logrus.Logger
	normalizer *currency.Normalizer
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, normalizer *currency.Normalizer) *Service {
	return &Service{store: store, log: log, normalizer: normalizer}
}

// CreateExpense validates and stores a new expense record
func (s *Service) CreateExpense(amount float64, currencyCode, category, description string, date time.Time) (*models.ExpenseRecord, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateName(category); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}

	e := &models.ExpenseRecord{
		ID:          uuid.NewString(),
		Amount:      engine.RoundCents(amount),
		Currency:    currencyCode,
		Category:    category,
		Description: description,
		Date:        date,
	}
	if err := s.store.CreateExpense(e); err != nil {
		return nil, err
	}
	s.log.Infof("Expense created: %s %.2f %s (%s)", e.ID, e.Amount, e.Currency, e.Category)
	return e, nil
}

// ListExpenses retrieves the expense ledger
func (s *Service) ListExpenses() ([]models.ExpenseRecord, error) {
	return s.store.ListExpenses()
}

// UpdateExpense validates and applies changes to an expense record
func (s *Service) UpdateExpense(e *models.ExpenseRecord) error {
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if err := validateName(e.Category); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	e.Amount = engine.RoundCents(e.Amount)
	return s.store.UpdateExpense(e)
}

// DeleteExpense removes an expense record
func (s *Service) DeleteExpense(id string) error {
	return s.store.DeleteExpense(id)
}

// CreateIncome validates and stores a new income record
func (s *Service) CreateIncome(amount float64, currencyCode, category, status, recurrence string, date time.Time) (*models.IncomeRecord, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateIncomeFields(status, recurrence); err != nil {
		return nil, err
	}

	in := &models.IncomeRecord{
		ID:         uuid.NewString(),
		Amount:     engine.RoundCents(amount),
		Currency:   currencyCode,
		Category:   category,
		Status:     status,
		Recurrence: recurrence,
		Date:       date,
	}
	if err := s.store.CreateIncome(in); err != nil {
		return nil, err
	}
	s.log.Infof("Income created: %s %.2f %s (%s, %s)", in.ID, in.Amount, in.Currency, in.Status, in.Recurrence)
	return in, nil
}

// ListIncomes retrieves all income records
func (s *Service) ListIncomes() ([]models.IncomeRecord, error) {
	return s.store.ListIncomes()
}

// UpdateIncome validates and applies changes to an income record
func (s *Service) UpdateIncome(in *models.IncomeRecord) error {
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	if err := validateIncomeFields(in.Status, in.Recurrence); err != nil {
		return err
	}
	in.Amount = engine.RoundCents(in.Amount)
	return s.store.UpdateIncome(in)
}

// DeleteIncome removes an income record
func (s *Service) DeleteIncome(id string) error {
	return s.store.DeleteIncome(id)
}

// CreateParticipant stores a new participant
func (s *Service) CreateParticipant(name string) (*models.Participant, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	p := &models.Participant{ID: uuid.NewString(), Name: name}
	if err := s.store.CreateParticipant(p); err != nil {
		return nil, err
	}
	s.log.Infof("Participant created: %s (%s)", p.Name, p.ID)
	return p, nil
}

// ListParticipants retrieves all participants
func (s *Service) ListParticipants() ([]models.Participant, error) {
	return s.store.ListParticipants()
}

// DeleteParticipant removes a participant
func (s *Service) DeleteParticipant(id string) error {
	return s.store.DeleteParticipant(id)
}

// ProcessRecurringIncomes advances every scheduled income whose event date
// has passed: the due occurrence is recorded as received, and repeating
// incomes are rescheduled one recurrence step ahead. Invoked daily by the
// cron scheduler.
func (s *Service) ProcessRecurringIncomes(now time.Time) error {
	due, err := s.store.ListDueScheduledIncomes(now)
	if err != nil {
		return fmt.Errorf("failed to load due incomes: %w", err)
	}

	for _, in := range due {
		if in.Recurrence == models.RecurrenceOneTime {
			in.Status = models.IncomeStatusReceived
			if err := s.store.UpdateIncome(&in); err != nil {
				return err
			}
			s.log.Infof("Income %s marked received", in.ID)
			continue
		}

		received := in
		received.ID = uuid.NewString()
		received.Status = models.IncomeStatusReceived
		received.Recurrence = models.RecurrenceOneTime
		if err := s.store.CreateIncome(&received); err != nil {
			return err
		}

		next, err := nextOccurrence(in.Date, in.Recurrence)
		if err != nil {
			return err
		}
		in.Date = next
		if err := s.store.UpdateIncome(&in); err != nil {
			return err
		}
		s.log.Infof("Income %s recorded as %s, next occurrence %s", in.ID, received.ID, next.Format("2006-01-02"))
	}
	return nil
}
