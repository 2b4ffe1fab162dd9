package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/finwise/finance-service/internal/engine"
	"github.com/finwise/finance-service/internal/models"
)

// CreateSplitBill validates and stores a new shared bill. Custom mappings
// that do not sum to the bill total are rejected here so settlement can
// assume valid shares.
func (s *Service) CreateSplitBill(b *models.SplitBill) (*models.SplitBill, error) {
	if err := validateSplitBill(b); err != nil {
		return nil, fmt.Errorf("invalid split bill: %w", err)
	}
	b.ID = uuid.NewString()
	b.TotalAmount = engine.RoundCents(b.TotalAmount)
	if err := s.store.CreateSplitBill(b); err != nil {
		return nil, err
	}
	s.log.Infof("Split bill created: %s %.2f %s among %d participants", b.ID, b.TotalAmount, b.Currency, len(b.Participants))
	return b, nil
}

// ListSplitBills retrieves all bills
func (s *Service) ListSplitBills() ([]models.SplitBill, error) {
	return s.store.ListSplitBills()
}

// SettleBill marks a bill as settled, removing it from future settlement
// computations
func (s *Service) SettleBill(id string) error {
	if err := s.store.SetBillSettled(id, true); err != nil {
		return err
	}
	s.log.Infof("Split bill settled: %s", id)
	return nil
}

// DeleteSplitBill removes a bill
func (s *Service) DeleteSplitBill(id string) error {
	return s.store.DeleteSplitBill(id)
}

// ResolveSettlements computes the payment instructions that clear the
// group's active bills. Bills are normalized to the reporting currency
// first, and the result is recomputed fresh on every call.
func (s *Service) ResolveSettlements() ([]models.Settlement, error) {
	bills, err := s.store.ListActiveSplitBills()
	if err != nil {
		return nil, fmt.Errorf("failed to load active bills: %w", err)
	}
	participants, err := s.store.ListParticipants()
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	normalized, err := s.normalizer.NormalizeBills(bills)
	if err != nil {
		return nil, err
	}
	settlements := engine.ResolveSettlements(normalized, participants)
	s.log.Debugf("Resolved %d settlements from %d active bills", len(settlements), len(bills))
	return settlements, nil
}
