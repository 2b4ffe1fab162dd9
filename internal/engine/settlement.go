package engine

import (
	"github.com/finwise/finance-service/internal/models"
)

// ResolveSettlements reduces the active (non-settled) bills of a group into a
// list of directed payments that zero out every participant's net position.
//
// Each participant's balance is what they paid for others minus what they owe
// across all bills. Debtors are then matched against creditors greedily in the
// order the participants were supplied; the match takes the smaller of the two
// open balances and moves on once a balance reaches zero. This does not
// guarantee the theoretical minimum number of transfers, which would require
// magnitude-ordered matching; encounter order is the accepted policy.
//
// Settlements at or below one cent are dropped so floating residue never
// surfaces as a phantom transfer.
func ResolveSettlements(bills []models.SplitBill, participants []models.Participant) []models.Settlement {
	balances := make(map[string]float64, len(participants))

	for _, bill := range bills {
		if bill.Settled || len(bill.Participants) == 0 {
			continue
		}
		balances[bill.PaidBy] += bill.TotalAmount
		for _, pid := range bill.Participants {
			balances[pid] -= bill.Share(pid)
		}
	}

	// Partition in participant encounter order so the output is deterministic
	// for a given input ordering.
	var creditors, debtors []string
	for _, p := range participants {
		switch b := balances[p.ID]; {
		case b > Epsilon:
			creditors = append(creditors, p.ID)
		case b < -Epsilon:
			debtors = append(debtors, p.ID)
		}
	}

	var settlements []models.Settlement
	ci := 0
	for _, debtor := range debtors {
		owed := -balances[debtor]
		for owed > Epsilon && ci < len(creditors) {
			creditor := creditors[ci]
			available := balances[creditor]
			amount := owed
			if available < amount {
				amount = available
			}

			if amount > Epsilon {
				settlements = append(settlements, models.Settlement{
					From:   debtor,
					To:     creditor,
					Amount: RoundCents(amount),
				})
			}

			owed -= amount
			balances[creditor] -= amount
			if balances[creditor] <= Epsilon {
				ci++
			}
		}
		balances[debtor] = -owed
	}

	return settlements
}
