// Package roundup discovers "spare change" surplus from card transactions and
// tracks the surplus pot against its transfer threshold.
package roundup

import (
	"fmt"

	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Transaction is a card purchase in whole currency units (dollars with
// fractional cents).
type Transaction struct {
	Amount float64 `json:"amount" yaml:"amount"`
}

// AggregateRoundUps sums ceil(amount) - amount over all transactions. The
// arithmetic is exact, so 4.20, 9.99 and 15.00 yield exactly 0.81.
func AggregateRoundUps(transactions []Transaction) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, transaction := range transactions {
		amount, err := mathutil.ToDecimal(transaction.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transaction %d: %w", i, err)
		}
		total = total.Add(amount.Ceil().Sub(amount))
	}
	return total, nil
}

// PotStatus describes the surplus pot relative to its auto-transfer threshold.
type PotStatus struct {
	Balance        decimal.Decimal `json:"balance"`
	Threshold      decimal.Decimal `json:"threshold"`
	Percent        float64         `json:"percent"` // of threshold reached, capped at 100
	Remaining      decimal.Decimal `json:"remaining"`
	AutoTransfer   bool            `json:"autoTransfer"`   // pot has reached the threshold
	ManualTransfer bool            `json:"manualTransfer"` // pot is large enough to transfer by hand
}

// Progress reports how close the surplus balance is to threshold. A
// non-positive threshold falls back to the default.
func Progress(balance, threshold float64) (PotStatus, error) {
	if threshold <= 0 {
		threshold = constants.DefaultTransferThreshold
	}
	b, err := mathutil.ToDecimal(balance)
	if err != nil {
		return PotStatus{}, fmt.Errorf("surplus balance: %w", err)
	}
	th, err := mathutil.ToDecimal(threshold)
	if err != nil {
		return PotStatus{}, fmt.Errorf("transfer threshold: %w", err)
	}

	return PotStatus{
		Balance:        b,
		Threshold:      th,
		Percent:        min(mathutil.CalculatePercentage(balance, threshold), 100),
		Remaining:      decimal.Max(th.Sub(b), decimal.Zero),
		AutoTransfer:   b.GreaterThanOrEqual(th),
		ManualTransfer: balance >= constants.MinimumManualTransfer,
	}, nil
}
