package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

const (
	moneyScale = 2
	rateScale  = 4
)

type Amounts struct {
	CommissionRate decimal.Decimal
	CashbackRate   decimal.Decimal
	CashbackAmount decimal.Decimal
}

// ComputeAmounts derives the commission rate from the network's figures and the
// cashback from the store's current rate. Callers pass the money amounts already
// rounded to cents so the rate agrees with what is stored. A zero sale yields a
// zero commission rate. The rate is unbounded: a flat bounty on a small order
// can exceed 100%.
func ComputeAmounts(saleAmount, commissionAmount, storeCashbackRate decimal.Decimal) Amounts {
	commissionRate := decimal.Zero
	if !saleAmount.IsZero() {
		commissionRate = commissionAmount.Div(saleAmount).Mul(hundred).Round(rateScale)
	}
	return Amounts{
		CommissionRate: commissionRate,
		CashbackRate:   storeCashbackRate.Round(rateScale),
		CashbackAmount: RoundMoney(saleAmount.Mul(storeCashbackRate).Div(hundred)),
	}
}

func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(moneyScale)
}

// ValidCashbackRate reports whether rate is a percentage in [0, 100].
func ValidCashbackRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}
