// Package mortgage implements the affordability formula engine and the
// coaching advisor. Both are pure: no I/O, no external dependencies, and no
// errors — invalid numeric inputs are coerced to zero.
package mortgage

import (
	"math"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// Policy fixes the formula variant applied across the process. The product
// shipped several inconsistent variants over time (35% vs 40% income cap,
// equity added directly vs net of purchasing costs); making the knobs
// explicit keeps every call site on a single documented choice.
type Policy struct {
	// IncomeCapFraction is the share of free monthly income (income minus
	// debts) available for the mortgage payment.
	IncomeCapFraction float64

	// PurchasingCostFactor is the notary + transfer tax + broker overhead
	// paid on top of the purchase price.
	PurchasingCostFactor float64

	// DividePurchasingCosts selects the ceiling formula:
	// true  → (loan + equity) / (1 + PurchasingCostFactor)
	// false → loan + equity
	DividePurchasingCosts bool
}

// DefaultPolicy is the canonical variant: 35% income cap, 10% purchasing
// costs, ceiling net of purchasing costs.
var DefaultPolicy = Policy{
	IncomeCapFraction:     0.35,
	PurchasingCostFactor:  0.10,
	DividePurchasingCosts: true,
}

// fallbackAnnualRate is the blended interest+repayment rate applied when the
// profile does not carry both rates.
const fallbackAnnualRate = 0.055

// Budget is the output of the formula engine.
type Budget struct {
	MaxMonthlyPayment  float64 `json:"maxMonthlyPayment"`
	MaxLoan            float64 `json:"maxLoan"`
	MaxAffordablePrice float64 `json:"maxAffordablePrice"`
}

// ComputeAffordability converts a buyer profile into a maximum affordable
// purchase price.
//
//	payment = max(0, income - debts) * IncomeCapFraction
//	loan    = payment * 12 / annualRate
//	price   = (loan + equity) / (1 + costFactor)   [or loan + equity]
//
// annualRate is (interest + repayment) / 100 when both rates are supplied,
// else the blended 5.5% fallback. The function never fails: negative, NaN or
// infinite inputs are treated as zero.
func (p Policy) ComputeAffordability(profile model.BuyerProfile) Budget {
	income := sanitize(profile.MonthlyIncome)
	debts := sanitize(profile.MonthlyDebts)
	equity := sanitize(profile.Equity)

	payment := math.Max(0, income-debts) * p.IncomeCapFraction

	annualRate := fallbackAnnualRate
	if profile.InterestRatePct > 0 && profile.RepaymentRatePct > 0 {
		annualRate = (sanitize(profile.InterestRatePct) + sanitize(profile.RepaymentRatePct)) / 100
	}

	loan := payment * 12 / annualRate

	price := loan + equity
	if p.DividePurchasingCosts {
		price = (loan + equity) / (1 + p.PurchasingCostFactor)
	}

	return Budget{
		MaxMonthlyPayment:  payment,
		MaxLoan:            loan,
		MaxAffordablePrice: price,
	}
}

// CheckPrice evaluates one target price against a ceiling price.
func CheckPrice(price, ceiling float64) model.AffordabilityResult {
	gap := math.Max(0, sanitize(price)-sanitize(ceiling))
	return model.AffordabilityResult{
		IsAffordable:       gap == 0,
		MaxAffordablePrice: sanitize(ceiling),
		Gap:                gap,
	}
}

// sanitize coerces invalid numeric inputs to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
