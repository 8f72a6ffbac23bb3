package mortgage

import (
	"math"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// Coaching constants. The savings plan targets a fixed down payment over a
// fixed horizon; the alternative-location list is curated, not computed.
const (
	defaultCheapestPrice = 400000 // assumed entry price when the result set is empty
	targetDownPayment    = 150000
	savingsHorizonYears  = 18
	savingsAnnualReturn  = 0.07
	savingsMonthlyCap    = 500  // contributions above this are considered infeasible
	appreciationRate     = 0.03 // assumed yearly price growth for the reality check
)

// alternativeLocations is the curated list of lower-cost cities offered when
// nothing in the result set is affordable.
var alternativeLocations = []model.AlternativeLocation{
	{Name: "Leipzig", Lat: 51.3397, Lon: 12.3731, AvgPrice: 280000, Description: "Fast-growing cultural hub with strong rental demand"},
	{Name: "Dortmund", Lat: 51.5136, Lon: 7.4653, AvgPrice: 250000, Description: "Ruhr region city reinventing itself around tech"},
	{Name: "Hannover", Lat: 52.3759, Lon: 9.7320, AvgPrice: 320000, Description: "Trade-fair city with steady, moderate prices"},
	{Name: "Magdeburg", Lat: 52.1205, Lon: 11.6276, AvgPrice: 180000, Description: "State capital with plenty of room to grow"},
	{Name: "Chemnitz", Lat: 50.8278, Lon: 12.9214, AvgPrice: 150000, Description: "Lowest entry prices in a rebounding market"},
}

// BuildPlan computes the coaching guidance for a buyer who cannot afford any
// listing in the current result set. Callers invoke it only when the
// affordable count is exactly zero.
func (p Policy) BuildPlan(listings []model.Listing, profile model.BuyerProfile, ceiling float64) model.CoachingPlan {
	cheapest := float64(defaultCheapestPrice)
	if len(listings) > 0 {
		cheapest = listings[0].BuyingPrice
		for _, l := range listings[1:] {
			if l.BuyingPrice < cheapest {
				cheapest = l.BuyingPrice
			}
		}
	}

	// Reverse of ComputeAffordability: the income that would finance the
	// cheapest listing at the blended fallback rate.
	targetLoan := math.Max(0, cheapest*(1+p.PurchasingCostFactor)-sanitize(profile.Equity))
	targetPayment := targetLoan * fallbackAnnualRate / 12
	requiredIncome := math.Ceil(targetPayment/p.IncomeCapFraction + sanitize(profile.MonthlyDebts))
	incomeGap := math.Max(0, requiredIncome-sanitize(profile.MonthlyIncome))

	return model.CoachingPlan{
		CheapestPrice: cheapest,
		RealityCheck: model.RealityCheck{
			Gap:               math.Max(0, cheapest-sanitize(ceiling)),
			FuturePrice5Years: math.Round(cheapest * math.Pow(1+appreciationRate, 5)),
		},
		IncomeGapPlan: model.IncomeGapPlan{
			RequiredIncome: requiredIncome,
			IncomeGap:      incomeGap,
		},
		SavingsPlan:          buildSavingsPlan(targetDownPayment, savingsHorizonYears, savingsAnnualReturn, savingsMonthlyCap),
		AlternativeLocations: affordableLocations(ceiling),
	}
}

// buildSavingsPlan inverts the annuity future-value formula to find the
// monthly contribution reaching target over the horizon:
//
//	P = target * r / ((1+r)^n - 1)
//
// When P exceeds cap, the contribution is capped and the plan reports the
// future value the capped contribution actually reaches.
func buildSavingsPlan(target float64, years int, annualReturn, cap float64) model.SavingsPlan {
	monthlyRate := annualReturn / 12
	months := float64(years * 12)
	growth := math.Pow(1+monthlyRate, months) - 1

	required := target * monthlyRate / growth
	if required > cap {
		return model.SavingsPlan{
			Years:                  years,
			MonthlySavingsRequired: cap,
			ProjectedValue:         math.Round(cap * growth / monthlyRate),
			TargetDownPayment:      target,
		}
	}
	return model.SavingsPlan{
		Years:                  years,
		MonthlySavingsRequired: math.Round(required),
		ProjectedValue:         target,
		TargetDownPayment:      target,
	}
}

// affordableLocations filters the curated list down to entries at or below
// the buyer's ceiling. Without a usable ceiling the whole list is offered.
func affordableLocations(ceiling float64) []model.AlternativeLocation {
	if ceiling <= 0 {
		return alternativeLocations
	}
	out := make([]model.AlternativeLocation, 0, len(alternativeLocations))
	for _, loc := range alternativeLocations {
		if loc.AvgPrice <= ceiling {
			out = append(out, loc)
		}
	}
	if len(out) == 0 {
		return alternativeLocations
	}
	return out
}
