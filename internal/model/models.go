// Package model defines the data structures shared across the backend.
package model

// Address locates a listing.
type Address struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Street   string  `json:"street"`
	Postcode string  `json:"postcode"`
	City     string  `json:"city"`
}

// Image wraps a single listing photo URL.
type Image struct {
	OriginalURL string `json:"originalUrl"`
}

// Listing is the canonical property shape served to clients, regardless of
// which upstream source produced it. Read-only after normalization.
type Listing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Address     Address `json:"address"`
	BuyingPrice float64 `json:"buyingPrice"`
	PricePerSqm float64 `json:"pricePerSqm"`
	Rooms       float64 `json:"rooms"`
	SquareMeter float64 `json:"squareMeter"`
	Images      []Image `json:"images"`
	Floor       int     `json:"floor"`
}

// CompactRecord mirrors one entry of the pre-processed local dataset
// (properties.min.json). Keys are abbreviated to keep the file small; the
// file is produced by cmd/preprocess from a raw aggregator dump.
type CompactRecord struct {
	ID   string   `json:"id"`
	T    string   `json:"t"`    // title
	Lat  float64  `json:"lat"`  // latitude
	Lng  float64  `json:"lng"`  // longitude
	L    string   `json:"l"`    // street line
	PC   string   `json:"pc"`   // postcode
	C    string   `json:"c"`    // city
	P    float64  `json:"p"`    // buying price
	S    float64  `json:"s"`    // living area in sqm
	R    float64  `json:"r"`    // rooms
	Imgs []string `json:"imgs"` // image URLs
}

// BuyerProfile carries the financial inputs of one prospective buyer.
// It is immutable per calculation call; during a voice session single fields
// are amended one at a time through the update_profile_field tool.
type BuyerProfile struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	MonthlyDebts     float64 `json:"monthlyDebts"`
	Equity           float64 `json:"equity"`
	InterestRatePct  float64 `json:"interestRatePct"`
	RepaymentRatePct float64 `json:"repaymentRatePct"`
	Name             string  `json:"name,omitempty"`
	Email            string  `json:"email,omitempty"`
}

// AffordabilityResult is the verdict for one target price against a ceiling.
// Invariant: Gap = max(0, price - MaxAffordablePrice) and
// IsAffordable ⇔ Gap == 0.
type AffordabilityResult struct {
	IsAffordable       bool    `json:"isAffordable"`
	MaxAffordablePrice float64 `json:"maxAffordablePrice"`
	Gap                float64 `json:"gap"`
}

// ListingWithAffordability is a Listing plus its affordability verdict.
// Affordability is nil when the caller supplied no income signal; the JSON
// field is then absent.
type ListingWithAffordability struct {
	Listing
	Affordability *AffordabilityResult `json:"affordability,omitempty"`
}

// ScoringResult mirrors the authoritative part of the external buying-power
// scoring response.
type ScoringResult struct {
	PriceBuilding     float64 `json:"priceBuilding"`
	LoanAmount        float64 `json:"loanAmount"`
	EquityCash        float64 `json:"equityCash"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	EffectiveInterest float64 `json:"effectiveInterest"`
}

// CostParts breaks purchasing overhead down by notary, transfer tax and
// broker fee.
type CostParts struct {
	Notary float64 `json:"notary"`
	Tax    float64 `json:"tax"`
	Broker float64 `json:"broker"`
}

// CostBreakdown is the purchasing-cost section of the scoring response,
// as percentages and absolute values.
type CostBreakdown struct {
	AdditionalCostsPercentage CostParts `json:"additionalCostsPercentage"`
	AdditionalCostsValue      CostParts `json:"additionalCostsValue"`
}

// RealityCheck summarises how far the buyer is from the cheapest listing in
// the current result set.
type RealityCheck struct {
	Gap               float64 `json:"gap"`
	FuturePrice5Years float64 `json:"futurePrice5Years"`
}

// IncomeGapPlan tells the buyer what net monthly income would unlock the
// cheapest listing.
type IncomeGapPlan struct {
	RequiredIncome float64 `json:"requiredIncome"`
	IncomeGap      float64 `json:"incomeGap"`
}

// SavingsPlan is a long-horizon monthly savings schedule toward a fixed
// target down payment.
type SavingsPlan struct {
	Years                  int     `json:"years"`
	MonthlySavingsRequired float64 `json:"monthlySavingsRequired"`
	ProjectedValue         float64 `json:"projectedValue"`
	TargetDownPayment      float64 `json:"targetDownPayment"`
}

// AlternativeLocation is a lower-cost city suggested when nothing in the
// current result set is affordable.
type AlternativeLocation struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	AvgPrice    float64 `json:"avgPrice"`
	Description string  `json:"description"`
}

// CoachingPlan is the supplementary guidance computed when zero listings in
// the current result set are affordable.
type CoachingPlan struct {
	CheapestPrice        float64               `json:"cheapestPrice"`
	RealityCheck         RealityCheck          `json:"realityCheck"`
	IncomeGapPlan        IncomeGapPlan         `json:"incomeGapPlan"`
	SavingsPlan          SavingsPlan           `json:"savingsPlan"`
	AlternativeLocations []AlternativeLocation `json:"alternativeLocations"`
}
