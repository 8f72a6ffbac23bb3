package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gereonelvers/mortgage-moment/internal/model"
	"github.com/gereonelvers/mortgage-moment/internal/mortgage"
	"github.com/gereonelvers/mortgage-moment/internal/voice"
)

// Voice tool handlers. Each one runs against a session snapshot taken by the
// dispatcher and returns the object serialized back to the realtime
// transport.

// toolSendEmailSummary mails a call summary to the session's buyer. Args may
// override the recipient address.
func (h *Handler) toolSendEmailSummary(ctx context.Context, s *voice.Session, args json.RawMessage) (any, error) {
	var payload struct {
		Email string `json:"email"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &payload); err != nil {
			return nil, fmt.Errorf("parse send_email_summary args: %w", err)
		}
	}

	to := s.Profile.Email
	if payload.Email != "" {
		to = payload.Email
	}
	if to == "" {
		return nil, fmt.Errorf("no email address on session %s", s.ID)
	}

	ceiling, _ := h.resolveCeiling(ctx, s.Profile)
	verdict := mortgage.CheckPrice(s.Property.Price, ceiling)

	var coach *model.CoachingPlan
	if !verdict.IsAffordable {
		var current []model.Listing
		if s.Property.Price > 0 {
			current = []model.Listing{{BuyingPrice: s.Property.Price}}
		}
		plan := h.policy.BuildPlan(current, s.Profile, ceiling)
		coach = &plan
	}

	profile := s.Profile
	err := h.sendInquiry(ctx, sendEmailRequest{
		UserName:          s.Profile.Name,
		UserEmail:         to,
		PropertyTitle:     s.Property.Title,
		PropertyAddress:   s.Property.Address,
		PropertyPrice:     json.RawMessage(strconv.FormatFloat(s.Property.Price, 'f', -1, 64)),
		PropertyImage:     s.Property.Image,
		IsVoiceCall:       true,
		UserProfile:       &profile,
		AffordabilityData: &verdict,
		CoachData:         coach,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "sentTo": to}, nil
}

// toolUpdateProfileField amends one field of the session's buyer profile.
func (h *Handler) toolUpdateProfileField(_ context.Context, s *voice.Session, args json.RawMessage) (any, error) {
	var payload struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(args, &payload); err != nil {
		return nil, fmt.Errorf("parse update_profile_field args: %w", err)
	}

	apply, err := profileFieldSetter(payload.Field, payload.Value)
	if err != nil {
		return nil, err
	}

	if !h.sessions.Update(s.ID, apply) {
		return nil, fmt.Errorf("session %s vanished during update", s.ID)
	}

	updated, _ := h.sessions.Get(s.ID)
	budget := h.policy.ComputeAffordability(updated.Profile)
	return map[string]any{
		"field":              payload.Field,
		"profile":            updated.Profile,
		"maxAffordablePrice": budget.MaxAffordablePrice,
	}, nil
}

// profileFieldSetter maps a tool field name onto a profile mutation.
func profileFieldSetter(field string, value json.RawMessage) (func(*model.BuyerProfile), error) {
	asNumber := func() (float64, error) {
		var n float64
		if err := json.Unmarshal(value, &n); err == nil {
			return n, nil
		}
		// The assistant sometimes quotes numbers.
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n, nil
			}
		}
		return 0, fmt.Errorf("field %q needs a numeric value, got %s", field, value)
	}

	switch field {
	case "income", "monthlyIncome":
		n, err := asNumber()
		if err != nil {
			return nil, err
		}
		return func(p *model.BuyerProfile) { p.MonthlyIncome = n }, nil
	case "debts", "monthlyDebts":
		n, err := asNumber()
		if err != nil {
			return nil, err
		}
		return func(p *model.BuyerProfile) { p.MonthlyDebts = n }, nil
	case "equity":
		n, err := asNumber()
		if err != nil {
			return nil, err
		}
		return func(p *model.BuyerProfile) { p.Equity = n }, nil
	case "interestRate", "interestRatePct":
		n, err := asNumber()
		if err != nil {
			return nil, err
		}
		return func(p *model.BuyerProfile) { p.InterestRatePct = n }, nil
	case "repaymentRate", "repaymentRatePct":
		n, err := asNumber()
		if err != nil {
			return nil, err
		}
		return func(p *model.BuyerProfile) { p.RepaymentRatePct = n }, nil
	case "name":
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("field %q needs a string value", field)
		}
		return func(p *model.BuyerProfile) { p.Name = s }, nil
	case "email":
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("field %q needs a string value", field)
		}
		return func(p *model.BuyerProfile) { p.Email = s }, nil
	default:
		return nil, fmt.Errorf("unknown profile field %q", field)
	}
}

// toolCheckAffordability evaluates a price against the session's current
// profile. Without an explicit price it checks the property under discussion.
func (h *Handler) toolCheckAffordability(ctx context.Context, s *voice.Session, args json.RawMessage) (any, error) {
	var payload struct {
		Price float64 `json:"price"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &payload); err != nil {
			return nil, fmt.Errorf("parse check_affordability args: %w", err)
		}
	}

	price := payload.Price
	if price <= 0 {
		price = s.Property.Price
	}

	ceiling, details := h.resolveCeiling(ctx, s.Profile)
	verdict := mortgage.CheckPrice(price, ceiling)

	return map[string]any{
		"price":              price,
		"isAffordable":       verdict.IsAffordable,
		"maxAffordablePrice": verdict.MaxAffordablePrice,
		"gap":                verdict.Gap,
		"budgetSource":       details.Source,
	}, nil
}
