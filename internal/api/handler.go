// Package api implements the HTTP surface of the backend.
//
// Routes:
//
//	GET  /health                       → liveness probe
//	GET  /api/properties               → filtered, annotated listings
//	POST /api/send-email               → inquiry confirmation / call summary
//	POST /api/calculate-affordability  → single-price affordability check
//	POST /api/realtime-token           → mint an ephemeral voice credential
//	POST /api/voice/tool-calls         → dispatch one assistant tool call
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gereonelvers/mortgage-moment/internal/email"
	"github.com/gereonelvers/mortgage-moment/internal/leads"
	"github.com/gereonelvers/mortgage-moment/internal/listings"
	"github.com/gereonelvers/mortgage-moment/internal/model"
	"github.com/gereonelvers/mortgage-moment/internal/mortgage"
	"github.com/gereonelvers/mortgage-moment/internal/scoring"
	"github.com/gereonelvers/mortgage-moment/internal/voice"
)

const (
	serviceName    = "mortgage-moment-backend"
	serviceVersion = "0.1.0"
)

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies for all routes.
type Handler struct {
	logger     *slog.Logger
	policy     mortgage.Policy
	searcher   *listings.Searcher
	scoring    *scoring.Client
	mailer     *email.Sender
	leads      *leads.Store
	tokens     *voice.TokenClient
	sessions   *voice.Manager
	dispatcher *voice.Dispatcher
}

// NewHandler wires a Handler and registers the voice tool handlers.
func NewHandler(
	logger *slog.Logger,
	policy mortgage.Policy,
	searcher *listings.Searcher,
	scoringClient *scoring.Client,
	mailer *email.Sender,
	leadStore *leads.Store,
	tokens *voice.TokenClient,
	sessions *voice.Manager,
) *Handler {
	h := &Handler{
		logger:   logger,
		policy:   policy,
		searcher: searcher,
		scoring:  scoringClient,
		mailer:   mailer,
		leads:    leadStore,
		tokens:   tokens,
		sessions: sessions,
	}

	d := voice.NewDispatcher(sessions, logger)
	d.Register(voice.ToolSendEmailSummary, h.toolSendEmailSummary)
	d.Register(voice.ToolUpdateProfileField, h.toolUpdateProfileField)
	d.Register(voice.ToolCheckAffordability, h.toolCheckAffordability)
	h.dispatcher = d

	return h
}

// ─── Response types ───────────────────────────────────────────────────────────

// budgetDetails explains where the ceiling price came from.
type budgetDetails struct {
	MaxAffordablePrice float64              `json:"maxAffordablePrice"`
	MaxMonthlyPayment  float64              `json:"maxMonthlyPayment"`
	MaxLoan            float64              `json:"maxLoan"`
	Source             string               `json:"source"`
	ScoringResult      *model.ScoringResult `json:"scoringResult,omitempty"`
	AdditionalCosts    *model.CostBreakdown `json:"additionalCosts,omitempty"`
}

// affordabilityOptions accompanies the listing page when the caller supplied
// an income signal. Coach is present only when nothing on the page is
// affordable.
type affordabilityOptions struct {
	BudgetDetails budgetDetails       `json:"budgetDetails"`
	Coach         *model.CoachingPlan `json:"coach,omitempty"`
}

type propertiesResponse struct {
	Total                int                              `json:"total"`
	Count                int                              `json:"count"`
	Offset               int                              `json:"offset"`
	Limit                int                              `json:"limit"`
	Source               listings.Source                  `json:"source"`
	Data                 []model.ListingWithAffordability `json:"data"`
	AffordabilityOptions *affordabilityOptions            `json:"affordabilityOptions"`
}

// ─── Health ──────────────────────────────────────────────────────────────────

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ─── Properties ──────────────────────────────────────────────────────────────

func (h *Handler) handleProperties(w http.ResponseWriter, r *http.Request) {
	q := listings.Query{
		Location: r.URL.Query().Get("location"),
		MinPrice: queryFloat(r, "minPrice"),
		MaxPrice: queryFloat(r, "maxPrice"),
		MinRooms: queryFloat(r, "rooms"),
		MinSize:  queryFloat(r, "size"),
		Offset:   queryInt(r, "offset", 0),
		Limit:    queryInt(r, "limit", 50),
	}

	page := h.searcher.Search(r.Context(), q)

	profile := model.BuyerProfile{
		MonthlyIncome: queryFloat(r, "income"),
		MonthlyDebts:  queryFloat(r, "debts"),
		Equity:        queryFloat(r, "equity"),
	}

	resp := propertiesResponse{
		Total:  page.Total,
		Offset: q.Offset,
		Limit:  q.Limit,
		Source: page.Source,
	}

	if profile.MonthlyIncome <= 0 {
		// No income signal, so no annotation pass.
		resp.Data = listings.WithoutAnnotation(page.Items)
		resp.Count = len(resp.Data)
		jsonOK(w, resp)
		return
	}

	ceiling, details := h.resolveCeiling(r.Context(), profile)
	resp.Data = listings.Annotate(page.Items, ceiling)
	resp.Count = len(resp.Data)

	opts := &affordabilityOptions{BudgetDetails: details}
	if listings.CountAffordable(resp.Data) == 0 {
		plan := h.policy.BuildPlan(page.Items, profile, ceiling)
		opts.Coach = &plan
	}
	resp.AffordabilityOptions = opts

	jsonOK(w, resp)
}

// resolveCeiling asks the scoring service for an authoritative ceiling and
// falls back to the formula engine when it has nothing to say.
func (h *Handler) resolveCeiling(ctx context.Context, profile model.BuyerProfile) (float64, budgetDetails) {
	if res := h.scoring.FetchMaxBuyingPower(ctx, profile.MonthlyIncome, profile.Equity, profile.MonthlyDebts); res != nil && res.ScoringResult.PriceBuilding > 0 {
		sr := res.ScoringResult
		return sr.PriceBuilding, budgetDetails{
			MaxAffordablePrice: sr.PriceBuilding,
			MaxMonthlyPayment:  sr.MonthlyPayment,
			MaxLoan:            sr.LoanAmount,
			Source:             "scoring",
			ScoringResult:      &sr,
			AdditionalCosts:    res.AdditionalCosts,
		}
	}

	budget := h.policy.ComputeAffordability(profile)
	return budget.MaxAffordablePrice, budgetDetails{
		MaxAffordablePrice: budget.MaxAffordablePrice,
		MaxMonthlyPayment:  budget.MaxMonthlyPayment,
		MaxLoan:            budget.MaxLoan,
		Source:             "formula",
	}
}

// ─── Send email ──────────────────────────────────────────────────────────────

type sendEmailRequest struct {
	UserName          string                     `json:"userName"`
	UserEmail         string                     `json:"userEmail"`
	PropertyTitle     string                     `json:"propertyTitle"`
	PropertyAddress   string                     `json:"propertyAddress"`
	PropertyPrice     json.RawMessage            `json:"propertyPrice"`
	PropertyImage     string                     `json:"propertyImage"`
	IsVoiceCall       bool                       `json:"isVoiceCall"`
	UserProfile       *model.BuyerProfile        `json:"userProfile"`
	AffordabilityData *model.AffordabilityResult `json:"affordabilityData"`
	CoachData         *model.CoachingPlan        `json:"coachData"`
}

func (h *Handler) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonMessage(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserEmail == "" {
		jsonMessage(w, "User email is required", http.StatusBadRequest)
		return
	}

	if err := h.sendInquiry(r.Context(), req); err != nil {
		h.logger.Error("send email failed", "to", req.UserEmail, "err", err)
		jsonMessage(w, "Failed to send email", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{
		"message": "Email sent",
		"data":    map[string]string{"to": req.UserEmail},
	})
}

// sendInquiry renders and delivers one inquiry mail and captures the lead.
// Shared by the HTTP route and the send_email_summary voice tool.
func (h *Handler) sendInquiry(ctx context.Context, req sendEmailRequest) error {
	priceText, priceValue := parsePrice(req.PropertyPrice)

	html, err := email.RenderInquiry(email.InquiryData{
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		PropertyTitle:   req.PropertyTitle,
		PropertyAddress: req.PropertyAddress,
		PropertyPrice:   priceText,
		PropertyImage:   req.PropertyImage,
		IsVoiceCall:     req.IsVoiceCall,
		Profile:         req.UserProfile,
		Affordability:   req.AffordabilityData,
		Coach:           req.CoachData,
	})
	if err != nil {
		return err
	}

	err = h.mailer.Send(ctx, email.Message{
		ToEmail: req.UserEmail,
		ToName:  req.UserName,
		Subject: email.Subject(email.InquiryData{IsVoiceCall: req.IsVoiceCall, PropertyTitle: req.PropertyTitle}),
		HTML:    html,
	})
	if err != nil {
		return err
	}

	source := leads.SourceEmail
	if req.IsVoiceCall {
		source = leads.SourceVoice
	}
	h.leads.Save(ctx, leads.Lead{
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		PropertyTitle: req.PropertyTitle,
		PropertyPrice: priceValue,
		Source:        source,
	})

	return nil
}

// parsePrice accepts the price either as a JSON number or as a pre-formatted
// string (the landing page sends "450.000"). Returns the display text and the
// numeric value for lead capture.
func parsePrice(raw json.RawMessage) (string, float64) {
	if len(raw) == 0 {
		return "", 0
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strconv.FormatFloat(num, 'f', -1, 64), num
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", 0
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	num, _ = strconv.ParseFloat(digits, 64)
	return text, num
}

// ─── Calculate affordability ─────────────────────────────────────────────────

type calculateRequest struct {
	Income        float64 `json:"income"`
	Equity        float64 `json:"equity"`
	MonthlyDebts  float64 `json:"monthlyDebts"`
	PropertyPrice float64 `json:"propertyPrice"`
}

func (h *Handler) handleCalculateAffordability(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile := model.BuyerProfile{
		MonthlyIncome: req.Income,
		MonthlyDebts:  req.MonthlyDebts,
		Equity:        req.Equity,
	}

	ceiling, details := h.resolveCeiling(r.Context(), profile)
	verdict := mortgage.CheckPrice(req.PropertyPrice, ceiling)

	message := "This property is within your budget."
	if !verdict.IsAffordable {
		message = fmt.Sprintf("This property is €%.0f above your budget.", verdict.Gap)
	}

	jsonOK(w, map[string]any{
		"isAffordable":       verdict.IsAffordable,
		"maxAffordablePrice": verdict.MaxAffordablePrice,
		"gap":                verdict.Gap,
		"budgetDetails":      details,
		"message":            message,
	})
}

// ─── Realtime token ──────────────────────────────────────────────────────────

type realtimeTokenRequest struct {
	UserName  string  `json:"userName"`
	UserEmail string  `json:"userEmail"`
	Income    float64 `json:"income"`
	Debts     float64 `json:"debts"`
	Equity    float64 `json:"equity"`
	Property  struct {
		Title   string  `json:"title"`
		Address string  `json:"address"`
		Price   float64 `json:"price"`
		Image   string  `json:"image"`
	} `json:"property"`
}

func (h *Handler) handleRealtimeToken(w http.ResponseWriter, r *http.Request) {
	// The body is optional: a session without property context still works,
	// the assistant just has less to talk about.
	var req realtimeTokenRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	secret, err := h.tokens.Mint(r.Context())
	if err != nil {
		h.logger.Error("realtime token mint failed", "err", err)
		jsonError(w, "failed to create realtime session", http.StatusInternalServerError)
		return
	}

	session := h.sessions.Create(
		model.BuyerProfile{
			MonthlyIncome: req.Income,
			MonthlyDebts:  req.Debts,
			Equity:        req.Equity,
			Name:          req.UserName,
			Email:         req.UserEmail,
		},
		voice.PropertyContext{
			Title:   req.Property.Title,
			Address: req.Property.Address,
			Price:   req.Property.Price,
			Image:   req.Property.Image,
		},
	)

	jsonOK(w, map[string]string{
		"secret":    secret,
		"sessionId": session.ID,
	})
}

// ─── Voice tool calls ────────────────────────────────────────────────────────

type toolCallRequest struct {
	SessionID string          `json:"sessionId"`
	CallID    string          `json:"callId"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (h *Handler) handleToolCall(w http.ResponseWriter, r *http.Request) {
	var req toolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	output, err := h.dispatcher.Dispatch(r.Context(), req.SessionID, req.Name, req.Arguments)
	switch {
	case errors.Is(err, voice.ErrSessionNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, voice.ErrUnknownTool):
		jsonError(w, "unknown tool: "+req.Name, http.StatusBadRequest)
		return
	case err != nil:
		jsonError(w, "tool call failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{
		"callId": req.CallID,
		"output": output,
	})
}

// ─── JSON helpers ────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// jsonMessage mirrors jsonError with the legacy "message" key kept for the
// send-email route, whose clients read that field.
func jsonMessage(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
