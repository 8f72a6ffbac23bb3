package email

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderInquiry_Confirmation(t *testing.T) {
	html, err := RenderInquiry(InquiryData{
		UserName:        "Ana",
		UserEmail:       "ana@example.com",
		PropertyTitle:   "Altbau am Park",
		PropertyAddress: "Parkstraße 3, 80339 München",
		PropertyPrice:   "480,000",
		Year:            2026,
	})
	if err != nil {
		t.Fatalf("RenderInquiry: %v", err)
	}

	for _, want := range []string{"Altbau am Park", "ana@example.com", "480,000", "2026", "received your inquiry"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
	if strings.Contains(html, "call with Momo") {
		t.Error("confirmation body should not contain the call-summary intro")
	}
}

func TestRenderInquiry_VoiceSummaryWithCoach(t *testing.T) {
	html, err := RenderInquiry(InquiryData{
		UserEmail:     "ben@example.com",
		PropertyTitle: "Dachgeschoss mit Blick",
		IsVoiceCall:   true,
		Affordability: &model.AffordabilityResult{IsAffordable: false, MaxAffordablePrice: 350000, Gap: 94545},
		Coach: &model.CoachingPlan{
			IncomeGapPlan: model.IncomeGapPlan{RequiredIncome: 5108},
			SavingsPlan:   model.SavingsPlan{Years: 18, MonthlySavingsRequired: 348, TargetDownPayment: 150000},
			AlternativeLocations: []model.AlternativeLocation{
				{Name: "Leipzig", AvgPrice: 280000},
			},
		},
	})
	if err != nil {
		t.Fatalf("RenderInquiry: %v", err)
	}

	for _, want := range []string{"call with Momo", "94545", "5108", "Leipzig"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestRenderInquiry_EscapesUserInput(t *testing.T) {
	html, err := RenderInquiry(InquiryData{
		UserEmail:     "x@example.com",
		PropertyTitle: `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("RenderInquiry: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("user input must be HTML-escaped")
	}
}

func TestSubject(t *testing.T) {
	if got := Subject(InquiryData{PropertyTitle: "Flat"}); got != "Inquiry Confirmation: Flat" {
		t.Errorf("Subject = %q", got)
	}
	if got := Subject(InquiryData{PropertyTitle: "Flat", IsVoiceCall: true}); got != "Your call summary: Flat" {
		t.Errorf("voice Subject = %q", got)
	}
}

func TestSender_Send(t *testing.T) {
	var got sendRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "key-123", "Mortgage Moment", "info@mortgagemoment.com", testLogger())
	err := s.Send(context.Background(), Message{
		ToEmail: "ana@example.com",
		Subject: "Inquiry Confirmation: Flat",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if apiKey != "key-123" {
		t.Errorf("api-key header = %q", apiKey)
	}
	if got.Sender.Email != "info@mortgagemoment.com" || got.To[0].Email != "ana@example.com" {
		t.Errorf("unexpected payload: %+v", got)
	}
	if got.To[0].Name != "User" {
		t.Errorf("recipient name should default to User, got %q", got.To[0].Name)
	}
}

func TestSender_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "key", "", "", testLogger())
	if err := s.Send(context.Background(), Message{ToEmail: "a@b.c"}); err == nil {
		t.Error("expected an error on a non-2xx response")
	}

	unconfigured := NewSender(srv.URL, "", "", "", testLogger())
	if err := unconfigured.Send(context.Background(), Message{ToEmail: "a@b.c"}); err != ErrNotConfigured {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
