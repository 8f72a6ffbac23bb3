package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// InquiryData feeds the inquiry-confirmation and call-summary templates.
type InquiryData struct {
	UserName        string
	UserEmail       string
	PropertyTitle   string
	PropertyAddress string
	PropertyPrice   string
	PropertyImage   string
	IsVoiceCall     bool
	Profile         *model.BuyerProfile
	Affordability   *model.AffordabilityResult
	Coach           *model.CoachingPlan
	Year            int
}

var inquiryTmpl = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{if .IsVoiceCall}}Call Summary{{else}}Inquiry Confirmation{{end}}</title>
    <style>
        body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f4f4f4; }
        .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; }
        .header { background-color: #2c3e50; color: #ffffff; padding: 20px; text-align: center; }
        .content { padding: 30px; }
        .property-card { background-color: #f9f9f9; border: 1px solid #e0e0e0; border-radius: 6px; padding: 20px; margin-top: 20px; }
        .property-image { width: 100%; height: 200px; object-fit: cover; border-radius: 4px; margin-bottom: 15px; background-color: #eee; }
        .price { color: #27ae60; font-size: 20px; font-weight: bold; margin: 10px 0; }
        .section { border-top: 1px solid #e0e0e0; margin-top: 20px; padding-top: 15px; }
        .footer { background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 12px; color: #777; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Mortgage Moment</h1>
        </div>
        <div class="content">
            <p>Hello{{if .UserName}} {{.UserName}}{{end}},</p>
            {{if .IsVoiceCall -}}
            <p>Here is the summary of your call with Momo, your mortgage assistant:</p>
            {{- else -}}
            <p>Thank you for your interest! We have received your inquiry regarding the following property:</p>
            {{- end}}

            <div class="property-card">
                {{if .PropertyImage}}<img src="{{.PropertyImage}}" alt="{{.PropertyTitle}}" class="property-image" />{{end}}
                <h2 style="margin-top: 0;">{{.PropertyTitle}}</h2>
                <p style="margin-bottom: 5px;">{{.PropertyAddress}}</p>
                {{if .PropertyPrice}}<div class="price">&euro;{{.PropertyPrice}}</div>{{end}}
            </div>

            {{if .Affordability}}
            <div class="section">
                <h3>Your Affordability Check</h3>
                {{if .Affordability.IsAffordable -}}
                <p>Good news: this property is within your budget of &euro;{{printf "%.0f" .Affordability.MaxAffordablePrice}}.</p>
                {{- else -}}
                <p>This property is &euro;{{printf "%.0f" .Affordability.Gap}} above your budget of &euro;{{printf "%.0f" .Affordability.MaxAffordablePrice}}.</p>
                {{- end}}
            </div>
            {{end}}

            {{if .Coach}}
            <div class="section">
                <h3>Your Personal Plan</h3>
                <p>To afford a home here you would need a net monthly income of around <strong>&euro;{{printf "%.0f" .Coach.IncomeGapPlan.RequiredIncome}}</strong>.</p>
                <p>Alternatively, saving <strong>&euro;{{printf "%.0f" .Coach.SavingsPlan.MonthlySavingsRequired}}/month</strong> over {{.Coach.SavingsPlan.Years}} years builds toward a &euro;{{printf "%.0f" .Coach.SavingsPlan.TargetDownPayment}} down payment.</p>
                {{if .Coach.AlternativeLocations}}
                <p>Cities within your budget right now:
                {{- range $i, $loc := .Coach.AlternativeLocations}}{{if $i}},{{end}} {{$loc.Name}} (avg. &euro;{{printf "%.0f" $loc.AvgPrice}}){{end}}.</p>
                {{end}}
            </div>
            {{end}}

            <p>One of our mortgage experts will review your request and get back to you shortly at <strong>{{.UserEmail}}</strong>.</p>

            <p>Best regards,<br>The Mortgage Moment Team</p>
        </div>
        <div class="footer">
            <p>&copy; {{.Year}} Mortgage Moment. All rights reserved.</p>
            <p>This is an automated message. Please do not reply directly to this email.</p>
        </div>
    </div>
</body>
</html>
`))

// RenderInquiry renders the HTML body for an inquiry confirmation or, when
// IsVoiceCall is set, a call summary.
func RenderInquiry(data InquiryData) (string, error) {
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}
	var buf bytes.Buffer
	if err := inquiryTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render inquiry template: %w", err)
	}
	return buf.String(), nil
}

// Subject returns the mail subject for the given inquiry.
func Subject(data InquiryData) string {
	if data.IsVoiceCall {
		return fmt.Sprintf("Your call summary: %s", data.PropertyTitle)
	}
	return fmt.Sprintf("Inquiry Confirmation: %s", data.PropertyTitle)
}
