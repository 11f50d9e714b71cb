package email

import (
	"strings"
	"testing"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() Data {
	return Data{
		AccountantName:     "Jane CPA",
		AccountantEmail:    "jane@cpa.com",
		AccountantPhone:    "555-0100",
		ClientEmail:        "client@x.com",
		ClientPhone:        "555-0200",
		PropertyType:       "primary",
		CurrentPayment:     "2500",
		CurrentRate:        "6.5",
		HasHelocOrLiens:    "no",
		CreditCardPayments: "300",
		AutoLoans:          "250",
		StudentLoans:       "300",
		TotalMonthlyDebt:   "850.00",
		Goals:              []string{"Lower monthly payment", "Pay off high-interest debt"},
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"1234.5":    "$1,234.50",
		"0":         "$0.00",
		"1000000":   "$1,000,000.00",
		"$1,234.50": "$1,234.50",
		"":          "Not provided",
		"   ":       "Not provided",
		"abc":       "abc",
		"-5":        "$-5.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(in), "input %q", in)
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "New Financial Health Check-Up Submission - client@x.com", Subject("client@x.com"))
}

func TestFormat_Sections(t *testing.T) {
	now := time.Date(2026, 1, 15, 20, 30, 0, 0, time.UTC)
	html, err := Format(sampleData(), now)
	require.NoError(t, err)

	assert.Contains(t, html, "Tax Accountant Information")
	assert.Contains(t, html, "Jane CPA")
	assert.Contains(t, html, "Primary Residence")
	assert.Contains(t, html, "$2,500.00")
	assert.Contains(t, html, "6.5%")
	assert.Contains(t, html, "$850.00")
	assert.Contains(t, html, "<li>Lower monthly payment</li>")
	assert.Contains(t, html, "<li>Pay off high-interest debt</li>")
	assert.Contains(t, html, "color: #059669;\">No</td>")
	assert.NotContains(t, html, "No goals selected")
	assert.NotContains(t, html, "Download Mortgage Statement")
	assert.Contains(t, html, "Submitted on January 15, 2026 at 3:30 PM EST")

	// remaining balance and personal loans were left blank
	assert.GreaterOrEqual(t, strings.Count(html, "Not provided"), 3)
}

func TestFormat_NoGoalsAndDocument(t *testing.T) {
	d := sampleData()
	d.Goals = nil
	d.OtherGoalText = "Fund college"
	d.PropertyType = "investment"
	d.HasHelocOrLiens = "yes"
	d.MortgageStatementURL = "https://cdn.example.com/healthcheck/submissions/1-abc123.pdf"

	html, err := Format(d, time.Now())
	require.NoError(t, err)
	assert.Contains(t, html, "No goals selected")
	assert.Contains(t, html, "<strong>Other:</strong> Fund college")
	assert.Contains(t, html, "Investment Property")
	assert.Contains(t, html, "color: #d97706;\">Yes</td>")
	assert.Contains(t, html, "Download Mortgage Statement")
	assert.Contains(t, html, `href="https://cdn.example.com/healthcheck/submissions/1-abc123.pdf"`)
	assert.Contains(t, html, "<strong>Filename:</strong> mortgage_statement")
}

func TestFormat_EscapesInput(t *testing.T) {
	d := sampleData()
	d.AccountantName = `<script>alert("x")</script>`
	html, err := Format(d, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestFormat_Deterministic(t *testing.T) {
	now := time.Date(2026, 7, 4, 16, 0, 0, 0, time.UTC)
	a, err := Format(sampleData(), now)
	require.NoError(t, err)
	b, err := Format(sampleData(), now)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	// summer time is still labelled EST
	assert.Contains(t, a, "Submitted on July 4, 2026 at 12:00 PM EST")
}

func TestDataFromSubmission(t *testing.T) {
	s := &submission.Submission{
		ClientEmail:      "client@x.com",
		GoalShortenTerm:  true,
		GoalOther:        true,
		GoalOtherText:    "Renovate",
		TotalMonthlyDebt: "10.00",
	}
	d := DataFromSubmission(s)
	assert.Equal(t, []string{"Shorten loan term", "Other"}, d.Goals)
	assert.Equal(t, "Renovate", d.OtherGoalText)
	assert.Equal(t, "10.00", d.TotalMonthlyDebt)
}
