package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notProvided = "Not provided"

// Data is everything the loan officer summary shows.
type Data struct {
	AccountantName  string
	AccountantEmail string
	AccountantPhone string

	ClientEmail  string
	ClientPhone  string
	PropertyType string

	CurrentPayment   string
	CurrentRate      string
	RemainingBalance string
	YearsRemaining   string
	HasHelocOrLiens  string

	CreditCardPayments string
	AutoLoans          string
	PersonalLoans      string
	StudentLoans       string
	OtherDebts         string
	TotalMonthlyDebt   string

	Goals         []string
	OtherGoalText string

	MortgageStatementURL      string
	MortgageStatementFilename string
}

// DataFromSubmission copies the display fields of a stored submission.
func DataFromSubmission(s *submission.Submission) Data {
	return Data{
		AccountantName:            s.AccountantName,
		AccountantEmail:           s.AccountantEmail,
		AccountantPhone:           s.AccountantPhone,
		ClientEmail:               s.ClientEmail,
		ClientPhone:               s.ClientPhone,
		PropertyType:              s.PropertyType,
		CurrentPayment:            s.CurrentPayment,
		CurrentRate:               s.CurrentRate,
		RemainingBalance:          s.RemainingBalance,
		YearsRemaining:            s.YearsRemaining,
		HasHelocOrLiens:           s.HasHelocOrLiens,
		CreditCardPayments:        s.CreditCardPayments,
		AutoLoans:                 s.AutoLoans,
		PersonalLoans:             s.PersonalLoans,
		StudentLoans:              s.StudentLoans,
		OtherDebts:                s.OtherDebts,
		TotalMonthlyDebt:          s.TotalMonthlyDebt,
		Goals:                     s.Goals().Labels(),
		OtherGoalText:             s.GoalOtherText,
		MortgageStatementURL:      s.MortgageStatementURL,
		MortgageStatementFilename: s.MortgageStatementFilename,
	}
}

type view struct {
	Data
	SubmittedAt string
}

var (
	//go:embed templates/submission.html
	submissionHTML string

	submissionTmpl = template.Must(
		template.New("submission").
			Funcs(template.FuncMap{
				"currency":      FormatCurrency,
				"orDefault":     orDefault,
				"propertyLabel": propertyLabel,
			}).
			Parse(submissionHTML),
	)

	eastern = mustLoadLocation("America/New_York")
	printer = message.NewPrinter(language.AmericanEnglish)
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Subject is the subject line of the loan officer email.
func Subject(clientEmail string) string {
	return "New Financial Health Check-Up Submission - " + clientEmail
}

// Format renders the loan officer summary. now is shown in the footer in US
// Eastern time; identical data and now give identical output.
func Format(d Data, now time.Time) (string, error) {
	var buf bytes.Buffer
	v := view{Data: d, SubmittedAt: now.In(eastern).Format("January 2, 2006 at 3:04 PM")}
	if err := submissionTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render submission email: %w", err)
	}
	return buf.String(), nil
}

// FormatCurrency renders "1234.5" as "$1,234.50". Empty input gives
// "Not provided" and non-numeric input is returned unchanged.
func FormatCurrency(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	f, ok := submission.ParseAmount(s)
	if !ok {
		return s
	}
	return "$" + printer.Sprintf("%.2f", f)
}

func orDefault(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func propertyLabel(t string) string {
	if t == submission.PropertyPrimary {
		return "Primary Residence"
	}
	return "Investment Property"
}
