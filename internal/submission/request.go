package submission

import "strings"

const DefaultDocumentMimeType = "application/pdf"

// CreateRequest is the JSON body of the submission create call. Pointer fields
// must be present in the payload; "required" on them only checks presence.
type CreateRequest struct {
	AccountantName  string `json:"accountantName" binding:"required,notblank,max=255"`
	AccountantEmail string `json:"accountantEmail" binding:"required,email,max=320"`
	AccountantPhone string `json:"accountantPhone" binding:"required,notblank,max=50"`

	ClientEmail  string `json:"clientEmail" binding:"required,email,max=320"`
	ClientPhone  string `json:"clientPhone" binding:"required,notblank,max=50"`
	PropertyType string `json:"propertyType" binding:"required,oneof=primary investment"`

	CurrentPayment   string `json:"currentPayment" binding:"max=50"`
	CurrentRate      string `json:"currentRate" binding:"max=50"`
	RemainingBalance string `json:"remainingBalance" binding:"max=50"`
	YearsRemaining   string `json:"yearsRemaining" binding:"max=50"`
	HasHelocOrLiens  string `json:"hasHelocOrLiens" binding:"required,oneof=yes no"`

	CreditCardPayments string  `json:"creditCardPayments" binding:"max=50"`
	AutoLoans          string  `json:"autoLoans" binding:"max=50"`
	PersonalLoans      string  `json:"personalLoans" binding:"max=50"`
	StudentLoans       string  `json:"studentLoans" binding:"max=50"`
	OtherDebts         string  `json:"otherDebts" binding:"max=50"`
	TotalMonthlyDebt   *string `json:"totalMonthlyDebt" binding:"required,max=50"`

	GoalLowerPayment *bool  `json:"goalLowerPayment" binding:"required"`
	GoalPayOffDebt   *bool  `json:"goalPayOffDebt" binding:"required"`
	GoalAccessEquity *bool  `json:"goalAccessEquity" binding:"required"`
	GoalShortenTerm  *bool  `json:"goalShortenTerm" binding:"required"`
	GoalOther        *bool  `json:"goalOther" binding:"required"`
	GoalOtherText    string `json:"goalOtherText" binding:"max=2000"`

	// base64, optionally as a data URL
	MortgageStatementData     string `json:"mortgageStatementData"`
	MortgageStatementFilename string `json:"mortgageStatementFilename" binding:"max=255"`
	MortgageStatementMimeType string `json:"mortgageStatementMimeType" binding:"max=100"`
}

// HasDocument reports whether both the file body and its name were sent.
func (r *CreateRequest) HasDocument() bool {
	return r.MortgageStatementData != "" && r.MortgageStatementFilename != ""
}

// DocumentMimeType is the declared type, or application/pdf when none was sent.
func (r *CreateRequest) DocumentMimeType() string {
	if mt := strings.TrimSpace(r.MortgageStatementMimeType); mt != "" {
		return mt
	}
	return DefaultDocumentMimeType
}

// Goals returns the goal selection; absent flags read as false.
func (r *CreateRequest) Goals() Goals {
	return Goals{
		LowerPayment: deref(r.GoalLowerPayment),
		PayOffDebt:   deref(r.GoalPayOffDebt),
		AccessEquity: deref(r.GoalAccessEquity),
		ShortenTerm:  deref(r.GoalShortenTerm),
		Other:        deref(r.GoalOther),
		OtherText:    r.GoalOtherText,
	}
}

// ClientTotal is the total monthly debt as computed by the form.
func (r *CreateRequest) ClientTotal() string {
	if r.TotalMonthlyDebt == nil {
		return ""
	}
	return *r.TotalMonthlyDebt
}

// DebtComponents lists the five debt categories in form order.
func (r *CreateRequest) DebtComponents() []string {
	return []string{r.CreditCardPayments, r.AutoLoans, r.PersonalLoans, r.StudentLoans, r.OtherDebts}
}

// ToSubmission builds the record to insert. Server-assigned fields are left zero.
func (r *CreateRequest) ToSubmission() *Submission {
	g := r.Goals()
	sub := &Submission{
		AccountantName:     strings.TrimSpace(r.AccountantName),
		AccountantEmail:    strings.TrimSpace(r.AccountantEmail),
		AccountantPhone:    strings.TrimSpace(r.AccountantPhone),
		ClientEmail:        strings.TrimSpace(r.ClientEmail),
		ClientPhone:        strings.TrimSpace(r.ClientPhone),
		PropertyType:       r.PropertyType,
		CurrentPayment:     r.CurrentPayment,
		CurrentRate:        r.CurrentRate,
		RemainingBalance:   r.RemainingBalance,
		YearsRemaining:     r.YearsRemaining,
		HasHelocOrLiens:    r.HasHelocOrLiens,
		CreditCardPayments: r.CreditCardPayments,
		AutoLoans:          r.AutoLoans,
		PersonalLoans:      r.PersonalLoans,
		StudentLoans:       r.StudentLoans,
		OtherDebts:         r.OtherDebts,
		TotalMonthlyDebt:   r.ClientTotal(),
		GoalLowerPayment:   g.LowerPayment,
		GoalPayOffDebt:     g.PayOffDebt,
		GoalAccessEquity:   g.AccessEquity,
		GoalShortenTerm:    g.ShortenTerm,
		GoalOther:          g.Other,
		GoalOtherText:      g.OtherText,
	}
	if r.HasDocument() {
		sub.MortgageStatementFilename = r.MortgageStatementFilename
	}
	return sub
}

func deref(b *bool) bool { return b != nil && *b }
