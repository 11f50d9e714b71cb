package submission

import "time"

const (
	PropertyPrimary    = "primary"
	PropertyInvestment = "investment"
)

// Submission is one Financial Health Check-Up entry as persisted. Financial
// figures are kept as the display strings the form sent.
type Submission struct {
	ID int64 `json:"id" bson:"_id" gorm:"primaryKey;autoIncrement"`

	AccountantName  string `json:"accountantName" bson:"accountantName" gorm:"size:255;not null"`
	AccountantEmail string `json:"accountantEmail" bson:"accountantEmail" gorm:"size:320;not null"`
	AccountantPhone string `json:"accountantPhone" bson:"accountantPhone" gorm:"size:50;not null"`

	ClientEmail  string `json:"clientEmail" bson:"clientEmail" gorm:"size:320;not null;index"`
	ClientPhone  string `json:"clientPhone" bson:"clientPhone" gorm:"size:50;not null"`
	PropertyType string `json:"propertyType" bson:"propertyType" gorm:"size:50;not null"`

	CurrentPayment   string `json:"currentPayment,omitempty" bson:"currentPayment,omitempty" gorm:"size:50"`
	CurrentRate      string `json:"currentRate,omitempty" bson:"currentRate,omitempty" gorm:"size:50"`
	RemainingBalance string `json:"remainingBalance,omitempty" bson:"remainingBalance,omitempty" gorm:"size:50"`
	YearsRemaining   string `json:"yearsRemaining,omitempty" bson:"yearsRemaining,omitempty" gorm:"size:50"`
	HasHelocOrLiens  string `json:"hasHelocOrLiens" bson:"hasHelocOrLiens" gorm:"size:10;not null"`

	CreditCardPayments string `json:"creditCardPayments,omitempty" bson:"creditCardPayments,omitempty" gorm:"size:50"`
	AutoLoans          string `json:"autoLoans,omitempty" bson:"autoLoans,omitempty" gorm:"size:50"`
	PersonalLoans      string `json:"personalLoans,omitempty" bson:"personalLoans,omitempty" gorm:"size:50"`
	StudentLoans       string `json:"studentLoans,omitempty" bson:"studentLoans,omitempty" gorm:"size:50"`
	OtherDebts         string `json:"otherDebts,omitempty" bson:"otherDebts,omitempty" gorm:"size:50"`
	TotalMonthlyDebt   string `json:"totalMonthlyDebt" bson:"totalMonthlyDebt" gorm:"size:50"`

	GoalLowerPayment bool   `json:"goalLowerPayment" bson:"goalLowerPayment" gorm:"default:false"`
	GoalPayOffDebt   bool   `json:"goalPayOffDebt" bson:"goalPayOffDebt" gorm:"default:false"`
	GoalAccessEquity bool   `json:"goalAccessEquity" bson:"goalAccessEquity" gorm:"default:false"`
	GoalShortenTerm  bool   `json:"goalShortenTerm" bson:"goalShortenTerm" gorm:"default:false"`
	GoalOther        bool   `json:"goalOther" bson:"goalOther" gorm:"default:false"`
	GoalOtherText    string `json:"goalOtherText,omitempty" bson:"goalOtherText,omitempty" gorm:"type:text"`

	MortgageStatementURL      string `json:"mortgageStatementUrl,omitempty" bson:"mortgageStatementUrl,omitempty" gorm:"type:text"`
	MortgageStatementFilename string `json:"mortgageStatementFilename,omitempty" bson:"mortgageStatementFilename,omitempty" gorm:"size:255"`
	MortgageStatementKey      string `json:"-" bson:"mortgageStatementKey,omitempty" gorm:"size:255;index"`

	EmailSent   bool       `json:"emailSent" bson:"emailSent" gorm:"default:false"`
	EmailSentAt *time.Time `json:"emailSentAt,omitempty" bson:"emailSentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (Submission) TableName() string { return "submissions" }

// Goals returns the goal selection stored on the record.
func (s *Submission) Goals() Goals {
	return Goals{
		LowerPayment: s.GoalLowerPayment,
		PayOffDebt:   s.GoalPayOffDebt,
		AccessEquity: s.GoalAccessEquity,
		ShortenTerm:  s.GoalShortenTerm,
		Other:        s.GoalOther,
		OtherText:    s.GoalOtherText,
	}
}

// Result is returned to the form after a successful create.
type Result struct {
	Success      bool  `json:"success"`
	SubmissionID int64 `json:"submissionId"`
	EmailSent    bool  `json:"emailSent"`
}
