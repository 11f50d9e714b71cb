package submission

// Goals is the client's refinance goal selection.
type Goals struct {
	LowerPayment bool
	PayOffDebt   bool
	AccessEquity bool
	ShortenTerm  bool
	Other        bool
	OtherText    string
}

const (
	GoalLabelLowerPayment = "Lower monthly payment"
	GoalLabelPayOffDebt   = "Pay off high-interest debt"
	GoalLabelAccessEquity = "Access equity for investment"
	GoalLabelShortenTerm  = "Shorten loan term"
	GoalLabelOther        = "Other"
)

// Labels returns the display labels of the selected goals in fixed order.
// "Other" is listed only when its free text is filled in.
func (g Goals) Labels() []string {
	labels := make([]string, 0, 5)
	if g.LowerPayment {
		labels = append(labels, GoalLabelLowerPayment)
	}
	if g.PayOffDebt {
		labels = append(labels, GoalLabelPayOffDebt)
	}
	if g.AccessEquity {
		labels = append(labels, GoalLabelAccessEquity)
	}
	if g.ShortenTerm {
		labels = append(labels, GoalLabelShortenTerm)
	}
	if g.Other && g.OtherText != "" {
		labels = append(labels, GoalLabelOther)
	}
	return labels
}
