package attachment

// Severity classifies how well the two sources agree at one height bucket.
type Severity string

const (
	// SeverityGreen means the averaged cross-source delta is within 0.5 ft.
	SeverityGreen Severity = "green"
	// SeverityAmber means the delta is above 0.5 ft and at most 1.0 ft.
	SeverityAmber Severity = "amber"
	// SeverityRed means the delta exceeds 1.0 ft.
	SeverityRed Severity = "red"
	// SeverityGrey means there is no two-sided data to compare.
	SeverityGrey Severity = "grey"
)

// String returns the string representation of a severity.
func (s Severity) String() string {
	return string(s)
}

// Rank orders severities from best to worst agreement; grey ranks lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityGreen:
		return 1
	case SeverityAmber:
		return 2
	case SeverityRed:
		return 3
	default:
		return 0
	}
}
