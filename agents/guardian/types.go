package guardian

// RiskLevel grades how sensitive a piece of content is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Report is the outcome of an IP safety scan. Blocked is true exactly
// when the risk level is HIGH.
type Report struct {
	RiskLevel   RiskLevel `json:"risk_level"`
	Concerns    []string  `json:"concerns"`
	Blocked     bool      `json:"blocked"`
	Suggestions []string  `json:"suggestions"`
}

// detectedItems is the structured detection payload the model may
// return alongside the risk assessment.
type detectedItems struct {
	PINames      []string `json:"pi_names"`
	ReagentNames []string `json:"reagent_names"`
	Institutions []string `json:"institutions"`
	Sequences    []string `json:"sequences"`
}
