package models

// RiskTier is the display classification of a risk score. It is never stored.
type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

// Severity orders tiers from least to most severe
func (t RiskTier) Severity() int {
	switch t {
	case RiskTierLow:
		return 1
	case RiskTierMedium:
		return 2
	case RiskTierHigh:
		return 3
	default:
		return 0
	}
}

// RiskGauge carries the arc parameters the dashboard draws for a score
type RiskGauge struct {
	Score         int      `json:"score"`
	Tier          RiskTier `json:"tier"`
	Label         string   `json:"label"`
	Color         string   `json:"color"`
	Fraction      float64  `json:"fraction"`
	Radius        float64  `json:"radius"`
	Circumference float64  `json:"circumference"`
	DashOffset    float64  `json:"dash_offset"`
}
