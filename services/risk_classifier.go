package services

import (
	"math"

	"github.com/fenilmodi00/shadowtrace-backend/models"
)

// Tier thresholds, inclusive upper bounds
const (
	lowRiskMax    = 30
	mediumRiskMax = 60
)

// Gauge geometry used by the dashboard SVG (viewBox 0 0 100 100)
const gaugeRadius = 45.0

// Classify maps a risk score to its tier. Scores outside [0,100] are clamped.
func Classify(score int) models.RiskTier {
	score = clampScore(score)
	switch {
	case score <= lowRiskMax:
		return models.RiskTierLow
	case score <= mediumRiskMax:
		return models.RiskTierMedium
	default:
		return models.RiskTierHigh
	}
}

// TierColor returns the colour token used to render a tier
func TierColor(tier models.RiskTier) string {
	switch tier {
	case models.RiskTierLow:
		return "green-400"
	case models.RiskTierMedium:
		return "yellow-400"
	default:
		return "red-400"
	}
}

// TierLabel returns the human label for a tier, e.g. "Low Risk"
func TierLabel(tier models.RiskTier) string {
	return string(tier) + " Risk"
}

// GaugeFraction is the filled share of the gauge arc
func GaugeFraction(score int) float64 {
	return float64(clampScore(score)) / 100.0
}

// NewRiskGauge computes everything needed to draw the gauge for a score
func NewRiskGauge(score int) models.RiskGauge {
	score = clampScore(score)
	tier := Classify(score)
	fraction := GaugeFraction(score)
	circumference := 2 * math.Pi * gaugeRadius

	return models.RiskGauge{
		Score:         score,
		Tier:          tier,
		Label:         TierLabel(tier),
		Color:         TierColor(tier),
		Fraction:      fraction,
		Radius:        gaugeRadius,
		Circumference: circumference,
		DashOffset:    circumference - fraction*circumference,
	}
}

func clampScore(score int) int {
	if score < models.MinRiskScore {
		return models.MinRiskScore
	}
	if score > models.MaxRiskScore {
		return models.MaxRiskScore
	}
	return score
}
