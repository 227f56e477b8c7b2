package services

import (
	"math"
	"testing"

	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskTier
	}{
		{0, models.RiskTierLow},
		{30, models.RiskTierLow},
		{31, models.RiskTierMedium},
		{60, models.RiskTierMedium},
		{61, models.RiskTierHigh},
		{100, models.RiskTierHigh},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every score in [0,100] maps to exactly one known tier", prop.ForAll(
		func(score int) bool {
			tier := Classify(score)
			return tier == models.RiskTierLow || tier == models.RiskTierMedium || tier == models.RiskTierHigh
		},
		gen.IntRange(0, 100),
	))

	properties.Property("classification is monotonic non-decreasing in severity", prop.ForAll(
		func(a, b int) bool {
			if a > b {
				a, b = b, a
			}
			return Classify(a).Severity() <= Classify(b).Severity()
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("gauge fraction equals score/100 independent of tier", prop.ForAll(
		func(score int) bool {
			gauge := NewRiskGauge(score)
			return gauge.Fraction == float64(score)/100 &&
				math.Abs(gauge.DashOffset-(gauge.Circumference*(1-gauge.Fraction))) < 1e-9
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestTierPresentation(t *testing.T) {
	tests := []struct {
		tier  models.RiskTier
		color string
		label string
	}{
		{models.RiskTierLow, "green-400", "Low Risk"},
		{models.RiskTierMedium, "yellow-400", "Medium Risk"},
		{models.RiskTierHigh, "red-400", "High Risk"},
	}

	for _, tt := range tests {
		if got := TierColor(tt.tier); got != tt.color {
			t.Errorf("TierColor(%s) = %s, want %s", tt.tier, got, tt.color)
		}
		if got := TierLabel(tt.tier); got != tt.label {
			t.Errorf("TierLabel(%s) = %s, want %s", tt.tier, got, tt.label)
		}
	}
}

func TestRiskGaugeGeometry(t *testing.T) {
	gauge := NewRiskGauge(0)
	if gauge.DashOffset != gauge.Circumference {
		t.Errorf("empty gauge offset = %f, want full circumference %f", gauge.DashOffset, gauge.Circumference)
	}

	gauge = NewRiskGauge(100)
	if math.Abs(gauge.DashOffset) > 1e-9 {
		t.Errorf("full gauge offset = %f, want 0", gauge.DashOffset)
	}
	if math.Abs(gauge.Circumference-2*math.Pi*45) > 1e-9 {
		t.Errorf("circumference = %f", gauge.Circumference)
	}

	gauge = NewRiskGauge(150)
	if gauge.Score != 100 || gauge.Tier != models.RiskTierHigh {
		t.Errorf("out-of-range score not clamped: %+v", gauge)
	}
}
