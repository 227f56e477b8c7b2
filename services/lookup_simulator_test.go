package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestSimulator(latency time.Duration) *LookupSimulator {
	return NewLookupSimulatorWithSource(latency, rand.NewPCG(1, 2), time.Now)
}

func TestLookupScoreWithinCategoryRange(t *testing.T) {
	simulator := newTestSimulator(0)
	properties := gopter.NewProperties(nil)

	properties.Property("risk score lies within the documented range for the category", prop.ForAll(
		func(query string, index int) bool {
			category := models.AllCategories()[index]
			result, err := simulator.Lookup(context.Background(), query, category)
			if err != nil {
				t.Logf("lookup failed: %v", err)
				return false
			}
			minScore, maxScore, _ := ScoreRange(category)
			return result.RiskScore >= minScore && result.RiskScore <= maxScore &&
				result.Category == category && result.Input == query
		},
		gen.AnyString(),
		gen.IntRange(0, len(models.AllCategories())-1),
	))

	properties.TestingRun(t)
}

func TestScoreRanges(t *testing.T) {
	expected := map[models.SearchCategory][2]int{
		models.CategoryPhone:    {10, 49},
		models.CategoryEmail:    {5, 34},
		models.CategoryIP:       {20, 69},
		models.CategoryUsername: {10, 69},
		models.CategoryDomain:   {5, 39},
	}

	for category, want := range expected {
		minScore, maxScore, ok := ScoreRange(category)
		if !ok || minScore != want[0] || maxScore != want[1] {
			t.Errorf("ScoreRange(%s) = [%d,%d] ok=%v, want [%d,%d]", category, minScore, maxScore, ok, want[0], want[1])
		}
	}
}

func TestLookupPhoneTemplate(t *testing.T) {
	result, err := newTestSimulator(0).Lookup(context.Background(), "+1 555 123 4567", models.CategoryPhone)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if *result.Location != "California, United States" || *result.Region != "California" {
		t.Errorf("unexpected location: %s / %s", *result.Location, *result.Region)
	}
	if *result.Carrier != "Verizon Wireless" {
		t.Errorf("carrier = %s", *result.Carrier)
	}
	if *result.Latitude != 36.7783 || *result.Longitude != -119.4179 {
		t.Errorf("coordinates = %f,%f", *result.Latitude, *result.Longitude)
	}
	if len(result.Timezones) != 1 || result.Timezones[0] != "America/Los_Angeles" {
		t.Errorf("timezones = %v", result.Timezones)
	}
	if !*result.IsValid || !*result.IsPossible {
		t.Error("phone result should be valid and possible")
	}
}

func TestLookupTemplatesOmitUnsimulatedFields(t *testing.T) {
	simulator := newTestSimulator(0)

	email, _ := simulator.Lookup(context.Background(), "a@b.c", models.CategoryEmail)
	if email.HasCoordinates() || email.Carrier != nil || email.Region != nil || email.IsPossible != nil || email.Timezones != nil {
		t.Errorf("email result carries unexpected fields: %+v", email)
	}

	domain, _ := simulator.Lookup(context.Background(), "example.com", models.CategoryDomain)
	if *domain.Location != "Registered: GoDaddy" || *domain.Carrier != "Cloudflare (DNS)" || domain.HasCoordinates() {
		t.Errorf("unexpected domain result: %+v", domain)
	}

	ip, _ := simulator.Lookup(context.Background(), "1.1.1.1", models.CategoryIP)
	if *ip.Location != "San Francisco, CA" || *ip.Carrier != "Cloudflare Inc." || !ip.HasCoordinates() || ip.IsPossible != nil {
		t.Errorf("unexpected ip result: %+v", ip)
	}

	username, _ := simulator.Lookup(context.Background(), "@ghost", models.CategoryUsername)
	if *username.Location != "Found on 12 platforms" || username.Carrier != nil {
		t.Errorf("unexpected username result: %+v", username)
	}
}

func TestLookupWaitsForLatency(t *testing.T) {
	latency := 30 * time.Millisecond
	start := time.Now()
	if _, err := newTestSimulator(latency).Lookup(context.Background(), "q", models.CategoryEmail); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if elapsed := time.Since(start); elapsed < latency {
		t.Errorf("lookup returned after %v, want at least %v", elapsed, latency)
	}
}

func TestLookupHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSimulator(time.Hour).Lookup(ctx, "q", models.CategoryEmail)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLookupStampsCurrentInstant(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	simulator := NewLookupSimulatorWithSource(0, rand.NewPCG(3, 4), func() time.Time { return fixed })

	result, err := simulator.Lookup(context.Background(), "q", models.CategoryUsername)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !result.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want %v", result.Timestamp, fixed)
	}
}

func TestLookupUnknownCategory(t *testing.T) {
	_, err := newTestSimulator(0).Lookup(context.Background(), "q", models.SearchCategory("fax"))
	if !shared.HasErrorCode(err, shared.ErrCodeUnknownCategory) {
		t.Fatalf("expected UNKNOWN_CATEGORY, got %v", err)
	}
}
