package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/sirupsen/logrus"
)

// DefaultSimulatedLatency is the fixed delay before a mock result is produced
const DefaultSimulatedLatency = 2 * time.Second

// Lookuper produces a result for a query. A real OSINT backend replaces the
// simulator behind this interface and must resolve or fail every call.
type Lookuper interface {
	Lookup(ctx context.Context, query string, category models.SearchCategory) (models.LookupResult, error)
}

// categoryTemplate is the mock data for one category. Risk scores are drawn
// uniformly from [minScore, maxScore].
type categoryTemplate struct {
	minScore int
	maxScore int
	fields   func() models.LookupFields
}

var categoryTemplates = map[models.SearchCategory]categoryTemplate{
	models.CategoryPhone:    {minScore: 10, maxScore: 49, fields: phoneFields},
	models.CategoryEmail:    {minScore: 5, maxScore: 34, fields: emailFields},
	models.CategoryIP:       {minScore: 20, maxScore: 69, fields: ipFields},
	models.CategoryUsername: {minScore: 10, maxScore: 69, fields: usernameFields},
	models.CategoryDomain:   {minScore: 5, maxScore: 39, fields: domainFields},
}

func phoneFields() models.LookupFields {
	return models.LookupFields{
		Location:   models.StringPtr("California, United States"),
		Region:     models.StringPtr("California"),
		Latitude:   models.FloatPtr(36.7783),
		Longitude:  models.FloatPtr(-119.4179),
		Carrier:    models.StringPtr("Verizon Wireless"),
		Timezones:  []string{"America/Los_Angeles"},
		IsValid:    models.BoolPtr(true),
		IsPossible: models.BoolPtr(true),
	}
}

func emailFields() models.LookupFields {
	return models.LookupFields{
		Location: models.StringPtr("Gmail - Google Inc."),
		IsValid:  models.BoolPtr(true),
	}
}

func ipFields() models.LookupFields {
	return models.LookupFields{
		Location:  models.StringPtr("San Francisco, CA"),
		Region:    models.StringPtr("California"),
		Latitude:  models.FloatPtr(37.7749),
		Longitude: models.FloatPtr(-122.4194),
		Carrier:   models.StringPtr("Cloudflare Inc."),
		Timezones: []string{"America/Los_Angeles"},
		IsValid:   models.BoolPtr(true),
	}
}

func usernameFields() models.LookupFields {
	return models.LookupFields{
		Location: models.StringPtr("Found on 12 platforms"),
		IsValid:  models.BoolPtr(true),
	}
}

func domainFields() models.LookupFields {
	return models.LookupFields{
		Location: models.StringPtr("Registered: GoDaddy"),
		Carrier:  models.StringPtr("Cloudflare (DNS)"),
		IsValid:  models.BoolPtr(true),
	}
}

// ScoreRange returns the inclusive risk score range generated for a category
func ScoreRange(category models.SearchCategory) (int, int, bool) {
	template, ok := categoryTemplates[category]
	if !ok {
		return 0, 0, false
	}
	return template.minScore, template.maxScore, true
}

// LookupSimulator fabricates category-specific results after a fixed delay.
// It performs no network I/O.
type LookupSimulator struct {
	latency time.Duration
	rng     *rand.Rand
	rngMu   sync.Mutex
	now     func() time.Time
	logger  *logrus.Entry
}

// NewLookupSimulator creates a simulator with a time-seeded random source
func NewLookupSimulator(latency time.Duration) *LookupSimulator {
	seed := uint64(time.Now().UnixNano())
	return NewLookupSimulatorWithSource(latency, rand.NewPCG(seed, seed>>1|1), time.Now)
}

// NewLookupSimulatorWithSource creates a simulator with an explicit random source and clock
func NewLookupSimulatorWithSource(latency time.Duration, source rand.Source, now func() time.Time) *LookupSimulator {
	if latency < 0 {
		latency = 0
	}
	if now == nil {
		now = time.Now
	}
	return &LookupSimulator{
		latency: latency,
		rng:     rand.New(source),
		now:     now,
		logger:  logrus.WithField("component", "LookupSimulator"),
	}
}

// Latency returns the simulated delay
func (s *LookupSimulator) Latency() time.Duration {
	return s.latency
}

// Lookup waits for the simulated latency and returns the category template
// stamped with the verbatim query and the current instant.
func (s *LookupSimulator) Lookup(ctx context.Context, query string, category models.SearchCategory) (models.LookupResult, error) {
	template, ok := categoryTemplates[category]
	if !ok {
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryValidation,
			shared.ErrCodeUnknownCategory,
			fmt.Sprintf("no lookup template for category %q", category),
			"LookupSimulator",
			"Lookup",
			false,
			nil,
		)
	}

	if err := s.wait(ctx); err != nil {
		return models.LookupResult{}, err
	}

	score := s.randomScore(template.minScore, template.maxScore)
	result, err := models.NewLookupResult(query, category, template.fields(), score, s.now())
	if err != nil {
		return models.LookupResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"category":   category,
		"risk_score": score,
		"latency":    s.latency,
	}).Debug("Simulated lookup completed")

	return result, nil
}

// wait is the single suspension point of a lookup
func (s *LookupSimulator) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *LookupSimulator) randomScore(minScore, maxScore int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return minScore + s.rng.IntN(maxScore-minScore+1)
}
