package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/sirupsen/logrus"
)

// GuardedLookupService wraps a Lookuper with a per-call timeout, a circuit
// breaker and metrics. The simulator never fails, but a real backend can.
type GuardedLookupService struct {
	backend Lookuper
	timeout time.Duration
	breaker *shared.ErrorIsolationHandler
	metrics *shared.ServiceMetrics
	logger  *logrus.Entry
}

// NewGuardedLookupService creates a guarded lookup. A negative maxFailureRate
// disables the circuit breaker.
func NewGuardedLookupService(backend Lookuper, timeout time.Duration, maxFailureRate float64) *GuardedLookupService {
	breaker := shared.NewErrorIsolationHandler("lookup_backend", maxFailureRate)
	if maxFailureRate < 0 {
		breaker = shared.NewErrorIsolationHandlerWithoutCircuitBreaker("lookup_backend")
	}
	return &GuardedLookupService{
		backend: backend,
		timeout: timeout,
		breaker: breaker,
		metrics: shared.NewServiceMetrics("Lookup_Service"),
		logger:  logrus.WithField("component", "GuardedLookupService"),
	}
}

// Lookup implements Lookuper
func (g *GuardedLookupService) Lookup(ctx context.Context, query string, category models.SearchCategory) (models.LookupResult, error) {
	startTime := time.Now()
	var result models.LookupResult

	err := g.breaker.ExecuteWithCircuitBreaker("lookup_"+category.String(), func() error {
		lookupCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		r, err := g.backend.Lookup(lookupCtx, query, category)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	elapsed := time.Since(startTime)
	g.metrics.RecordRequest(err == nil, elapsed)

	if err != nil {
		g.metrics.IncrementCustomCounter("failures_" + category.String())
		if errors.Is(err, context.DeadlineExceeded) {
			err = shared.NewServiceError(
				shared.ErrorCategoryTimeout,
				shared.ErrCodeLookupTimeout,
				fmt.Sprintf("%s lookup did not complete within %v", category, g.timeout),
				"GuardedLookupService",
				"Lookup",
				true,
				err,
			)
		}
		g.logger.WithFields(logrus.Fields{
			"category": category,
			"elapsed":  elapsed,
		}).WithError(err).Warn("Lookup failed")
		return models.LookupResult{}, err
	}

	g.metrics.IncrementCustomCounter("lookups_" + category.String())
	return result, nil
}

// Metrics exposes the lookup metrics tracker
func (g *GuardedLookupService) Metrics() *shared.ServiceMetrics {
	return g.metrics
}

// Breaker exposes the circuit breaker state
func (g *GuardedLookupService) Breaker() *shared.ErrorIsolationHandler {
	return g.breaker
}
