package handlers

import (
	"github.com/dustin/go-humanize"
	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	Metrics  *shared.ServiceMetrics
	Breaker  *shared.ErrorIsolationHandler
	Sessions interface{ Count() int }
}

func NewStatsHandler(metrics *shared.ServiceMetrics, breaker *shared.ErrorIsolationHandler, sessions interface{ Count() int }) *StatsHandler {
	return &StatsHandler{Metrics: metrics, Breaker: breaker, Sessions: sessions}
}

// GetStats returns lookup counts per category and overall lookup health
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	type categoryStat struct {
		Type     models.SearchCategory `json:"type"`
		Label    string                `json:"label"`
		Count    int64                 `json:"count"`
		Display  string                `json:"display"`
		Failures int64                 `json:"failures"`
	}

	snapshot := h.Metrics.GetSnapshot()
	stats := make([]categoryStat, 0, len(models.AllCategories()))
	for _, info := range models.AllCategoryInfos() {
		count := snapshot.CustomCounters["lookups_"+info.Value.String()]
		stats = append(stats, categoryStat{
			Type:     info.Value,
			Label:    info.Label,
			Count:    count,
			Display:  humanize.Comma(count),
			Failures: snapshot.CustomCounters["failures_"+info.Value.String()],
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"categories":      stats,
			"total_lookups":   snapshot.TotalRequests,
			"success_rate":    snapshot.SuccessRate,
			"average_latency": snapshot.AverageProcessingTime.String(),
			"p95_latency":     snapshot.Performance.P95ProcessingTime.String(),
			"active_sessions": h.Sessions.Count(),
			"breaker": fiber.Map{
				"open":         h.Breaker.IsCircuitBreakerOpen(),
				"failure_rate": h.Breaker.GetFailureRate(),
			},
		},
	})
}

// ResetStats clears lookup counters and latency samples
func (h *StatsHandler) ResetStats(c *fiber.Ctx) error {
	h.Metrics.Reset()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lookup statistics reset",
	})
}
