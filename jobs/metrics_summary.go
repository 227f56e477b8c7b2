package jobs

import (
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/sirupsen/logrus"
)

type MetricsSummaryJob struct {
	Metrics *shared.ServiceMetrics
	// WarnFailureRate is the failure percentage above which the summary warns.
	// Negative disables the warning.
	WarnFailureRate float64
}

func NewMetricsSummaryJob(metrics *shared.ServiceMetrics, warnFailureRate float64) *MetricsSummaryJob {
	return &MetricsSummaryJob{Metrics: metrics, WarnFailureRate: warnFailureRate}
}

func (j *MetricsSummaryJob) Run() {
	if j.Metrics.GetSnapshot().TotalRequests == 0 {
		logrus.Debug("No lookups since startup, skipping metrics summary")
		return
	}
	j.Metrics.LogSummary()

	if failureRate := j.Metrics.GetFailureRate(); j.WarnFailureRate >= 0 && failureRate > j.WarnFailureRate {
		logrus.WithFields(logrus.Fields{
			"failure_rate":      failureRate,
			"warn_failure_rate": j.WarnFailureRate,
		}).Warn("Lookup failure rate above threshold")
	}
}
