package shared

import (
	"testing"
	"time"
)

func TestServiceMetricsRates(t *testing.T) {
	metrics := NewServiceMetrics("test")

	if metrics.GetSnapshot().SuccessRate != 0 || metrics.GetFailureRate() != 0 {
		t.Error("empty metrics should report zero rates")
	}

	metrics.RecordRequest(true, 10*time.Millisecond)
	metrics.RecordRequest(true, 30*time.Millisecond)
	metrics.RecordRequest(true, 20*time.Millisecond)
	metrics.RecordRequest(false, 40*time.Millisecond)

	if got := metrics.GetSnapshot().SuccessRate; got != 75 {
		t.Errorf("success rate = %f, want 75", got)
	}
	if got := metrics.GetFailureRate(); got != 25 {
		t.Errorf("failure rate = %f, want 25", got)
	}

	snapshot := metrics.GetSnapshot()
	if snapshot.AverageProcessingTime != 25*time.Millisecond {
		t.Errorf("average = %v, want 25ms", snapshot.AverageProcessingTime)
	}
	if snapshot.Performance.MinProcessingTime != 10*time.Millisecond || snapshot.Performance.MaxProcessingTime != 40*time.Millisecond {
		t.Errorf("unexpected min/max %+v", snapshot.Performance)
	}
	if snapshot.Performance.Samples != 4 {
		t.Errorf("samples = %d, want 4", snapshot.Performance.Samples)
	}
}

func TestCustomCountersAreCopiedInSnapshots(t *testing.T) {
	metrics := NewServiceMetrics("test")
	metrics.IncrementCustomCounter("lookups_phone")
	metrics.IncrementCustomCounter("lookups_phone")

	snapshot := metrics.GetSnapshot()
	snapshot.CustomCounters["lookups_phone"] = 99

	if got := metrics.GetCustomCounter("lookups_phone"); got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}

	metrics.Reset()
	if metrics.GetCustomCounter("lookups_phone") != 0 || metrics.GetSnapshot().TotalRequests != 0 {
		t.Error("Reset should clear counters and totals")
	}
}

func TestPerformanceWindowIsBounded(t *testing.T) {
	performance := NewPerformanceMetrics()
	for i := 1; i <= maxPerformanceSamples+50; i++ {
		performance.RecordProcessingTime(time.Duration(i) * time.Millisecond)
	}

	snapshot := performance.GetPerformanceSnapshot()
	if snapshot.Samples != maxPerformanceSamples {
		t.Errorf("samples = %d, want %d", snapshot.Samples, maxPerformanceSamples)
	}
	if snapshot.P95ProcessingTime < snapshot.MinProcessingTime || snapshot.P99ProcessingTime < snapshot.P95ProcessingTime {
		t.Errorf("percentiles out of order %+v", snapshot)
	}
}
