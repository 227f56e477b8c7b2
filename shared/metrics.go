package shared

import (
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// maxPerformanceSamples bounds the window used for percentile calculation
const maxPerformanceSamples = 1000

// ServiceMetrics tracks performance and success metrics for services
type ServiceMetrics struct {
	ServiceName           string
	TotalRequests         int64
	SuccessfulRequests    int64
	FailedRequests        int64
	TotalProcessingTime   time.Duration
	AverageProcessingTime time.Duration
	LastUpdated           time.Time
	CustomCounters        map[string]int64
	PerformanceMetrics    *PerformanceMetrics
	mutex                 sync.RWMutex
}

// MetricsSnapshot is an immutable copy of ServiceMetrics
type MetricsSnapshot struct {
	ServiceName           string              `json:"service_name"`
	TotalRequests         int64               `json:"total_requests"`
	SuccessfulRequests    int64               `json:"successful_requests"`
	FailedRequests        int64               `json:"failed_requests"`
	SuccessRate           float64             `json:"success_rate"`
	FailureRate           float64             `json:"failure_rate"`
	TotalProcessingTime   time.Duration       `json:"total_processing_time"`
	AverageProcessingTime time.Duration       `json:"average_processing_time"`
	LastUpdated           time.Time           `json:"last_updated"`
	CustomCounters        map[string]int64    `json:"custom_counters"`
	Performance           PerformanceSnapshot `json:"performance"`
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		ServiceName:        serviceName,
		LastUpdated:        time.Now(),
		CustomCounters:     make(map[string]int64),
		PerformanceMetrics: NewPerformanceMetrics(),
	}
}

// RecordRequest records a request with its success status and processing time
func (m *ServiceMetrics) RecordRequest(success bool, processingTime time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRequests++
	m.TotalProcessingTime += processingTime
	m.AverageProcessingTime = time.Duration(int64(m.TotalProcessingTime) / m.TotalRequests)

	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
	}

	m.LastUpdated = time.Now()

	if m.PerformanceMetrics != nil {
		m.PerformanceMetrics.RecordProcessingTime(processingTime)
	}
}

// GetFailureRate returns the failure rate as a percentage
func (m *ServiceMetrics) GetFailureRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.failureRateLocked()
}

func (m *ServiceMetrics) successRateLocked() float64 {
	if m.TotalRequests == 0 {
		return 0.0
	}
	return float64(m.SuccessfulRequests) / float64(m.TotalRequests) * 100.0
}

func (m *ServiceMetrics) failureRateLocked() float64 {
	if m.TotalRequests == 0 {
		return 0.0
	}
	return float64(m.FailedRequests) / float64(m.TotalRequests) * 100.0
}

// IncrementCustomCounter increments a custom counter metric
func (m *ServiceMetrics) IncrementCustomCounter(key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.CustomCounters[key]++
	m.LastUpdated = time.Now()
}

// GetCustomCounter returns a custom counter value
func (m *ServiceMetrics) GetCustomCounter(key string) int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.CustomCounters[key]
}

// GetSnapshot returns a thread-safe snapshot of current metrics
func (m *ServiceMetrics) GetSnapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	countersCopy := make(map[string]int64, len(m.CustomCounters))
	for k, v := range m.CustomCounters {
		countersCopy[k] = v
	}

	snapshot := MetricsSnapshot{
		ServiceName:           m.ServiceName,
		TotalRequests:         m.TotalRequests,
		SuccessfulRequests:    m.SuccessfulRequests,
		FailedRequests:        m.FailedRequests,
		SuccessRate:           m.successRateLocked(),
		FailureRate:           m.failureRateLocked(),
		TotalProcessingTime:   m.TotalProcessingTime,
		AverageProcessingTime: m.AverageProcessingTime,
		LastUpdated:           m.LastUpdated,
		CustomCounters:        countersCopy,
	}
	if m.PerformanceMetrics != nil {
		snapshot.Performance = m.PerformanceMetrics.GetPerformanceSnapshot()
	}
	return snapshot
}

// LogSummary logs a comprehensive metrics summary
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.GetSnapshot()

	logrus.WithFields(logrus.Fields{
		"service_name":            snapshot.ServiceName,
		"total_requests":          snapshot.TotalRequests,
		"successful_requests":     snapshot.SuccessfulRequests,
		"failed_requests":         snapshot.FailedRequests,
		"success_rate":            snapshot.SuccessRate,
		"failure_rate":            snapshot.FailureRate,
		"average_processing_time": snapshot.AverageProcessingTime,
		"min_processing_time":     snapshot.Performance.MinProcessingTime,
		"max_processing_time":     snapshot.Performance.MaxProcessingTime,
		"p95_processing_time":     snapshot.Performance.P95ProcessingTime,
		"p99_processing_time":     snapshot.Performance.P99ProcessingTime,
		"custom_counters":         snapshot.CustomCounters,
	}).Info("Service metrics summary")
}

// Reset resets all metrics to zero
func (m *ServiceMetrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRequests = 0
	m.SuccessfulRequests = 0
	m.FailedRequests = 0
	m.TotalProcessingTime = 0
	m.AverageProcessingTime = 0
	m.LastUpdated = time.Now()
	m.CustomCounters = make(map[string]int64)
	m.PerformanceMetrics = NewPerformanceMetrics()

	logrus.WithField("service_name", m.ServiceName).Info("Service metrics reset")
}

// PerformanceMetrics tracks processing time distribution
type PerformanceMetrics struct {
	mutex           sync.RWMutex
	minTime         time.Duration
	maxTime         time.Duration
	p95Time         time.Duration
	p99Time         time.Duration
	processingTimes []time.Duration
}

// PerformanceSnapshot is an immutable copy of PerformanceMetrics
type PerformanceSnapshot struct {
	MinProcessingTime time.Duration `json:"min_processing_time"`
	MaxProcessingTime time.Duration `json:"max_processing_time"`
	P95ProcessingTime time.Duration `json:"p95_processing_time"`
	P99ProcessingTime time.Duration `json:"p99_processing_time"`
	Samples           int           `json:"samples"`
}

// NewPerformanceMetrics creates a new performance metrics tracker
func NewPerformanceMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{
		processingTimes: make([]time.Duration, 0, maxPerformanceSamples),
	}
}

// RecordProcessingTime records a processing time and updates percentiles
func (pm *PerformanceMetrics) RecordProcessingTime(duration time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pm.minTime == 0 || duration < pm.minTime {
		pm.minTime = duration
	}
	if duration > pm.maxTime {
		pm.maxTime = duration
	}

	// Keep the most recent samples only
	if len(pm.processingTimes) >= maxPerformanceSamples {
		pm.processingTimes = pm.processingTimes[1:]
	}
	pm.processingTimes = append(pm.processingTimes, duration)

	pm.calculatePercentiles()
}

func (pm *PerformanceMetrics) calculatePercentiles() {
	if len(pm.processingTimes) == 0 {
		return
	}

	times := slices.Clone(pm.processingTimes)
	slices.Sort(times)

	p95Index := int(float64(len(times)) * 0.95)
	p99Index := int(float64(len(times)) * 0.99)

	if p95Index < len(times) {
		pm.p95Time = times[p95Index]
	}
	if p99Index < len(times) {
		pm.p99Time = times[p99Index]
	}
}

// GetPerformanceSnapshot returns a thread-safe snapshot of performance metrics
func (pm *PerformanceMetrics) GetPerformanceSnapshot() PerformanceSnapshot {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	return PerformanceSnapshot{
		MinProcessingTime: pm.minTime,
		MaxProcessingTime: pm.maxTime,
		P95ProcessingTime: pm.p95Time,
		P99ProcessingTime: pm.p99Time,
		Samples:           len(pm.processingTimes),
	}
}
