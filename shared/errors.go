package shared

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryProcessing    ErrorCategory = "processing"
	ErrorCategoryResource      ErrorCategory = "resource"
	ErrorCategoryTimeout       ErrorCategory = "timeout"
	ErrorCategoryNotFound      ErrorCategory = "not_found"
	ErrorCategoryIO            ErrorCategory = "io"
)

// Error codes surfaced by the lookup pipeline
const (
	ErrCodeEmptyQuery             = "EMPTY_QUERY"
	ErrCodeInvalidQuery           = "INVALID_QUERY"
	ErrCodeUnknownCategory        = "UNKNOWN_CATEGORY"
	ErrCodeInvalidResult          = "INVALID_RESULT"
	ErrCodeLookupInProgress       = "LOOKUP_IN_PROGRESS"
	ErrCodeLookupFailed           = "LOOKUP_FAILED"
	ErrCodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeLookupTimeout          = "LOOKUP_TIMEOUT"
	ErrCodeHistoryIndexOutOfRange = "HISTORY_INDEX_OUT_OF_RANGE"
	ErrCodeNoCurrentResult        = "NO_CURRENT_RESULT"
	ErrCodeSessionNotFound        = "SESSION_NOT_FOUND"
	ErrCodeSessionLimitReached    = "SESSION_LIMIT_REACHED"
	ErrCodeClipboardWriteFailed   = "CLIPBOARD_WRITE_FAILED"
	ErrCodeExportFailed           = "EXPORT_FAILED"
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Details     interface{}   `json:"details,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, retryable bool, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   retryable,
		Cause:       cause,
	}
}

// WithDetails adds additional details to the error
func (e *ServiceError) WithDetails(details interface{}) *ServiceError {
	e.Details = details
	return e
}

// IsRetryable returns whether the error is retryable
func (e *ServiceError) IsRetryable() bool {
	return e.Retryable
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"retryable":        e.Retryable,
		"timestamp":        e.Timestamp,
		"details":          e.Details,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}

// AsServiceError extracts the first ServiceError in err's chain
func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// HasErrorCode reports whether err's chain contains a ServiceError with the given code
func HasErrorCode(err error, code string) bool {
	for err != nil {
		serviceErr, ok := AsServiceError(err)
		if !ok {
			return false
		}
		if serviceErr.Code == code {
			return true
		}
		err = serviceErr.Cause
	}
	return false
}

// ErrorIsolationHandler is a failure-rate circuit breaker guarding one service
type ErrorIsolationHandler struct {
	maxFailureRate      float64
	serviceName         string
	circuitBreakerOpen  bool
	failureCount        int64
	successCount        int64
	lastResetTime       time.Time
	openedAt            time.Time
	halfOpenAttempts    int
	maxHalfOpenAttempts int
	openTimeout         time.Duration
	mutex               sync.Mutex
}

// NewErrorIsolationHandler creates a new error isolation handler
func NewErrorIsolationHandler(serviceName string, maxFailureRate float64) *ErrorIsolationHandler {
	return &ErrorIsolationHandler{
		maxFailureRate:      maxFailureRate,
		serviceName:         serviceName,
		lastResetTime:       time.Now(),
		maxHalfOpenAttempts: 3,
		openTimeout:         30 * time.Second,
	}
}

// NewErrorIsolationHandlerWithoutCircuitBreaker creates a handler that only counts outcomes
func NewErrorIsolationHandlerWithoutCircuitBreaker(serviceName string) *ErrorIsolationHandler {
	return NewErrorIsolationHandler(serviceName, -1) // Negative value disables circuit breaker
}

// SetOpenTimeout changes how long the breaker stays open before allowing trial calls
func (h *ErrorIsolationHandler) SetOpenTimeout(timeout time.Duration) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.openTimeout = timeout
}

// RecordSuccess records a successful operation
func (h *ErrorIsolationHandler) RecordSuccess() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.successCount++

	if h.maxFailureRate < 0 || !h.circuitBreakerOpen {
		return
	}

	h.halfOpenAttempts++
	if h.halfOpenAttempts >= h.maxHalfOpenAttempts {
		h.circuitBreakerOpen = false
		h.failureCount = 0
		h.successCount = 0
		h.halfOpenAttempts = 0
		h.lastResetTime = time.Now()

		logrus.WithFields(logrus.Fields{
			"service_name": h.serviceName,
			"component":    "ErrorIsolationHandler",
		}).Info("Circuit breaker closed after successful half-open attempts")
	}
}

// RecordFailure records a failed operation
func (h *ErrorIsolationHandler) RecordFailure() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.failureCount++

	if h.maxFailureRate < 0 {
		return
	}

	// A failure while half-open sends the breaker straight back to open
	if h.circuitBreakerOpen {
		h.halfOpenAttempts = 0
		h.openedAt = time.Now()
		logrus.WithFields(logrus.Fields{
			"service_name": h.serviceName,
			"component":    "ErrorIsolationHandler",
		}).Warn("Circuit breaker returned to open state after failure in half-open")
		return
	}

	totalOperations := h.failureCount + h.successCount
	if totalOperations < 10 { // Minimum sample size
		return
	}

	currentFailureRate := float64(h.failureCount) / float64(totalOperations)
	if currentFailureRate > h.maxFailureRate {
		h.circuitBreakerOpen = true
		h.halfOpenAttempts = 0
		h.openedAt = time.Now()

		logrus.WithFields(logrus.Fields{
			"service_name":     h.serviceName,
			"component":        "ErrorIsolationHandler",
			"failure_rate":     currentFailureRate,
			"max_failure_rate": h.maxFailureRate,
			"failure_count":    h.failureCount,
			"success_count":    h.successCount,
		}).Warn("Circuit breaker opened due to high failure rate")
	}
}

// IsCircuitBreakerOpen reports whether calls should be short-circuited.
// Once the open timeout has elapsed the breaker lets trial calls through.
func (h *ErrorIsolationHandler) IsCircuitBreakerOpen() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.maxFailureRate < 0 || !h.circuitBreakerOpen {
		return false
	}

	if time.Since(h.openedAt) > h.openTimeout {
		logrus.WithFields(logrus.Fields{
			"service_name": h.serviceName,
			"component":    "ErrorIsolationHandler",
		}).Debug("Circuit breaker half-open, allowing trial call")
		return false
	}

	return true
}

// ExecuteWithCircuitBreaker executes fn unless the breaker is open
func (h *ErrorIsolationHandler) ExecuteWithCircuitBreaker(operation string, fn func() error) error {
	if h.IsCircuitBreakerOpen() {
		logrus.WithFields(logrus.Fields{
			"service_name": h.serviceName,
			"operation":    operation,
			"component":    "ErrorIsolationHandler",
		}).Warn("Circuit breaker is open, rejecting call")

		return NewServiceError(
			ErrorCategoryResource,
			ErrCodeServiceUnavailable,
			fmt.Sprintf("Service %s is temporarily unavailable for operation %s", h.serviceName, operation),
			h.serviceName,
			operation,
			true,
			nil,
		)
	}

	if err := fn(); err != nil {
		h.RecordFailure()
		return err
	}

	h.RecordSuccess()
	return nil
}

// GetFailureRate returns the current failure rate
func (h *ErrorIsolationHandler) GetFailureRate() float64 {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	totalOperations := h.failureCount + h.successCount
	if totalOperations == 0 {
		return 0.0
	}

	return float64(h.failureCount) / float64(totalOperations)
}

// WrapError wraps an existing error with service error context
func WrapError(err error, category ErrorCategory, code, serviceName, operation string, retryable bool) *ServiceError {
	if err == nil {
		return nil
	}

	// If it's already a ServiceError, keep its classification
	if serviceErr, ok := err.(*ServiceError); ok {
		serviceErr.ServiceName = serviceName
		serviceErr.Operation = operation
		return serviceErr
	}

	return NewServiceError(category, code, err.Error(), serviceName, operation, retryable, err)
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if serviceErr, ok := AsServiceError(err); ok {
		return serviceErr.IsRetryable()
	}

	// Default heuristics for standard errors
	errorMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout", "deadline exceeded", "connection refused", "connection reset",
		"temporary failure", "service unavailable", "too many requests",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errorMsg, pattern) {
			return true
		}
	}

	return false
}
