package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/sirupsen/logrus"
)

const (
	DefaultHistoryLimit      = 10
	DefaultNotificationLimit = 20
	// DashboardHistorySize is how many recent searches the dashboard lists
	DashboardHistorySize = 5
)

// Notifier receives the user-visible notifications a session emits
type Notifier interface {
	Notify(sessionID string, notification models.Notification)
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct{}

// Notify implements Notifier
func (LogNotifier) Notify(sessionID string, notification models.Notification) {
	entry := logrus.WithFields(logrus.Fields{
		"component":   "SearchSession",
		"session_id":  sessionID,
		"title":       notification.Title,
		"description": notification.Description,
	})
	if notification.Kind == models.NotificationFailure {
		entry.Warn("Session notification")
		return
	}
	entry.Info("Session notification")
}

// SessionOptions tunes a search session
type SessionOptions struct {
	HistoryLimit      int
	NotificationLimit int
	Notifier          Notifier
	Now               func() time.Time
}

// SearchSession owns the current result and bounded history of one user's
// searches. All mutation goes through Submit, SelectHistoryEntry and Reset.
// At most one lookup is in flight; the lock is not held while it runs.
type SearchSession struct {
	id                string
	lookuper          Lookuper
	notifier          Notifier
	historyLimit      int
	notificationLimit int
	now               func() time.Time
	logger            *logrus.Entry

	mutex         sync.RWMutex
	state         models.SessionState
	current       *models.LookupResult
	history       []models.LookupResult
	notifications []models.Notification
	createdAt     time.Time
	lastActiveAt  time.Time
}

// NewSearchSession creates an idle session with empty history
func NewSearchSession(id string, lookuper Lookuper, opts SessionOptions) *SearchSession {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.NotificationLimit <= 0 {
		opts.NotificationLimit = DefaultNotificationLimit
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	createdAt := opts.Now()
	return &SearchSession{
		id:                id,
		lookuper:          lookuper,
		notifier:          opts.Notifier,
		historyLimit:      opts.HistoryLimit,
		notificationLimit: opts.NotificationLimit,
		now:               opts.Now,
		logger:            logrus.WithFields(logrus.Fields{"component": "SearchSession", "session_id": id}),
		state:             models.SessionStateIdle,
		history:           make([]models.LookupResult, 0, opts.HistoryLimit),
		createdAt:         createdAt,
		lastActiveAt:      createdAt,
	}
}

// ID returns the session identifier
func (s *SearchSession) ID() string {
	return s.id
}

// Submit runs a lookup and records its result.
//
// A blank query fails with EMPTY_QUERY, a query that is not valid UTF-8 fails
// with INVALID_QUERY, and a submission while a lookup is in flight fails with
// LOOKUP_IN_PROGRESS; none of these changes any state. A lookup
// error returns the session to idle with a failure notification and leaves
// current result and history untouched.
func (s *SearchSession) Submit(ctx context.Context, query string, category models.SearchCategory) (models.LookupResult, error) {
	if strings.TrimSpace(query) == "" {
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryValidation,
			shared.ErrCodeEmptyQuery,
			"query must not be empty",
			"SearchSession",
			"Submit",
			false,
			nil,
		)
	}
	// exported JSON would replace invalid bytes with U+FFFD
	if !utf8.ValidString(query) {
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryValidation,
			shared.ErrCodeInvalidQuery,
			"query must be valid UTF-8",
			"SearchSession",
			"Submit",
			false,
			nil,
		)
	}
	category, err := models.ParseSearchCategory(category.String())
	if err != nil {
		return models.LookupResult{}, err
	}

	s.mutex.Lock()
	if !s.state.AcceptsSubmission() {
		s.mutex.Unlock()
		s.logger.WithField("category", category).Debug("Submission ignored, lookup already in flight")
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryResource,
			shared.ErrCodeLookupInProgress,
			"a lookup is already in progress for this session",
			"SearchSession",
			"Submit",
			true,
			nil,
		)
	}
	s.state = models.SessionStateLoading
	s.lastActiveAt = s.now()
	s.mutex.Unlock()

	result, lookupErr := s.lookuper.Lookup(ctx, query, category)

	s.mutex.Lock()
	s.lastActiveAt = s.now()
	var notification models.Notification
	if lookupErr != nil {
		s.state = models.SessionStateIdle
		notification = s.recordNotificationLocked(models.NotificationFailure,
			"Search Failed", "An error occurred during the lookup.")
	} else {
		stored := result.Clone()
		s.current = &stored
		s.pushHistoryLocked(stored)
		s.state = models.SessionStateResult
		notification = s.recordNotificationLocked(models.NotificationSuccess,
			"Search Complete", fmt.Sprintf("%s lookup finished for %s", category, query))
	}
	s.mutex.Unlock()

	s.notifier.Notify(s.id, notification)

	if lookupErr != nil {
		serviceErr := shared.NewServiceError(
			shared.ErrorCategoryProcessing,
			shared.ErrCodeLookupFailed,
			fmt.Sprintf("%s lookup failed", category),
			"SearchSession",
			"Submit",
			shared.IsRetryableError(lookupErr),
			lookupErr,
		)
		serviceErr.LogError()
		return models.LookupResult{}, serviceErr
	}

	return result.Clone(), nil
}

// pushHistoryLocked prepends a result, evicting the oldest beyond the limit
func (s *SearchSession) pushHistoryLocked(result models.LookupResult) {
	keep := len(s.history)
	if keep > s.historyLimit-1 {
		keep = s.historyLimit - 1
	}

	updated := make([]models.LookupResult, 0, s.historyLimit)
	updated = append(updated, result)
	updated = append(updated, s.history[:keep]...)
	s.history = updated
}

func (s *SearchSession) recordNotificationLocked(kind models.NotificationKind, title, description string) models.Notification {
	notification := models.Notification{
		Kind:        kind,
		Title:       title,
		Description: description,
		Timestamp:   s.now(),
	}

	if len(s.notifications) >= s.notificationLimit {
		s.notifications = s.notifications[1:]
	}
	s.notifications = append(s.notifications, notification)
	return notification
}

// SelectHistoryEntry makes a past result current without a new lookup.
// History order is not changed.
func (s *SearchSession) SelectHistoryEntry(index int) (models.LookupResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index < 0 || index >= len(s.history) {
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryValidation,
			shared.ErrCodeHistoryIndexOutOfRange,
			fmt.Sprintf("history index %d out of range [0,%d)", index, len(s.history)),
			"SearchSession",
			"SelectHistoryEntry",
			false,
			nil,
		).WithDetails(map[string]int{"index": index, "history_length": len(s.history)})
	}

	selected := s.history[index].Clone()
	s.current = &selected
	if s.state != models.SessionStateLoading {
		s.state = models.SessionStateResult
	}
	s.lastActiveAt = s.now()

	return selected.Clone(), nil
}

// Reset clears current result, history and notifications. Refused while loading.
func (s *SearchSession) Reset() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == models.SessionStateLoading {
		return shared.NewServiceError(
			shared.ErrorCategoryResource,
			shared.ErrCodeLookupInProgress,
			"cannot reset while a lookup is in progress",
			"SearchSession",
			"Reset",
			true,
			nil,
		)
	}

	s.state = models.SessionStateIdle
	s.current = nil
	s.history = make([]models.LookupResult, 0, s.historyLimit)
	s.notifications = nil
	s.lastActiveAt = s.now()
	return nil
}

// State returns the controller state
func (s *SearchSession) State() models.SessionState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state
}

// IsLoading reports whether a lookup is in flight
func (s *SearchSession) IsLoading() bool {
	return s.State() == models.SessionStateLoading
}

// Current returns a copy of the current result, if any
func (s *SearchSession) Current() (models.LookupResult, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.current == nil {
		return models.LookupResult{}, false
	}
	return s.current.Clone(), true
}

// History returns copies of all stored results, newest first
func (s *SearchSession) History() []models.LookupResult {
	return s.RecentHistory(-1)
}

// RecentHistory returns up to n results, newest first. n < 0 means all.
func (s *SearchSession) RecentHistory(n int) []models.LookupResult {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if n < 0 || n > len(s.history) {
		n = len(s.history)
	}

	results := make([]models.LookupResult, 0, n)
	for _, result := range s.history[:n] {
		results = append(results, result.Clone())
	}
	return results
}

// Notifications returns the retained notifications, oldest first
func (s *SearchSession) Notifications() []models.Notification {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	notifications := make([]models.Notification, len(s.notifications))
	copy(notifications, s.notifications)
	return notifications
}

// LastActiveAt returns when the session last handled an operation
func (s *SearchSession) LastActiveAt() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActiveAt
}

// Snapshot returns a read-only view of the session
func (s *SearchSession) Snapshot() models.SessionSnapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snapshot := models.SessionSnapshot{
		ID:           s.id,
		State:        s.state,
		History:      make([]models.LookupResult, 0, len(s.history)),
		CreatedAt:    s.createdAt,
		LastActiveAt: s.lastActiveAt,
	}
	if s.current != nil {
		current := s.current.Clone()
		snapshot.Current = &current
	}
	for _, result := range s.history {
		snapshot.History = append(snapshot.History, result.Clone())
	}
	return snapshot
}
