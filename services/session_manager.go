package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionManager keeps search sessions in memory, keyed by UUID.
// Sessions are never persisted; restarting the process loses them.
type SessionManager struct {
	sessions    map[string]*SearchSession
	mutex       sync.RWMutex
	lookuper    Lookuper
	options     SessionOptions
	maxSessions int
	logger      *logrus.Entry
}

// NewSessionManager creates a session manager sharing one lookup backend
func NewSessionManager(lookuper Lookuper, options SessionOptions, maxSessions int) *SessionManager {
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	return &SessionManager{
		sessions:    make(map[string]*SearchSession),
		lookuper:    lookuper,
		options:     options,
		maxSessions: maxSessions,
		logger:      logrus.WithField("component", "SessionManager"),
	}
}

// Create starts a new idle session. At the cap the least recently active
// session is evicted; when every session has a lookup in flight nothing can be
// evicted and creation fails with SESSION_LIMIT_REACHED.
func (m *SessionManager) Create() (*SearchSession, error) {
	id := uuid.NewString()
	session := NewSearchSession(id, m.lookuper, m.options)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.sessions) >= m.maxSessions && !m.evictOldestLocked() {
		m.logger.WithField("max_sessions", m.maxSessions).Warn("Session limit reached, all sessions busy")
		return nil, shared.NewServiceError(
			shared.ErrorCategoryResource,
			shared.ErrCodeSessionLimitReached,
			fmt.Sprintf("all %d search sessions have a lookup in flight", m.maxSessions),
			"SessionManager",
			"Create",
			true,
			nil,
		)
	}
	m.sessions[id] = session

	m.logger.WithFields(logrus.Fields{
		"session_id":      id,
		"active_sessions": len(m.sessions),
	}).Debug("Created search session")

	return session, nil
}

// Get returns the session with the given id
func (m *SessionManager) Get(id string) (*SearchSession, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, sessionNotFound(id, "Get")
	}
	return session, nil
}

// Delete removes a session
func (m *SessionManager) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return sessionNotFound(id, "Delete")
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// CleanupIdle drops sessions inactive for longer than ttl and returns how many
// were removed. Sessions with a lookup in flight are kept.
func (m *SessionManager) CleanupIdle(ttl time.Duration) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.IsLoading() {
			continue
		}
		if time.Since(session.LastActiveAt()) > ttl {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		m.logger.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": len(m.sessions),
			"idle_ttl":  ttl,
		}).Info("Removed idle search sessions")
	}
	return removed
}

// evictOldestLocked removes the least recently active session that is not
// loading and reports whether one was removed
func (m *SessionManager) evictOldestLocked() bool {
	var oldestID string
	var oldestTime time.Time

	for id, session := range m.sessions {
		if session.IsLoading() {
			continue
		}
		lastActive := session.LastActiveAt()
		if oldestID == "" || lastActive.Before(oldestTime) {
			oldestID = id
			oldestTime = lastActive
		}
	}

	if oldestID == "" {
		return false
	}
	delete(m.sessions, oldestID)
	m.logger.WithField("session_id", oldestID).Debug("Evicted least recently active session")
	return true
}

func sessionNotFound(id, operation string) error {
	return shared.NewServiceError(
		shared.ErrorCategoryNotFound,
		shared.ErrCodeSessionNotFound,
		fmt.Sprintf("search session %s not found", id),
		"SessionManager",
		operation,
		false,
		nil,
	)
}
