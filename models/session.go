package models

import "time"

// SessionState is the search session controller state
type SessionState string

const (
	SessionStateIdle    SessionState = "idle"
	SessionStateLoading SessionState = "loading"
	SessionStateResult  SessionState = "result"
)

// AcceptsSubmission reports whether a new search may start from this state
func (s SessionState) AcceptsSubmission() bool {
	return s == SessionStateIdle || s == SessionStateResult
}

// NotificationKind distinguishes success and failure toasts
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

// Notification is a user-visible message emitted by a session
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
}

// SessionSnapshot is a read-only view of a session
type SessionSnapshot struct {
	ID           string         `json:"id"`
	State        SessionState   `json:"state"`
	Current      *LookupResult  `json:"current,omitempty"`
	History      []LookupResult `json:"history"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
}
