package jobs

import (
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/services"
	"github.com/sirupsen/logrus"
)

type SessionCleanupJob struct {
	Sessions *services.SessionManager
	IdleTTL  time.Duration
}

func NewSessionCleanupJob(sessions *services.SessionManager, idleTTL time.Duration) *SessionCleanupJob {
	return &SessionCleanupJob{Sessions: sessions, IdleTTL: idleTTL}
}

func (j *SessionCleanupJob) Run() {
	logrus.Debug("Starting Session Cleanup Job")
	removed := j.Sessions.CleanupIdle(j.IdleTTL)
	logrus.WithFields(logrus.Fields{
		"removed":   removed,
		"remaining": j.Sessions.Count(),
	}).Debug("Session Cleanup Job completed")
}
