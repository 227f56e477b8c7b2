package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/models"
)

var errBackendDown = errors.New("backend down")

// countingLookuper returns a deterministic result per call and counts calls
type countingLookuper struct {
	calls atomic.Int64
}

func (l *countingLookuper) Lookup(_ context.Context, query string, category models.SearchCategory) (models.LookupResult, error) {
	n := l.calls.Add(1)
	return models.NewLookupResult(query, category, models.LookupFields{
		Location: models.StringPtr("Somewhere"),
		IsValid:  models.BoolPtr(true),
	}, int(n%100), time.Unix(1700000000+n, 0))
}

// failingLookuper always fails with err
type failingLookuper struct {
	err error
}

func (l failingLookuper) Lookup(context.Context, string, models.SearchCategory) (models.LookupResult, error) {
	return models.LookupResult{}, l.err
}

// blockingLookuper parks each call until release is closed
type blockingLookuper struct {
	started chan struct{}
	release chan struct{}
	inner   countingLookuper
}

func newBlockingLookuper() *blockingLookuper {
	return &blockingLookuper{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (l *blockingLookuper) Lookup(ctx context.Context, query string, category models.SearchCategory) (models.LookupResult, error) {
	l.started <- struct{}{}
	select {
	case <-l.release:
	case <-ctx.Done():
		return models.LookupResult{}, ctx.Err()
	}
	return l.inner.Lookup(ctx, query, category)
}

// recordingNotifier keeps every notification it receives
type recordingNotifier struct {
	notifications chan models.Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notifications: make(chan models.Notification, 64)}
}

func (n *recordingNotifier) Notify(_ string, notification models.Notification) {
	n.notifications <- notification
}

// fakeClipboard captures writes or fails with err
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}
