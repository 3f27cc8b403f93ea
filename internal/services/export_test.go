package services

import (
	"context"
	"time"

	"github.com/nexadigital/nexa-api/pkg/httpclient"
)

// SetSleep replaces the pause between directory pages
func (s *DirectoryService) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	s.sleep = fn
}

// SetClock replaces the wall clock
func (s *RequestService) SetClock(now func() time.Time) {
	s.now = now
}

// SetTrigger replaces the lead webhook caller
func (s *RequestService) SetTrigger(fn func(url string, payload any, client httpclient.Client) <-chan struct{}) {
	s.triggerFn = fn
}

// HeldLocks reports how many per-user locks are live
func (s *RequestService) HeldLocks() int {
	return s.locks.len()
}

var SleepContext = sleepContext
