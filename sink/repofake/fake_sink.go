package sinkrepofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-club-sync/sink"
)

var _ sink.Sink = (*FakeSink)(nil)

type FakeSink struct {
	logs      []sink.LogItem
	metrics   []sink.MetricPoint
	failAfter int
	failErr   error
	submitted int
	lock      sync.RWMutex
}

func NewFakeSink() *FakeSink {
	return &FakeSink{failAfter: -1}
}

// FailAfter makes every submission after the first n return err.
func (s *FakeSink) FailAfter(n int, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failAfter = n
	s.failErr = err
}

func (s *FakeSink) check() error {
	if s.failAfter >= 0 && s.submitted >= s.failAfter {
		return s.failErr
	}
	s.submitted++
	return nil
}

func (s *FakeSink) SubmitLog(_ context.Context, item sink.LogItem) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.logs = append(s.logs, item)
	return nil
}

func (s *FakeSink) SubmitMetric(_ context.Context, point sink.MetricPoint) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.metrics = append(s.metrics, point)
	return nil
}

func (s *FakeSink) Logs() []sink.LogItem {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]sink.LogItem(nil), s.logs...)
}

func (s *FakeSink) Metrics() []sink.MetricPoint {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]sink.MetricPoint(nil), s.metrics...)
}
