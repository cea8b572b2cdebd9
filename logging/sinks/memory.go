package sinks

import (
	"context"
	"sync"

	"shopnav/server/logging"
)

// Memory retains events in order for test assertions.
type Memory struct {
	mu     sync.Mutex
	events []logging.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Memory) Close(context.Context) error {
	return nil
}

func (s *Memory) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]logging.Event(nil), s.events...)
}
