package agent

import (
	"io"
	"log/slog"
	"sync"

	"github.com/ironsheep/er-advisor/internal/logwatch"
)

// EventSource yields the log events observed since the previous call.
// *logwatch.Tailer satisfies it.
type EventSource interface {
	Poll() []logwatch.Event
}

// FollowSource adapts a logwatch.Follower to EventSource. A goroutine
// collects events as they arrive; Poll hands over everything collected
// since the previous call.
type FollowSource struct {
	mu      sync.Mutex
	pending []logwatch.Event
	done    chan struct{}
}

// NewFollowSource starts draining f. Tail errors are logged at warn level.
// The source stops collecting once f is stopped.
func NewFollowSource(f *logwatch.Follower, logger *slog.Logger) *FollowSource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &FollowSource{done: make(chan struct{})}

	go func() {
		for err := range f.Errors() {
			logger.Warn("log follow error", "err", err)
		}
	}()

	go func() {
		defer close(s.done)
		for ev := range f.Events() {
			s.mu.Lock()
			s.pending = append(s.pending, ev)
			s.mu.Unlock()
		}
	}()

	return s
}

// Poll returns the events collected since the last call, in log order.
func (s *FollowSource) Poll() []logwatch.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.pending
	s.pending = nil
	return events
}

// Done is closed once the follower has stopped and every event has been
// collected.
func (s *FollowSource) Done() <-chan struct{} {
	return s.done
}
