package logwatch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nxadm/tail"
)

// followErrBuffer is the buffer size for the error channel.
const followErrBuffer = 16

// FollowConfig holds configuration for a Follower.
type FollowConfig struct {
	// Poll uses polling instead of inotify/ReadDirectoryChangesW.
	Poll bool

	// FromStart reads the existing content instead of starting at the end.
	FromStart bool
}

// Follower streams classified events from a log file as it grows.
// Unlike Tailer it runs its own goroutine and waits for the file to appear.
type Follower struct {
	t      *tail.Tail
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	errors chan error
	doneCh chan struct{}

	mu      sync.Mutex
	stopped bool
}

// NewFollower starts following path. The provided context controls the
// follower's lifecycle.
func NewFollower(ctx context.Context, path string, cfg FollowConfig) (*Follower, error) {
	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if cfg.FromStart {
		location = &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		Poll:      cfg.Poll,
		MustExist: false,
		Location:  location,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening tail: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	f := &Follower{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event),
		errors: make(chan error, followErrBuffer),
		doneCh: make(chan struct{}),
	}

	go f.run()

	return f, nil
}

// Events returns the channel of classified events.
func (f *Follower) Events() <-chan Event {
	return f.events
}

// Errors returns the channel of tailing errors. Errors are dropped when the
// buffer is full.
func (f *Follower) Errors() <-chan error {
	return f.errors
}

// Stop stops following and closes both channels. Safe to call multiple times.
func (f *Follower) Stop() error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return nil
	}
	f.stopped = true
	f.mu.Unlock()

	f.cancel()
	<-f.doneCh
	return f.t.Stop()
}

func (f *Follower) run() {
	defer close(f.doneCh)
	defer close(f.events)
	defer close(f.errors)

	for {
		select {
		case <-f.ctx.Done():
			return
		case line, ok := <-f.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case f.errors <- fmt.Errorf("tail: %w", line.Err):
				default:
				}
				continue
			}
			ev, ok := Classify(decodeLine([]byte(line.Text)))
			if !ok {
				continue
			}
			select {
			case f.events <- ev:
			case <-f.ctx.Done():
				return
			}
		}
	}
}
