package agent

import "time"

// Scheduler paces the agent's poll loop.
type Scheduler interface {
	// Ticks delivers one value per poll.
	Ticks() <-chan time.Time
	// Stop releases the scheduler. No ticks are delivered afterwards.
	Stop()
}

// Ticker polls at a fixed interval.
type Ticker struct {
	t *time.Ticker
}

// NewTicker returns a Scheduler backed by time.Ticker.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{t: time.NewTicker(interval)}
}

func (t *Ticker) Ticks() <-chan time.Time { return t.t.C }
func (t *Ticker) Stop()                   { t.t.Stop() }

// Manual is a Scheduler driven by explicit Tick calls, for tests and
// one-shot runs.
type Manual struct {
	c chan time.Time
}

// NewManual returns a Manual scheduler.
func NewManual() *Manual {
	return &Manual{c: make(chan time.Time)}
}

// Tick blocks until the agent receives the tick.
func (m *Manual) Tick() {
	m.c <- time.Now()
}

func (m *Manual) Ticks() <-chan time.Time { return m.c }
func (m *Manual) Stop()                   {}
