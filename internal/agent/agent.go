// Package agent ties the pieces together: it watches the game log, scans
// the screen once a match is loading, looks up the players it read and asks
// a language model for advice.
package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ironsheep/er-advisor/internal/erapi"
	"github.com/ironsheep/er-advisor/internal/logwatch"
	"github.com/ironsheep/er-advisor/internal/ocr"
	"github.com/ironsheep/er-advisor/internal/scanner"
)

// Scanner reads region texts for a scene.
type Scanner interface {
	Scan(ctx context.Context, scene string) (scanner.Result, error)
}

// Stats looks players up in the stats API.
type Stats interface {
	UserNum(ctx context.Context, nickname string) (int64, bool, error)
	Stats(ctx context.Context, userNum int64) (*erapi.Summary, error)
}

// Advisor turns a match description into advice.
type Advisor interface {
	Commentary(ctx context.Context, matchContext string) (string, error)
}

// Advice is the outcome of one scan.
type Advice struct {
	Mode         string        `json:"mode"`
	Region       string        `json:"region,omitempty"`
	Participants []Participant `json:"participants"`
	Context      string        `json:"context"`
	Text         string        `json:"text"`
}

// Config configures an Agent.
type Config struct {
	Source    EventSource
	Scheduler Scheduler
	Scanner   Scanner
	Stats     Stats
	Advisor   Advisor

	// Scene is scanned when a loading screen appears.
	Scene string

	// SettleDelay is how long to wait after the loading screen appears
	// before scanning, so the player list has rendered.
	SettleDelay time.Duration

	// After is used for the settle delay. Defaults to time.After.
	After func(time.Duration) <-chan time.Time

	// OnAdvice receives every piece of advice produced.
	OnAdvice func(Advice)

	Logger *slog.Logger
}

// Agent reacts to game log events. It is single-threaded: Run processes
// one event at a time and a scan blocks the loop until it completes.
type Agent struct {
	cfg    Config
	logger *slog.Logger

	mode   string
	region string

	engineDown bool
}

// New creates an agent.
func New(cfg Config) *Agent {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.After == nil {
		cfg.After = time.After
	}
	if cfg.Scene == "" {
		cfg.Scene = "loading"
	}
	if cfg.OnAdvice == nil {
		cfg.OnAdvice = func(Advice) {}
	}
	return &Agent{
		cfg:    cfg,
		logger: cfg.Logger,
		mode:   UnknownMode,
		region: UnknownMode,
	}
}

// Mode returns the last matching mode seen in the log.
func (a *Agent) Mode() string { return a.mode }

// Region returns the last matchmaking region seen in the log.
func (a *Agent) Region() string { return a.region }

// Run polls the event source on every scheduler tick until ctx is done.
// It always returns ctx.Err().
func (a *Agent) Run(ctx context.Context) error {
	defer a.cfg.Scheduler.Stop()

	a.logger.Info("waiting for game events", "scene", a.cfg.Scene, "settle", a.cfg.SettleDelay)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.cfg.Scheduler.Ticks():
			for _, ev := range a.cfg.Source.Poll() {
				a.HandleEvent(ctx, ev)
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		}
	}
}

// HandleEvent updates state from ev and scans when a loading screen
// appears.
func (a *Agent) HandleEvent(ctx context.Context, ev logwatch.Event) {
	a.logger.Info("log event", "type", ev.Kind, "value", ev.Value)

	switch ev.Kind {
	case logwatch.KindMatchingMode:
		a.mode = ev.Value
	case logwatch.KindRegion:
		a.region = ev.Value
	case logwatch.KindStateChange:
		if !ev.IsState(logwatch.StateLoadingScreen) {
			return
		}
		if a.cfg.SettleDelay > 0 {
			a.logger.Info("loading screen detected, waiting for screen to settle", "delay", a.cfg.SettleDelay)
			select {
			case <-ctx.Done():
				return
			case <-a.cfg.After(a.cfg.SettleDelay):
			}
		}
		a.ScanAndAdvise(ctx)
	}
}

// ScanAndAdvise scans the configured scene, looks up every player read
// and, if any were found, asks the advisor for commentary. Failures are
// logged; nothing is returned.
func (a *Agent) ScanAndAdvise(ctx context.Context) {
	result, err := a.cfg.Scanner.Scan(ctx, a.cfg.Scene)
	if err != nil {
		a.logScanError(err)
		return
	}
	a.engineDown = false

	players := GroupPlayers(result)
	a.logger.Info("scan complete", "regions", len(result), "players", len(players))

	participants := a.lookup(ctx, players)
	if len(participants) == 0 {
		a.logger.Info("no participants data found to analyze")
		return
	}

	matchContext := BuildContext(a.mode, participants)
	text, err := a.cfg.Advisor.Commentary(ctx, matchContext)
	if err != nil {
		a.logger.Warn("commentary failed", "err", err)
		return
	}

	a.cfg.OnAdvice(Advice{
		Mode:         a.mode,
		Region:       a.region,
		Participants: participants,
		Context:      matchContext,
		Text:         text,
	})
}

func (a *Agent) lookup(ctx context.Context, players []Player) []Participant {
	var out []Participant
	for _, p := range players {
		if p.Name == "" {
			continue
		}
		logger := a.logger.With("slot", p.Slot, "name", p.Name, "character", p.Character)

		userNum, found, err := a.cfg.Stats.UserNum(ctx, p.Name)
		if err != nil {
			logger.Warn("user lookup failed", "err", err)
			continue
		}
		if !found {
			logger.Info("user not found, likely an OCR misread")
			continue
		}

		stats, err := a.cfg.Stats.Stats(ctx, userNum)
		if err != nil {
			logger.Warn("stats lookup failed", "err", err)
		}
		logger.Debug("player stats", "user_num", userNum, "stats", stats)

		out = append(out, Participant{Player: p, UserNum: userNum, Stats: stats})
	}
	return out
}

func (a *Agent) logScanError(err error) {
	var sceneErr *scanner.SceneError
	switch {
	case errors.Is(err, ocr.ErrEngineUnavailable):
		if !a.engineDown {
			a.logger.Error("OCR engine not available, install Tesseract and its language data", "err", err)
			a.engineDown = true
		} else {
			a.logger.Debug("OCR engine still not available", "err", err)
		}
	case errors.As(err, &sceneErr):
		a.logger.Warn("no regions to scan", "scene", sceneErr.Scene, "err", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.logger.Debug("scan cancelled")
	default:
		a.logger.Warn("scan failed", "err", err)
	}
}
