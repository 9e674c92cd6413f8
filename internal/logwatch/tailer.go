package logwatch

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Tailer reads lines appended to a log file since the previous Poll.
//
// A Tailer has a single owner and is not safe for concurrent use.
type Tailer struct {
	path   string
	logger *slog.Logger

	f      *os.File
	cursor int64
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithLogger sets the logger used for open/reset diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tailer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTailer creates a tailer for path. The file is not opened until Open
// or the first Poll.
func NewTailer(path string, opts ...Option) *Tailer {
	t := &Tailer{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the watched file path.
func (t *Tailer) Path() string {
	return t.path
}

// Cursor returns the byte offset of the first unconsumed byte.
func (t *Tailer) Cursor() int64 {
	return t.cursor
}

// Opened reports whether the log file is currently open.
func (t *Tailer) Opened() bool {
	return t.f != nil
}

// Open opens the log file and positions the cursor at its end, so content
// written before the call is ignored. It returns false if the file cannot
// be opened; the game only creates it once it starts.
func (t *Tailer) Open() bool {
	if t.f != nil {
		return true
	}
	return t.open(true)
}

func (t *Tailer) open(atEnd bool) bool {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.logger.Debug("log file not found", "path", t.path)
		} else {
			t.logger.Warn("failed to open log file", "path", t.path, "err", err)
		}
		return false
	}

	var offset int64
	if atEnd {
		if offset, err = f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			t.logger.Warn("failed to seek log file", "path", t.path, "err", err)
			return false
		}
	}

	t.f = f
	t.cursor = offset
	t.logger.Info("watching log", "path", t.path, "offset", offset)
	return true
}

// Poll returns the events classified from complete lines appended since the
// last call, in file order. It returns nil when the file is not available.
//
// A trailing line without a newline is not consumed; it is read again once
// it is complete.
func (t *Tailer) Poll() []Event {
	if t.f == nil && !t.Open() {
		return nil
	}

	info, err := t.f.Stat()
	if err != nil {
		t.logger.Warn("failed to stat log file", "path", t.path, "err", err)
		t.reset()
		return nil
	}

	// The client recreates Player.log on every launch, either in place or
	// after moving the previous one aside.
	if t.replaced(info) {
		t.logger.Info("log file replaced, starting new session", "path", t.path)
		t.reset()
		if !t.open(false) {
			return nil
		}
		if info, err = t.f.Stat(); err != nil {
			t.logger.Warn("failed to stat log file", "path", t.path, "err", err)
			t.reset()
			return nil
		}
	}
	if info.Size() < t.cursor {
		t.logger.Info("log file truncated, starting new session", "path", t.path,
			"size", info.Size(), "offset", t.cursor)
		t.cursor = 0
	}

	if info.Size() == t.cursor {
		return nil
	}

	if _, err := t.f.Seek(t.cursor, io.SeekStart); err != nil {
		t.logger.Warn("failed to seek log file", "path", t.path, "err", err)
		t.reset()
		return nil
	}

	var events []Event
	reader := bufio.NewReader(t.f)
	for {
		raw, err := reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.logger.Warn("failed to read log file", "path", t.path, "err", err)
			}
			// raw holds an incomplete line (or nothing); leave it for later.
			break
		}

		t.cursor += int64(len(raw))
		if ev, ok := Classify(decodeLine(raw)); ok {
			events = append(events, ev)
		}
	}

	return events
}

// Close releases the file handle. The next Poll reopens the file at its end.
func (t *Tailer) Close() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

// replaced reports whether path now names a different file than the open
// handle. A missing path is not a replacement; the old handle stays readable.
func (t *Tailer) replaced(open os.FileInfo) bool {
	current, err := os.Stat(t.path)
	if err != nil {
		return false
	}
	return !os.SameFile(current, open)
}

func (t *Tailer) reset() {
	if t.f != nil {
		t.f.Close()
		t.f = nil
	}
}

// decodeLine converts raw bytes to a string, dropping invalid UTF-8 and the
// line terminator.
func decodeLine(raw []byte) string {
	line := strings.ToValidUTF8(string(raw), "")
	return strings.TrimRight(line, "\r\n")
}
