package logwatch

import (
	"regexp"
	"sort"
	"strings"
)

// Kind identifies what a log event describes.
type Kind string

const (
	// KindMatchingMode carries the matching mode the client switched to
	// (Normal, Rank, Cobalt, ...).
	KindMatchingMode Kind = "matching_mode"

	// KindRegion carries the server region selected for matchmaking.
	KindRegion Kind = "region"

	// KindStateChange carries one of the State values.
	KindStateChange Kind = "state_change"
)

// allKinds is the canonical list of event kinds.
var allKinds = []Kind{KindMatchingMode, KindRegion, KindStateChange}

// KindNames returns the sorted names of all event kinds.
func KindNames() []string {
	names := make([]string, len(allKinds))
	for i, k := range allKinds {
		names[i] = string(k)
	}
	sort.Strings(names)
	return names
}

// ParseKind converts a name to a Kind. It is case-insensitive.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range allKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// State values carried by KindStateChange events.
const (
	StateLoadingScreen = "loading_screen"
	StateLobby         = "lobby"
	StateGameStarted   = "game_started"
)

// Event is a classified log line.
type Event struct {
	Kind  Kind   `json:"type"`
	Value string `json:"value"`
}

// IsState reports whether e is a state change to the given state.
func (e Event) IsState(state string) bool {
	return e.Kind == KindStateChange && e.Value == state
}

// Markers searched for in Player.log lines.
const (
	markerMatchingMode = "GlobalUserData:SetMatchingMode"
	markerRegion       = "Selected MatchingRegion"
	markerLoadingA     = "SceneManager:LoadScene Loading"
	markerLoadingB     = "LoadScene: Loading"
	markerLobby        = "SceneManager:LoadScene Lobby"
	markerGameClient   = "GameClient created"
)

// A word is a run of letters, digits or underscores in any script.
var (
	invokedPattern = regexp.MustCompile(`Invoked:\s*([\p{L}\p{N}_]+)`)
	regionPattern  = regexp.MustCompile(`Selected MatchingRegion\s*:\s*([\p{L}\p{N}_]+)`)
)

// Classify maps a single log line to at most one event.
// The first matching rule wins; ok is false when the line is not interesting.
func Classify(line string) (Event, bool) {
	line = strings.TrimSpace(line)

	if strings.Contains(line, markerMatchingMode) {
		if m := invokedPattern.FindStringSubmatch(line); m != nil {
			return Event{Kind: KindMatchingMode, Value: m[1]}, true
		}
	}

	if strings.Contains(line, markerRegion) {
		if m := regionPattern.FindStringSubmatch(line); m != nil {
			return Event{Kind: KindRegion, Value: m[1]}, true
		}
	}

	if strings.Contains(line, markerLoadingA) || strings.Contains(line, markerLoadingB) {
		return Event{Kind: KindStateChange, Value: StateLoadingScreen}, true
	}

	if strings.Contains(line, markerLobby) {
		return Event{Kind: KindStateChange, Value: StateLobby}, true
	}

	if strings.Contains(line, markerGameClient) {
		return Event{Kind: KindStateChange, Value: StateGameStarted}, true
	}

	return Event{}, false
}
