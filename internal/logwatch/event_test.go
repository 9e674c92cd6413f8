package logwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Event
		wantOK bool
	}{
		{
			name:   "matching mode rank",
			line:   "[12:00:01] GlobalUserData:SetMatchingMode userNum:12345 Invoked: Rank",
			want:   Event{Kind: KindMatchingMode, Value: "Rank"},
			wantOK: true,
		},
		{
			name:   "matching mode without space",
			line:   "GlobalUserData:SetMatchingMode Invoked:Normal",
			want:   Event{Kind: KindMatchingMode, Value: "Normal"},
			wantOK: true,
		},
		{
			name:   "region",
			line:   "MatchingService: Selected MatchingRegion : Asia",
			want:   Event{Kind: KindRegion, Value: "Asia"},
			wantOK: true,
		},
		{
			name:   "region without spaces",
			line:   "Selected MatchingRegion:NorthAmerica",
			want:   Event{Kind: KindRegion, Value: "NorthAmerica"},
			wantOK: true,
		},
		{
			name:   "loading scene manager",
			line:   "SceneManager:LoadScene Loading (async)",
			want:   Event{Kind: KindStateChange, Value: StateLoadingScreen},
			wantOK: true,
		},
		{
			name:   "loading short form",
			line:   "LoadScene: Loading",
			want:   Event{Kind: KindStateChange, Value: StateLoadingScreen},
			wantOK: true,
		},
		{
			name:   "lobby",
			line:   "SceneManager:LoadScene Lobby",
			want:   Event{Kind: KindStateChange, Value: StateLobby},
			wantOK: true,
		},
		{
			name:   "game client",
			line:   "NetworkManager: GameClient created id=7",
			want:   Event{Kind: KindStateChange, Value: StateGameStarted},
			wantOK: true,
		},
		{
			name:   "matching mode marker without token falls through",
			line:   "GlobalUserData:SetMatchingMode pending",
			wantOK: false,
		},
		{
			name:   "first rule wins",
			line:   "GlobalUserData:SetMatchingMode Invoked: Cobalt GameClient created",
			want:   Event{Kind: KindMatchingMode, Value: "Cobalt"},
			wantOK: true,
		},
		{
			name:   "non latin token",
			line:   "Selected MatchingRegion : 日本",
			want:   Event{Kind: KindRegion, Value: "日本"},
			wantOK: true,
		},
		{
			name:   "unrelated",
			line:   "Shader warning: unsupported feature",
			wantOK: false,
		},
		{
			name:   "empty",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Region ")
	assert.True(t, ok)
	assert.Equal(t, KindRegion, k)

	_, ok = ParseKind("bogus")
	assert.False(t, ok)
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, []string{"matching_mode", "region", "state_change"}, KindNames())
}

func TestEvent_IsState(t *testing.T) {
	ev := Event{Kind: KindStateChange, Value: StateLobby}
	assert.True(t, ev.IsState(StateLobby))
	assert.False(t, ev.IsState(StateLoadingScreen))
	assert.False(t, Event{Kind: KindRegion, Value: StateLobby}.IsState(StateLobby))
}
