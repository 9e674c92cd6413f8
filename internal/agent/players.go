package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/er-advisor/internal/erapi"
	"github.com/ironsheep/er-advisor/internal/scanner"
)

// Region label suffixes that identify what a region shows.
const (
	nameSuffix = "_name"
	charSuffix = "_char"
)

// Player is what a scan revealed about one slot.
type Player struct {
	Slot      string `json:"slot"`
	Name      string `json:"name,omitempty"`
	Character string `json:"character,omitempty"`
}

// GroupPlayers pairs `<slot>_name` and `<slot>_char` regions by slot.
// Empty texts and other labels are ignored. Players are sorted by slot.
func GroupPlayers(result scanner.Result) []Player {
	bySlot := make(map[string]*Player)
	get := func(slot string) *Player {
		p, ok := bySlot[slot]
		if !ok {
			p = &Player{Slot: slot}
			bySlot[slot] = p
		}
		return p
	}

	for label, text := range result {
		if text == "" {
			continue
		}
		if slot, ok := strings.CutSuffix(label, nameSuffix); ok {
			get(slot).Name = text
		} else if slot, ok := strings.CutSuffix(label, charSuffix); ok {
			get(slot).Character = text
		}
	}

	players := make([]Player, 0, len(bySlot))
	for _, p := range bySlot {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Slot < players[j].Slot })
	return players
}

// Participant is a player found in the stats API. Stats is nil when the
// player has no recent games or the lookup failed.
type Participant struct {
	Player
	UserNum int64          `json:"user_num"`
	Stats   *erapi.Summary `json:"stats,omitempty"`
}

// UnknownMode is reported before any matching mode was seen.
const UnknownMode = "Unknown"

// BuildContext renders the match for the language model, in Japanese.
func BuildContext(mode string, participants []Participant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "現在のモード: %s\n検出されたプレイヤー:\n", mode)
	for _, p := range participants {
		if p.Stats != nil {
			fmt.Fprintf(&b, "- 名前: %s, 勝率: %.1f%%, 平均キル: %.1f\n",
				p.Name, p.Stats.WinRate, p.Stats.AvgKills)
		} else {
			fmt.Fprintf(&b, "- 名前: %s, データなし\n", p.Name)
		}
	}
	b.WriteString("\nこの状況でのアドバイスをください。")
	return b.String()
}
