package erapi

import "math"

// Summary condenses recent games into the figures the advisor cares about.
type Summary struct {
	TotalGames int     `json:"total_games"`
	WinRate    float64 `json:"win_rate"`
	Top3Rate   float64 `json:"top3_rate"`
	AvgKills   float64 `json:"avg_kills"`
	TopCharID  int     `json:"top_char_id"`
}

// Summarize computes a Summary. Rates are percentages and every figure is
// rounded to one decimal. The most played character wins ties by first
// appearance. It returns nil for no games.
func Summarize(games []Game) *Summary {
	if len(games) == 0 {
		return nil
	}

	var wins, top3, kills int
	counts := make(map[int]int)
	var order []int

	for _, g := range games {
		if g.GameRank == 1 {
			wins++
		}
		if g.GameRank <= 3 {
			top3++
		}
		kills += g.PlayerKill

		if _, seen := counts[g.CharacterNum]; !seen {
			order = append(order, g.CharacterNum)
		}
		counts[g.CharacterNum]++
	}

	topChar := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[topChar] {
			topChar = c
		}
	}

	n := float64(len(games))
	return &Summary{
		TotalGames: len(games),
		WinRate:    round1(float64(wins) / n * 100),
		Top3Rate:   round1(float64(top3) / n * 100),
		AvgKills:   round1(float64(kills) / n),
		TopCharID:  topChar,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
