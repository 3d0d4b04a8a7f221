package wheel

import "github.com/shopspring/decimal"

// Achievement is unlocked at most once per session and pays a bonus.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type achievementRule struct {
	Achievement
	met func(st Stats) bool
}

var achievementRules = []achievementRule{
	{Achievement{"first_spin", "First Spin", "Complete your first spin", "🎯"},
		func(st Stats) bool { return st.TotalSpins >= 1 }},
	{Achievement{"lucky_7", "Lucky 7", "Win 7 times in a row", "🍀"},
		func(st Stats) bool { return st.ConsecutiveWins >= 7 }},
	{Achievement{"jackpot_master", "Jackpot Master", "Hit 3 jackpots", "🎰"},
		func(st Stats) bool { return st.JackpotCount >= 3 }},
	{Achievement{"coin_collector", "Coin Collector", "Collect 10,000 coins", "🪙"},
		func(st Stats) bool { return st.TotalWinnings.GreaterThanOrEqual(decimal.NewFromInt(10000)) }},
	{Achievement{"spinning_maniac", "Spinning Maniac", "Spin 100 times", "🌪️"},
		func(st Stats) bool { return st.TotalSpins >= 100 }},
	{Achievement{"high_roller", "High Roller", "Reach level 10", "🎲"},
		func(st Stats) bool { return st.Level >= 10 }},
}

// Achievements lists every achievement in unlock-check order.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievementRules))
	for i, r := range achievementRules {
		out[i] = r.Achievement
	}
	return out
}
