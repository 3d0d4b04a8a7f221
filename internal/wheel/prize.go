package wheel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/outcome"
)

// Prize is the payload of one wheel sector.
type Prize struct {
	Name    string `json:"name" yaml:"name"`
	Value   int64  `json:"value" yaml:"value"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Jackpot bool   `json:"jackpot,omitempty" yaml:"jackpot,omitempty"`
}

// Progression enables the win multiplier, levels and achievements.
type Progression struct {
	Enabled          bool
	MultiplierStep   decimal.Decimal // per consecutive win
	MaxMultiplier    decimal.Decimal
	LuckBoost        float64 // weight multiplier while the win multiplier is above 1
	LevelEvery       decimal.Decimal
	AchievementBonus decimal.Decimal
}

// Config fully describes one wheel variant.
type Config struct {
	Game        string
	Prizes      outcome.Table[Prize]
	Physics     Physics
	StartCoins  decimal.Decimal
	Pricing     coins.Pricing
	SettleDelay time.Duration
	Progression Progression
	Packs       []coins.Pack // top-ups on sale; empty disables buying
}

const DefaultSettleDelay = 500 * time.Millisecond

// DefaultPacks are the top-ups both built-in wheels sell.
func DefaultPacks() []coins.Pack {
	return []coins.Pack{
		{ID: "handful", Name: "Handful of Coins", Coins: 100, FirstTimeX2: true, PriceCents: 99},
		{ID: "pouch", Name: "Coin Pouch", Coins: 550, Bonus: 50, FirstTimeX2: true, PriceCents: 499},
		{ID: "chest", Name: "Treasure Chest", Coins: 1200, Bonus: 200, PriceCents: 999},
	}
}

func prize(name string, value int64, w float64, color, icon string) outcome.Outcome[Prize] {
	return outcome.Outcome[Prize]{
		Name:    name,
		Weight:  w,
		Payload: Prize{Name: name, Value: value, Color: color, Icon: icon},
	}
}

// ClassicConfig: flat cost, no progression.
func ClassicConfig() Config {
	tbl := outcome.Table[Prize]{
		prize("10 Coins", 10, 0.30, "#ffd700", ""),
		prize("25 Coins", 25, 0.25, "#ffa500", ""),
		prize("50 Coins", 50, 0.20, "#ff6347", ""),
		prize("100 Coins", 100, 0.15, "#ff1493", ""),
		prize("Jackpot!", 200, 0.08, "#8a2be2", ""),
		prize("Try Again", 0, 0.02, "#808080", ""),
	}
	tbl[4].Payload.Jackpot = true
	return Config{
		Game:        "classic-wheel",
		Prizes:      tbl,
		Physics:     DefaultPhysics(),
		StartCoins:  decimal.NewFromInt(100),
		Pricing:     coins.Pricing{PerSpin: decimal.NewFromInt(10)},
		SettleDelay: DefaultSettleDelay,
		Packs:       DefaultPacks(),
	}
}

// DeluxeConfig: level-scaled cost, multiplier streaks and achievements.
func DeluxeConfig() Config {
	tbl := outcome.Table[Prize]{
		prize("Small Win", 25, 0.35, "#4caf50", "🪙"),
		prize("Medium Win", 75, 0.25, "#2196f3", "💰"),
		prize("Big Win", 150, 0.20, "#ff9800", "💎"),
		prize("Mega Win", 300, 0.12, "#9c27b0", "💍"),
		prize("Super Win", 500, 0.06, "#f44336", "👑"),
		prize("JACKPOT!", 2000, 0.02, "#ffd700", "🎰"),
	}
	tbl[5].Payload.Jackpot = true
	return Config{
		Game:       "deluxe-wheel",
		Prizes:     tbl,
		Physics:    DefaultPhysics(),
		StartCoins: decimal.NewFromInt(1000),
		Pricing: coins.Pricing{
			PerSpin:  decimal.NewFromInt(50),
			PerLevel: decimal.NewFromInt(25),
		},
		SettleDelay: DefaultSettleDelay,
		Progression: Progression{
			Enabled:          true,
			MultiplierStep:   decimal.RequireFromString("0.1"),
			MaxMultiplier:    decimal.NewFromInt(5),
			LuckBoost:        1.2,
			LevelEvery:       decimal.NewFromInt(5000),
			AchievementBonus: decimal.NewFromInt(100),
		},
		Packs: DefaultPacks(),
	}
}
