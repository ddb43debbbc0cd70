package turn

import (
	"math"
	"strings"

	"SanguoRich/internal/game/ai"
	"SanguoRich/internal/game/domain"
)

const DefaultAIPrefix = "ai_"

// Config 是单局回合引擎的规则参数。
type Config struct {
	GameID string
	// AIPrefix 玩家 id 以此开头视为 AI，默认 "ai_"。
	AIPrefix string
	// TotalPositions 棋盘格子数；<=0 时按城池/玩家出现过的最大位置 +1 推算。
	TotalPositions int
	// SeasonEventChance 季度事件触发概率 [0,1]。
	SeasonEventChance float64
	// SeasonYieldMultiplier 触发时受影响区域的过路费收益倍率。
	SeasonYieldMultiplier float64
	// 落地买城/交过路费使用的倍率，默认 1.0。
	PriceMultiplier float64
	TollMultiplier  float64
	StartDate       domain.CalendarDate
	// Policies 按玩家 id 指定 AI 策略，未指定的用 DefaultPolicy（再缺省为 AlwaysRoll）。
	Policies      map[string]ai.DecisionPolicy
	DefaultPolicy ai.DecisionPolicy
}

func (c Config) withDefaults() Config {
	if c.AIPrefix == "" {
		c.AIPrefix = DefaultAIPrefix
	}
	if c.PriceMultiplier == 0 {
		c.PriceMultiplier = 1
	}
	if c.TollMultiplier == 0 {
		c.TollMultiplier = 1
	}
	if c.StartDate.IsZero() {
		c.StartDate = domain.FirstDay()
	}
	if c.DefaultPolicy == nil {
		c.DefaultPolicy = ai.AlwaysRoll{}
	}
	return c
}

func (c Config) validate() error {
	switch {
	case strings.TrimSpace(c.GameID) == "":
		return domain.ErrInvalidArgument.WithData("field", "game_id")
	case math.IsNaN(c.SeasonEventChance) || c.SeasonEventChance < 0 || c.SeasonEventChance > 1:
		return domain.ErrInvalidArgument.WithData("season_event_chance", c.SeasonEventChance)
	case math.IsNaN(c.SeasonYieldMultiplier) || math.IsInf(c.SeasonYieldMultiplier, 0) || c.SeasonYieldMultiplier < 0:
		return domain.ErrInvalidArgument.WithData("season_yield_multiplier", c.SeasonYieldMultiplier)
	}
	return nil
}

// IsAI 按 id 前缀判断。
func (c Config) IsAI(playerID string) bool {
	return strings.HasPrefix(playerID, c.AIPrefix)
}
