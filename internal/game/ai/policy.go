// Package ai 定义 AI 玩家的决策策略。策略只能看到不可变的 PlayerView，无法直接改动任何玩家。
package ai

import (
	"context"
	"strings"

	"SanguoRich/internal/game/domain"
)

type Decision string

const (
	DecisionRollDice Decision = "RollDice"
	DecisionSkip     Decision = "Skip"
)

// DecisionPolicy 是单方法策略接口。
type DecisionPolicy interface {
	Decide(ctx context.Context, view domain.PlayerView) Decision
}

type PolicyFunc func(ctx context.Context, view domain.PlayerView) Decision

func (f PolicyFunc) Decide(ctx context.Context, view domain.PlayerView) Decision { return f(ctx, view) }

// AlwaysRoll 永远掷骰。
type AlwaysRoll struct{}

func (AlwaysRoll) Decide(context.Context, domain.PlayerView) Decision { return DecisionRollDice }

// Cautious 余额低于 Reserve 时停手，避免落到别人城池上破产。
type Cautious struct {
	Reserve domain.Money
}

func (c Cautious) Decide(_ context.Context, view domain.PlayerView) Decision {
	if view.Money().LessThan(c.Reserve) {
		return DecisionSkip
	}
	return DecisionRollDice
}

// ByName 按配置里的策略名创建策略，未知名字返回 false。
func ByName(name string, reserve domain.Money) (DecisionPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "always_roll":
		return AlwaysRoll{}, true
	case "cautious":
		return Cautious{Reserve: reserve}, true
	case "skip":
		return PolicyFunc(func(context.Context, domain.PlayerView) Decision { return DecisionSkip }), true
	default:
		return nil, false
	}
}
