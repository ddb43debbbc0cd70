package app

import (
	"strconv"
	"strings"

	"SanguoRich/internal/game/ai"
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/rng"
	"SanguoRich/internal/game/turn"
	"SanguoRich/internal/shared/serverconfig"
)

type playerSpec struct {
	id       string
	money    domain.Money
	position int
}

// Setup 是解析校验后的开局布置。每次 NewBoard 都按布置新建一份棋盘。
type Setup struct {
	Turn  turn.Config
	Rules domain.EconomyRules
	Seed  int64

	players []playerSpec
	cities  map[string]domain.City
}

// NewSetup 把配置里的字符串金额、日期、策略名解析成领域值。
// Seed 为 0 时用 crypto/rand 生成。
func NewSetup(cfg serverconfig.GameConfig) (*Setup, error) {
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, ErrBadScenario.WithMsgf("game.id 不能为空")
	}

	rules := domain.DefaultEconomyRules()
	if cfg.MaxPriceMultiplier > 0 || cfg.MaxTollMultiplier > 0 {
		r, err := domain.NewEconomyRules(
			orDefault(cfg.MaxPriceMultiplier, rules.MaxPriceMultiplier()),
			orDefault(cfg.MaxTollMultiplier, rules.MaxTollMultiplier()),
		)
		if err != nil {
			return nil, err
		}
		rules = r
	}

	start := domain.FirstDay()
	if cfg.StartDate != "" {
		d, err := parseDate(cfg.StartDate)
		if err != nil {
			return nil, err
		}
		start = d
	}

	reserve := domain.Zero()
	if cfg.AIReserve != "" {
		m, err := domain.ParseMoney(cfg.AIReserve)
		if err != nil {
			return nil, ErrBadScenario.WithMsgf("ai_reserve: %s", cfg.AIReserve).WithCause(err)
		}
		reserve = m
	}
	defaultPolicy, ok := ai.ByName(cfg.AIPolicy, reserve)
	if !ok {
		return nil, ErrBadScenario.WithMsgf("未知 AI 策略 %q", cfg.AIPolicy)
	}

	s := &Setup{
		Turn: turn.Config{
			GameID:                cfg.ID,
			AIPrefix:              cfg.AIPrefix,
			TotalPositions:        cfg.TotalPositions,
			SeasonEventChance:     cfg.SeasonEventChance,
			SeasonYieldMultiplier: cfg.SeasonYieldMultiplier,
			PriceMultiplier:       cfg.PriceMultiplier,
			TollMultiplier:        cfg.TollMultiplier,
			StartDate:             start,
			Policies:              make(map[string]ai.DecisionPolicy),
			DefaultPolicy:         defaultPolicy,
		},
		Rules:  rules,
		Seed:   cfg.Seed,
		cities: make(map[string]domain.City, len(cfg.Cities)),
	}

	for _, pc := range cfg.Players {
		money, err := domain.ParseMoney(pc.Money)
		if err != nil {
			return nil, ErrBadScenario.WithMsgf("玩家 %s 初始资金 %q", pc.ID, pc.Money).WithCause(err)
		}
		s.players = append(s.players, playerSpec{id: pc.ID, money: money, position: pc.Position})
		if pc.Policy != "" {
			p, ok := ai.ByName(pc.Policy, reserve)
			if !ok {
				return nil, ErrBadScenario.WithMsgf("玩家 %s 未知 AI 策略 %q", pc.ID, pc.Policy)
			}
			s.Turn.Policies[pc.ID] = p
		}
	}

	for _, cc := range cfg.Cities {
		if _, dup := s.cities[cc.ID]; dup {
			return nil, ErrBadScenario.WithMsgf("城池 id 重复: %s", cc.ID)
		}
		price, err := domain.ParseMoney(cc.Price)
		if err != nil {
			return nil, ErrBadScenario.WithMsgf("城池 %s 价格 %q", cc.ID, cc.Price).WithCause(err)
		}
		toll, err := domain.ParseMoney(cc.Toll)
		if err != nil {
			return nil, ErrBadScenario.WithMsgf("城池 %s 过路费 %q", cc.ID, cc.Toll).WithCause(err)
		}
		c, err := domain.NewCity(cc.ID, cc.Name, cc.Region, price, toll, cc.Position)
		if err != nil {
			return nil, err
		}
		s.cities[c.ID()] = c
	}

	if s.Seed == 0 {
		seed, err := rng.NewSeed()
		if err != nil {
			return nil, err
		}
		s.Seed = seed
	}

	// 提前建一次棋盘，把玩家重复等错误暴露在启动阶段。
	if _, err := s.NewBoard(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Setup) GameID() string {
	return s.Turn.GameID
}

// NewBoard 按开局布置新建棋盘，国库为空。
func (s *Setup) NewBoard() (*domain.BoardState, error) {
	players := make([]*domain.Player, 0, len(s.players))
	for _, ps := range s.players {
		p, err := domain.NewPlayer(ps.id, ps.money, ps.position)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	cities := make(map[string]domain.City, len(s.cities))
	for id, c := range s.cities {
		cities[id] = c
	}
	return domain.NewBoardState(players, cities, s.Rules, domain.NewTreasury())
}

// parseDate 解析 YYYY-MM-DD。历法每月固定 30 天，不能交给 time.Parse。
func parseDate(s string) (domain.CalendarDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return domain.CalendarDate{}, ErrBadScenario.WithMsgf("start_date 格式应为 YYYY-MM-DD: %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return domain.CalendarDate{}, ErrBadScenario.WithMsgf("start_date 格式应为 YYYY-MM-DD: %q", s).WithCause(err)
		}
		nums[i] = n
	}
	return domain.NewCalendarDate(nums[0], nums[1], nums[2])
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
