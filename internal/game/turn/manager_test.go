package turn

import (
	"context"
	"errors"
	"slices"
	"testing"

	"SanguoRich/internal/game/ai"
	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/economy"
	"SanguoRich/internal/game/event"
	"SanguoRich/internal/game/rng"
)

var testMeta = event.Meta{CorrelationID: "corr-1"}

func money(t *testing.T, major int64) domain.Money {
	t.Helper()
	m, err := domain.FromMajorUnits(major)
	if err != nil {
		t.Fatalf("FromMajorUnits: %v", err)
	}
	return m
}

func city(t *testing.T, id, region string, price, toll int64, pos int) domain.City {
	t.Helper()
	c, err := domain.NewCity(id, "城-"+id, region, money(t, price), money(t, toll), pos)
	if err != nil {
		t.Fatalf("NewCity: %v", err)
	}
	return c
}

func player(t *testing.T, id string, major int64, pos int, owns ...domain.City) *domain.Player {
	t.Helper()
	p, err := domain.NewPlayer(id, money(t, major), pos)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	for _, c := range owns {
		if ok, err := p.TryBuyCity(c, 0, domain.DefaultEconomyRules()); !ok || err != nil {
			t.Fatalf("准备城池失败: %v", err)
		}
	}
	return p
}

func eliminated(t *testing.T, id string) *domain.Player {
	t.Helper()
	p, err := domain.RestorePlayer(domain.PlayerSnapshot{PlayerID: id, IsEliminated: true})
	if err != nil {
		t.Fatalf("RestorePlayer: %v", err)
	}
	return p
}

// failOn 在遇到指定类型的事件时返回错误，其余转发给 next。
type failOn struct {
	typ  event.Type
	next event.Publisher
}

var errBus = errors.New("bus down")

func (f *failOn) Publish(ctx context.Context, evt event.Event) error {
	if evt.Type == f.typ {
		return errBus
	}
	return f.next.Publish(ctx, evt)
}

type game struct {
	m   *Manager
	rec *event.Recorder
	bus *event.Bus
}

func newGame(t *testing.T, cfg Config, players []*domain.Player, cities []domain.City, src rng.Source, pub event.Publisher) game {
	t.Helper()
	byID := make(map[string]domain.City, len(cities))
	for _, c := range cities {
		byID[c.ID()] = c
	}
	board, err := domain.NewBoardState(players, byID, domain.DefaultEconomyRules(), domain.NewTreasury())
	if err != nil {
		t.Fatalf("NewBoardState: %v", err)
	}
	bus := event.NewBus()
	rec := event.NewRecorder(0)
	bus.Subscribe("recorder", rec.Handle)
	if pub == nil {
		pub = bus
	}
	if cfg.GameID == "" {
		cfg.GameID = "g1"
	}
	econ, err := economy.NewManager(cfg.GameID, pub)
	if err != nil {
		t.Fatalf("economy.NewManager: %v", err)
	}
	m, err := NewManager(cfg, board, econ, pub, src)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return game{m: m, rec: rec, bus: bus}
}

func date(t *testing.T, y, mo, d int) domain.CalendarDate {
	t.Helper()
	v, err := domain.NewCalendarDate(y, mo, d)
	if err != nil {
		t.Fatalf("NewCalendarDate: %v", err)
	}
	return v
}

func TestAdvanceTurn_跨年时事件顺序固定(t *testing.T) {
	c1, c2, c3 := city(t, "c1", "r1", 100, 10, 1), city(t, "c2", "r2", 100, 20, 2), city(t, "c3", "r2", 100, 5, 3)
	src := &rng.Scripted{Doubles: []float64{0.1, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, Ints: []int{1}}
	cfg := Config{StartDate: date(t, 1, 12, 30), SeasonEventChance: 0.5, SeasonYieldMultiplier: 1.2}
	g := newGame(t, cfg, []*domain.Player{player(t, "h1", 100, 0, c1), player(t, "h2", 100, 0, c2)}, []domain.City{c1, c2, c3}, src, nil)

	if err := g.m.Start(context.Background(), testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.rec.Reset()
	if err := g.m.AdvanceTurn(context.Background(), testMeta); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}

	types := g.rec.Types()
	want := []event.Type{
		event.TypeTurnEnded,
		event.TypeMonthSettled,
		event.TypeSeasonApplied,
		event.TypeYearPriceAdjusted, event.TypeYearPriceAdjusted, event.TypeYearPriceAdjusted,
		event.TypeTurnAdvanced,
		event.TypeTurnStarted,
	}
	if !slices.Equal(types, want) {
		t.Fatalf("事件顺序不对\n got=%v\nwant=%v", types, want)
	}
	if got := g.m.CurrentDate().String(); got != "Y2-M01-D01" {
		t.Fatalf("期望 Y2-M01-D01, got=%s", got)
	}
	evts := g.rec.Events()
	settled := evts[1].Payload.(*event.MonthSettledPayload)
	if settled.Year != 1 || settled.Month != 12 {
		t.Fatalf("期望结算的是刚结束的 12 月, got=%d-%d", settled.Year, settled.Month)
	}
	season := evts[2].Payload.(*event.SeasonAppliedPayload)
	if season.Year != 2 || season.Season != 1 || !slices.Equal(season.AffectedRegionIds, []string{"r2"}) {
		t.Fatalf("季度事件不对 %+v", season)
	}
	for _, e := range evts {
		if e.CorrelationID != "corr-1" {
			t.Fatalf("期望所有事件带上同一个 correlation id, got=%+v", e)
		}
	}
}

func TestAdvanceTurn_四月月结使用季度收益倍率(t *testing.T) {
	c1, c2 := city(t, "c1", "r1", 100, 10, 1), city(t, "c2", "r2", 100, 20, 2)
	src := &rng.Scripted{Doubles: []float64{0}, Ints: []int{0}, Fallback: 0.99}
	cfg := Config{StartDate: date(t, 1, 3, 30), SeasonEventChance: 0.5, SeasonYieldMultiplier: 0.9}
	g := newGame(t, cfg, []*domain.Player{player(t, "h1", 0, 0, c1), player(t, "h2", 0, 0, c2)}, []domain.City{c1, c2}, src, nil)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// 3/30 → 4/1 触发 r1 季度事件，再走 30 天跨过 4/30 → 5/1。
	for i := 0; i < 31; i++ {
		if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
			t.Fatalf("第 %d 次 AdvanceTurn: %v", i, err)
		}
	}
	if got := g.m.CurrentDate().String(); got != "Y1-M05-D01" {
		t.Fatalf("期望 Y1-M05-D01, got=%s", got)
	}
	var april *event.MonthSettledPayload
	for _, e := range g.rec.Events() {
		if p, ok := e.Payload.(*event.MonthSettledPayload); ok && p.Month == 4 {
			april = p
		}
	}
	if april == nil {
		t.Fatalf("没有找到四月月结, events=%v", g.rec.Types())
	}
	deltas := map[string]int64{}
	for _, s := range april.PlayerSettlements {
		deltas[s.PlayerId] = s.AmountDelta.MinorUnits()
	}
	if deltas["h1"] != 900 || deltas["h2"] != 2000 {
		t.Fatalf("期望 r1 玩家 9.00、r2 玩家 20.00, got=%v", deltas)
	}
}

func TestAdvanceTurn_季度未触发时恢复中性倍率(t *testing.T) {
	c1, c2 := city(t, "c1", "r1", 100, 10, 1), city(t, "c2", "r2", 100, 20, 2)
	// 4/1 触发 r1 季度事件；7/1 取到 0.99 ≥ 0.5，不触发。
	src := &rng.Scripted{Doubles: []float64{0, 0.99}, Ints: []int{0}, Fallback: 0.99}
	cfg := Config{StartDate: date(t, 1, 3, 30), SeasonEventChance: 0.5, SeasonYieldMultiplier: 0.9}
	g := newGame(t, cfg, []*domain.Player{player(t, "h1", 0, 0, c1), player(t, "h2", 0, 0, c2)}, []domain.City{c1, c2}, src, nil)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// 3/30 → 4/1 → 7/1 → 8/1
	for i := 0; i < 1+90+30; i++ {
		if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
			t.Fatalf("第 %d 次 AdvanceTurn: %v", i, err)
		}
	}
	if got := g.m.CurrentDate().String(); got != "Y1-M08-D01" {
		t.Fatalf("期望 Y1-M08-D01, got=%s", got)
	}
	if !g.m.economy.ActiveSeasonYieldAdjustment().IsNeutral() {
		t.Fatalf("第三季度未触发，期望中性倍率, got=%+v", g.m.economy.ActiveSeasonYieldAdjustment())
	}

	applied := 0
	h1ByMonth := map[int]int64{}
	for _, e := range g.rec.Events() {
		switch p := e.Payload.(type) {
		case *event.SeasonAppliedPayload:
			applied++
			if p.Season != 2 {
				t.Fatalf("只应有第二季度的季度事件, got=%+v", p)
			}
		case *event.MonthSettledPayload:
			for _, s := range p.PlayerSettlements {
				if s.PlayerId == "h1" {
					h1ByMonth[p.Month] = s.AmountDelta.MinorUnits()
				}
			}
		}
	}
	if applied != 1 {
		t.Fatalf("期望只有 1 次 season.applied, got=%d", applied)
	}
	if h1ByMonth[3] != 1000 || h1ByMonth[6] != 900 || h1ByMonth[7] != 1000 {
		t.Fatalf("期望 3 月 10.00、6 月 9.00、7 月恢复 10.00, got=%v", h1ByMonth)
	}
	if doubles, _ := src.Calls(); doubles != 2 {
		t.Fatalf("期望每个季度边界只取一次触发随机数, got=%d", doubles)
	}
}

func TestAdvanceTurn_人类出局后对局冻结(t *testing.T) {
	g := newGame(t, Config{}, []*domain.Player{eliminated(t, "h1"), player(t, "ai_1", 10, 0)}, nil, &rng.Scripted{}, nil)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.rec.Reset()
	if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	evts := g.rec.Events()
	if len(evts) != 1 || evts[0].Type != event.TypeGameEnded {
		t.Fatalf("期望只有 game.ended, got=%v", g.rec.Types())
	}
	if p := evts[0].Payload.(*event.GameEndedPayload); p.EndReason != event.EndReasonHumanEliminated {
		t.Fatalf("结束原因不对 %s", p.EndReason)
	}
	if err := g.m.AdvanceTurn(ctx, testMeta); !errors.Is(err, domain.ErrGameEnded) {
		t.Fatalf("期望 ErrGameEnded, err=%v", err)
	}
	if _, err := g.m.RollDice(ctx, testMeta, "h1"); !errors.Is(err, domain.ErrGameEnded) {
		t.Fatalf("期望指令也被拒绝, err=%v", err)
	}
}

func TestAdvanceTurn_没有存活玩家时结束(t *testing.T) {
	g := newGame(t, Config{}, []*domain.Player{eliminated(t, "ai_1"), eliminated(t, "ai_2")}, nil, &rng.Scripted{}, nil)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if ended, reason := g.m.IsEnded(); !ended || reason != event.EndReasonNoPlayers {
		t.Fatalf("期望 no_players 结束, ended=%v reason=%s", ended, reason)
	}
	types := g.rec.Types()
	if types[len(types)-2] != event.TypeTurnEnded || types[len(types)-1] != event.TypeGameEnded {
		t.Fatalf("期望 turn.ended 后 game.ended, got=%v", types)
	}
}

func TestAdvanceTurn_剔除淘汰AI并轮转(t *testing.T) {
	cfg := Config{DefaultPolicy: ai.PolicyFunc(func(context.Context, domain.PlayerView) ai.Decision { return ai.DecisionSkip })}
	g := newGame(t, cfg, []*domain.Player{player(t, "h1", 10, 0), eliminated(t, "ai_1"), player(t, "ai_2", 10, 0)}, nil, &rng.Scripted{}, nil)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if got := g.m.ActivePlayerID(); got != "ai_2" {
		t.Fatalf("期望轮到 ai_2, got=%s", got)
	}
	if got := g.m.TurnOrder(); !slices.Equal(got, []string{"h1", "ai_2"}) {
		t.Fatalf("期望 ai_1 被剔除, got=%v", got)
	}
	types := g.rec.Types()
	if types[len(types)-1] != event.TypeAiDecisionMade {
		t.Fatalf("期望 AI 做出决策, got=%v", types)
	}
	if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	if got := g.m.ActivePlayerID(); got != "h1" || g.m.TurnNumber() != 3 {
		t.Fatalf("期望回到 h1 第 3 回合, got=%s turn=%d", got, g.m.TurnNumber())
	}
}

func TestAutoplay_AI掷骰移动买城与人类交过路费(t *testing.T) {
	c1 := city(t, "c1", "r1", 100, 30, 3)
	src := &rng.Scripted{Ints: []int{3, 3}}
	g := newGame(t, Config{TotalPositions: 10}, []*domain.Player{player(t, "ai_1", 500, 0), player(t, "h1", 200, 0)}, []domain.City{c1}, src, nil)
	ctx := context.Background()

	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	want := []event.Type{event.TypeTurnStarted, event.TypeAiDecisionMade, event.TypeDiceRolled, event.TypeTokenMoved, event.TypeCityBought}
	if got := g.rec.Types(); !slices.Equal(got, want) {
		t.Fatalf("AI 行动事件不对\n got=%v\nwant=%v", got, want)
	}
	aiPlayer, _ := g.m.Board().TryGetPlayer("ai_1")
	if !aiPlayer.OwnsCity("c1") || !aiPlayer.Money().Equal(money(t, 400)) || aiPlayer.PositionIndex() != 3 {
		t.Fatalf("AI 状态不对 money=%s pos=%d", aiPlayer.Money(), aiPlayer.PositionIndex())
	}

	if _, err := g.m.BuyCity(ctx, testMeta, "h1"); !errors.Is(err, ErrNotActivePlayer) {
		t.Fatalf("期望未轮到时拒绝, err=%v", err)
	}
	if err := g.m.AdvanceTurn(ctx, testMeta); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	out, err := g.m.RollDice(ctx, testMeta, "h1")
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if out.Dice != 3 || out.ToPosition != 3 || !out.Landing.TollPaid || out.Landing.CityID != "c1" {
		t.Fatalf("落地结算不对 %+v", out)
	}
	human, _ := g.m.Board().TryGetPlayer("h1")
	if !human.Money().Equal(money(t, 170)) || !aiPlayer.Money().Equal(money(t, 430)) {
		t.Fatalf("过路费不对 h1=%s ai=%s", human.Money(), aiPlayer.Money())
	}
	if _, err := g.m.RollDice(ctx, testMeta, "h1"); !errors.Is(err, ErrAlreadyRolled) {
		t.Fatalf("期望每回合只能掷一次, err=%v", err)
	}
	if _, err := g.m.RollDice(ctx, event.Meta{}, "h1"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("期望缺少 correlation id 报错, err=%v", err)
	}
}

func TestAutoplay_绕过起点(t *testing.T) {
	src := &rng.Scripted{Ints: []int{3}}
	g := newGame(t, Config{TotalPositions: 10}, []*domain.Player{player(t, "h1", 10, 8)}, nil, src, nil)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	out, err := g.m.RollDice(ctx, testMeta, "h1")
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if out.ToPosition != 1 || !out.PassedStart {
		t.Fatalf("期望绕过起点落到 1, got=%+v", out)
	}
}

func TestAutoplay_骰子越界是致命错误(t *testing.T) {
	src := &rng.Scripted{Ints: []int{7}}
	g := newGame(t, Config{TotalPositions: 10}, []*domain.Player{player(t, "h1", 10, 0)}, nil, src, nil)
	ctx := context.Background()
	_ = g.m.Start(ctx, testMeta)
	if _, err := g.m.RollDice(ctx, testMeta, "h1"); !errors.Is(err, domain.ErrRandomOutOfRange) {
		t.Fatalf("期望 ErrRandomOutOfRange, err=%v", err)
	}
}

func TestAdvanceTurn_跨界失败整体回滚(t *testing.T) {
	c1 := city(t, "c1", "r1", 100, 10, 1)
	bus := event.NewBus()
	rec := event.NewRecorder(0)
	bus.Subscribe("recorder", rec.Handle)
	pub := &failOn{typ: event.TypeTurnAdvanced, next: bus}
	src := &rng.Scripted{Doubles: []float64{0.9}}
	cfg := Config{StartDate: date(t, 1, 1, 30), SeasonEventChance: 0.5, SeasonYieldMultiplier: 1}
	g := newGame(t, cfg, []*domain.Player{player(t, "h1", 100, 0, c1), player(t, "h2", 100, 0)}, []domain.City{c1}, src, pub)
	ctx := context.Background()
	if err := g.m.Start(ctx, testMeta); err != nil {
		t.Fatalf("Start: %v", err)
	}
	before := g.m.Snapshot()

	if err := g.m.AdvanceTurn(ctx, testMeta); !errors.Is(err, errBus) {
		t.Fatalf("期望返回总线错误, err=%v", err)
	}
	after := g.m.Snapshot()
	if after.TurnNumber != before.TurnNumber || after.Month != 1 || after.Day != 30 || after.ActivePlayerID() != "h1" {
		t.Fatalf("期望回合游标恢复, got=%+v", after)
	}
	h1, _ := g.m.Board().TryGetPlayer("h1")
	if !h1.Money().Equal(money(t, 100)) {
		t.Fatalf("期望月结被撤销, money=%s", h1.Money())
	}
}

func TestRestore_非法快照不留下部分状态(t *testing.T) {
	c1 := city(t, "c1", "r1", 100, 10, 1)
	g := newGame(t, Config{}, []*domain.Player{player(t, "h1", 100, 0, c1), player(t, "h2", 100, 0)}, []domain.City{c1}, &rng.Scripted{}, nil)
	s := g.m.Snapshot()
	if len(s.Players) != 2 || s.Players[0].PlayerID != "h1" {
		t.Fatalf("快照玩家顺序不对 %+v", s.Players)
	}
	before := g.m.Board().Players()[0].Snapshot()

	s.Players[0].Money = money(t, 999)
	s.Players[0].PositionIndex = 5
	s.Players[1].IsEliminated = true // 已淘汰却仍有 100，非法
	if err := g.m.Restore(s); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("期望 ErrDataIntegrity, err=%v", err)
	}
	after := g.m.Board().Players()[0].Snapshot()
	if !after.Money.Equal(before.Money) || after.PositionIndex != before.PositionIndex {
		t.Fatalf("校验失败后 h1 不应被改动 before=%+v after=%+v", before, after)
	}
}

func TestSnapshot_读档后继续(t *testing.T) {
	c1 := city(t, "c1", "r1", 100, 10, 1)
	g := newGame(t, Config{}, []*domain.Player{player(t, "h1", 100, 0, c1), player(t, "h2", 100, 0)}, []domain.City{c1}, &rng.Scripted{}, nil)
	ctx := context.Background()
	_ = g.m.Start(ctx, testMeta)
	_ = g.m.AdvanceTurn(ctx, testMeta)

	s, ok := g.m.BuildPersistSnapshot(7)
	if !ok || s.Version != 7 || s.TurnNumber != 2 || s.ActivePlayerID() != "h2" {
		t.Fatalf("快照不对 %+v", s)
	}
	if _, ok := g.m.BuildPersistSnapshot(8); ok {
		t.Fatalf("期望清除脏标记后不再生成快照")
	}

	board, err := RebuildBoard(*s, domain.DefaultEconomyRules())
	if err != nil {
		t.Fatalf("RebuildBoard: %v", err)
	}
	econ, _ := economy.NewManager("g1", event.NewRecorder(0))
	m2, err := NewManager(Config{GameID: "g1"}, board, econ, event.NewRecorder(0), &rng.Scripted{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m2.Restore(*s); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if m2.ActivePlayerID() != "h2" || m2.TurnNumber() != 2 || m2.CurrentDate().Day() != 2 {
		t.Fatalf("读档后状态不对 active=%s turn=%d date=%s", m2.ActivePlayerID(), m2.TurnNumber(), m2.CurrentDate())
	}
	if err := m2.AdvanceTurn(ctx, testMeta); err != nil {
		t.Fatalf("读档后推进失败: %v", err)
	}
	p, _ := board.TryGetPlayer("h1")
	if !p.OwnsCity("c1") {
		t.Fatalf("期望城池归属被恢复")
	}
}

func TestStart_不能重复开始(t *testing.T) {
	g := newGame(t, Config{}, []*domain.Player{player(t, "h1", 1, 0)}, nil, &rng.Scripted{}, nil)
	ctx := context.Background()
	if err := g.m.AdvanceTurn(ctx, testMeta); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("期望未开始时报错, err=%v", err)
	}
	_ = g.m.Start(ctx, testMeta)
	if err := g.m.Start(ctx, testMeta); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("期望重复开始报错, err=%v", err)
	}
}
