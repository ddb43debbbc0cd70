package domain

import (
	"errors"
	"testing"
)

func TestPlayer_购买成功扣款并记录城池(t *testing.T) {
	p := mustPlayer(t, "p1", mustMajor(t, 200))
	c := mustCity(t, "c1", "r1", 120, 10, 0)
	ok, err := p.TryBuyCity(c, 1, DefaultEconomyRules())
	if err != nil || !ok {
		t.Fatalf("期望购买成功, ok=%v err=%v", ok, err)
	}
	if !p.Money().Equal(mustMajor(t, 80)) || !p.OwnsCity("c1") {
		t.Fatalf("期望余额 80 且拥有 c1, money=%s owned=%v", p.Money(), p.OwnedCityIDs())
	}
}

func TestPlayer_购买拒绝不修改状态(t *testing.T) {
	rules := DefaultEconomyRules()
	c := mustCity(t, "c1", "r1", 120, 10, 0)

	poor := mustPlayer(t, "poor", mustMajor(t, 100))
	if ok, err := poor.TryBuyCity(c, 1, rules); err != nil || ok {
		t.Fatalf("期望余额不足被拒绝, ok=%v err=%v", ok, err)
	}
	if !poor.Money().Equal(mustMajor(t, 100)) || len(poor.OwnedCityIDs()) != 0 {
		t.Fatalf("期望状态不变, money=%s", poor.Money())
	}

	rich := mustPlayer(t, "rich", mustMajor(t, 1000))
	if ok, _ := rich.TryBuyCity(c, 1, rules); !ok {
		t.Fatalf("首次购买应成功")
	}
	if ok, err := rich.TryBuyCity(c, 1, rules); err != nil || ok {
		t.Fatalf("期望重复购买被拒绝, ok=%v err=%v", ok, err)
	}
	if !rich.Money().Equal(mustMajor(t, 880)) {
		t.Fatalf("期望只扣一次, money=%s", rich.Money())
	}
}

func TestPlayer_倍率越界返回错误(t *testing.T) {
	p := mustPlayer(t, "p1", mustMajor(t, 200))
	c := mustCity(t, "c1", "r1", 120, 10, 0)
	if _, err := p.TryBuyCity(c, 99, DefaultEconomyRules()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望 ErrInvalidArgument, err=%v", err)
	}
	if _, err := p.TryBuyCity(City{}, 1, DefaultEconomyRules()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望空城池报错, err=%v", err)
	}
}

func TestPlayer_正常支付过路费(t *testing.T) {
	payer := mustPlayer(t, "payer", mustMajor(t, 50))
	owner := mustPlayer(t, "owner", mustMajor(t, 10))
	tr := NewTreasury()
	c := mustCity(t, "c1", "r1", 120, 10, 0)

	receipt, ok, err := payer.TryPayTollTo(owner, c, 1, DefaultEconomyRules(), tr)
	if err != nil || !ok {
		t.Fatalf("期望支付成功, ok=%v err=%v", ok, err)
	}
	if !payer.Money().Equal(mustMajor(t, 40)) || !owner.Money().Equal(mustMajor(t, 20)) {
		t.Fatalf("余额不对 payer=%s owner=%s", payer.Money(), owner.Money())
	}
	if receipt.Bankrupt || !receipt.Amount.Equal(mustMajor(t, 10)) || tr.MinorUnits() != 0 {
		t.Fatalf("回执不对 %+v treasury=%d", receipt, tr.MinorUnits())
	}
}

func TestPlayer_破产时剩余金额全部给主人(t *testing.T) {
	payer := mustPlayer(t, "payer", mustMinor(t, 733))
	owner := mustPlayer(t, "owner", mustMajor(t, 0))
	tr := NewTreasury()
	rules := DefaultEconomyRules()
	if ok, _ := payer.TryBuyCity(mustCity(t, "c9", "r1", 1, 1, 3), 1, rules); !ok {
		t.Fatalf("准备数据失败")
	}
	c := mustCity(t, "c1", "r1", 120, 10, 0)

	receipt, ok, err := payer.TryPayTollTo(owner, c, 1, rules, tr)
	if err != nil || !ok {
		t.Fatalf("期望破产结算成功, ok=%v err=%v", ok, err)
	}
	if !receipt.Bankrupt || receipt.Amount.MinorUnits() != 633 {
		t.Fatalf("回执不对 %+v", receipt)
	}
	if owner.Money().MinorUnits() != 633 {
		t.Fatalf("期望主人恰好收到 6.33, got=%s", owner.Money())
	}
	if !payer.IsEliminated() || !payer.Money().IsZero() || len(payer.OwnedCityIDs()) != 0 {
		t.Fatalf("期望付款人淘汰且清空, money=%s owned=%v", payer.Money(), payer.OwnedCityIDs())
	}
	if ok, err := payer.TryBuyCity(c, 0, rules); err != nil || ok {
		t.Fatalf("期望淘汰玩家永久拒绝购买, ok=%v err=%v", ok, err)
	}
}

func TestPlayer_主人封顶溢出进国库(t *testing.T) {
	payer := mustPlayer(t, "payer", mustMajor(t, 50))
	owner := mustPlayer(t, "owner", mustMinor(t, MaxMinorUnits-300))
	tr := NewTreasury()
	c := mustCity(t, "c1", "r1", 120, 10, 0)

	receipt, ok, err := payer.TryPayTollTo(owner, c, 1, DefaultEconomyRules(), tr)
	if err != nil || !ok {
		t.Fatalf("期望支付成功, ok=%v err=%v", ok, err)
	}
	if !owner.Money().Equal(MaxMoney()) {
		t.Fatalf("期望主人封顶, got=%s", owner.Money())
	}
	if tr.MinorUnits() != 700 || receipt.TreasuryOverflow.MinorUnits() != 700 || receipt.OwnerAmount.MinorUnits() != 300 {
		t.Fatalf("溢出分配不对 receipt=%+v treasury=%d", receipt, tr.MinorUnits())
	}
}

func TestPlayer_过路费拒绝场景(t *testing.T) {
	rules := DefaultEconomyRules()
	tr := NewTreasury()
	c := mustCity(t, "c1", "r1", 120, 10, 0)
	p := mustPlayer(t, "p1", mustMajor(t, 50))

	if _, ok, err := p.TryPayTollTo(p, c, 1, rules, tr); err != nil || ok {
		t.Fatalf("期望给自己交费被拒绝, ok=%v err=%v", ok, err)
	}
	dead := mustPlayer(t, "dead", mustMajor(t, 0))
	killer := mustPlayer(t, "killer", mustMajor(t, 0))
	if _, ok, _ := dead.TryPayTollTo(killer, c, 1, rules, tr); !ok {
		t.Fatalf("准备淘汰玩家失败")
	}
	if _, ok, err := p.TryPayTollTo(dead, c, 1, rules, tr); err != nil || ok {
		t.Fatalf("期望主人已淘汰时被拒绝, ok=%v err=%v", ok, err)
	}
	if !p.Money().Equal(mustMajor(t, 50)) {
		t.Fatalf("期望余额不变, got=%s", p.Money())
	}
	if _, _, err := p.TryPayTollTo(nil, c, 1, rules, tr); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望 nil owner 报错, err=%v", err)
	}
	if _, _, err := p.TryPayTollTo(killer, c, 1, rules, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望 nil treasury 报错, err=%v", err)
	}
}

func TestPlayer_视图是不可变快照(t *testing.T) {
	p := mustPlayer(t, "p1", mustMajor(t, 500))
	view := p.ToView()
	if ok, _ := p.TryBuyCity(mustCity(t, "c1", "r1", 120, 10, 0), 1, DefaultEconomyRules()); !ok {
		t.Fatalf("购买失败")
	}
	if !view.Money().Equal(mustMajor(t, 500)) || view.OwnsCity("c1") {
		t.Fatalf("期望视图不随后续购买变化, money=%s owned=%v", view.Money(), view.OwnedCityIDs())
	}
}

func TestPlayer_快照恢复(t *testing.T) {
	p := mustPlayer(t, "p1", mustMajor(t, 500))
	before := p.Snapshot()
	if ok, _ := p.TryBuyCity(mustCity(t, "c1", "r1", 120, 10, 0), 1, DefaultEconomyRules()); !ok {
		t.Fatalf("购买失败")
	}
	if err := p.Restore(before); err != nil {
		t.Fatalf("恢复失败: %v", err)
	}
	if !p.Money().Equal(mustMajor(t, 500)) || p.OwnsCity("c1") {
		t.Fatalf("期望恢复到购买前, money=%s", p.Money())
	}
	bad := PlayerSnapshot{PlayerID: "p1", Money: mustMajor(t, 1), IsEliminated: true}
	if err := p.Restore(bad); !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("期望淘汰玩家有余额时报错, err=%v", err)
	}
	if err := p.Restore(PlayerSnapshot{PlayerID: "p2"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望 id 不匹配报错, err=%v", err)
	}
}

func TestTreasury_计数溢出报错(t *testing.T) {
	tr, err := RestoreTreasury(1<<63 - 10)
	if err != nil {
		t.Fatalf("恢复国库失败: %v", err)
	}
	if err := tr.Deposit(mustMinor(t, 100)); !errors.Is(err, ErrTreasuryOverflow) {
		t.Fatalf("期望 ErrTreasuryOverflow, err=%v", err)
	}
	if tr.MinorUnits() != 1<<63-10 {
		t.Fatalf("期望失败时计数不变, got=%d", tr.MinorUnits())
	}
}
