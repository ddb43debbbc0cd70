package domain

import (
	"maps"
	"slices"
	"strings"
)

// Player 是可变实体：余额、棋盘位置、已占城池、淘汰标记。
//
// 不变式：已淘汰的玩家余额为 0、没有城池，并永久拒绝 TryBuyCity / TryPayTollTo。
// 只通过 TryBuyCity、TryPayTollTo、ReceiveCapped、MoveTo 修改；从不删除，只标记淘汰。
type Player struct {
	guard         WriterGuard
	id            string
	money         Money
	positionIndex int
	ownedCityIDs  map[string]struct{}
	isEliminated  bool
}

// PlayerSnapshot 是玩家状态的纯值拷贝，用于补偿回滚与持久化。
type PlayerSnapshot struct {
	PlayerID      string
	Money         Money
	PositionIndex int
	OwnedCityIDs  []string
	IsEliminated  bool
}

// Validate 只检查快照自身，不修改任何玩家；批量恢复前先全部校验。
func (s PlayerSnapshot) Validate() error {
	if s.PositionIndex < 0 {
		return ErrInvalidArgument.WithData("field", "player.position_index").WithData("player_id", s.PlayerID)
	}
	if s.IsEliminated && (!s.Money.IsZero() || len(s.OwnedCityIDs) != 0) {
		return ErrDataIntegrity.WithMsgf("已淘汰玩家 %s 仍持有金钱或城池", s.PlayerID)
	}
	return nil
}

// TollReceipt 描述一次过路费结算。Amount == OwnerAmount + TreasuryOverflow 恒成立。
type TollReceipt struct {
	PayerID          string
	OwnerID          string
	CityID           string
	Amount           Money
	OwnerAmount      Money
	TreasuryOverflow Money
	Bankrupt         bool
}

func NewPlayer(id string, initialMoney Money, positionIndex int) (*Player, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidArgument.WithData("field", "player.id")
	}
	if positionIndex < 0 {
		return nil, ErrInvalidArgument.WithData("field", "player.position_index").WithData("player_id", id)
	}
	return &Player{
		guard:         WriterGuard{Owner: "player:" + id},
		id:            id,
		money:         initialMoney,
		positionIndex: positionIndex,
		ownedCityIDs:  make(map[string]struct{}),
	}, nil
}

// RestorePlayer 从快照重建玩家（读档）。快照必须满足淘汰不变式。
func RestorePlayer(s PlayerSnapshot) (*Player, error) {
	p, err := NewPlayer(s.PlayerID, s.Money, s.PositionIndex)
	if err != nil {
		return nil, err
	}
	if err := p.Restore(s); err != nil {
		return nil, err
	}
	return p, nil
}

// ID 创建后不可变，不经过单写者令牌。
func (p *Player) ID() string {
	return p.id
}

func (p *Player) Money() Money {
	defer p.guard.Enter("Player.Money")()
	return p.money
}

func (p *Player) PositionIndex() int {
	defer p.guard.Enter("Player.PositionIndex")()
	return p.positionIndex
}

func (p *Player) IsEliminated() bool {
	defer p.guard.Enter("Player.IsEliminated")()
	return p.isEliminated
}

func (p *Player) OwnsCity(cityID string) bool {
	defer p.guard.Enter("Player.OwnsCity")()
	_, ok := p.ownedCityIDs[cityID]
	return ok
}

// OwnedCityIDs 返回按 id 排序的副本。
func (p *Player) OwnedCityIDs() []string {
	defer p.guard.Enter("Player.OwnedCityIDs")()
	return p.sortedCityIDs()
}

func (p *Player) ToView() PlayerView {
	defer p.guard.Enter("Player.ToView")()
	return PlayerView{
		playerID:      p.id,
		money:         p.money,
		positionIndex: p.positionIndex,
		ownedCityIDs:  p.sortedCityIDs(),
		isEliminated:  p.isEliminated,
	}
}

func (p *Player) Snapshot() PlayerSnapshot {
	defer p.guard.Enter("Player.Snapshot")()
	return PlayerSnapshot{
		PlayerID:      p.id,
		Money:         p.money,
		PositionIndex: p.positionIndex,
		OwnedCityIDs:  p.sortedCityIDs(),
		IsEliminated:  p.isEliminated,
	}
}

// Restore 把玩家整体恢复到快照（包括淘汰标记）。
func (p *Player) Restore(s PlayerSnapshot) error {
	defer p.guard.Enter("Player.Restore")()
	if s.PlayerID != p.id {
		return ErrInvalidArgument.WithMsgf("快照 %s 不属于玩家 %s", s.PlayerID, p.id)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	owned := make(map[string]struct{}, len(s.OwnedCityIDs))
	for _, id := range s.OwnedCityIDs {
		owned[id] = struct{}{}
	}
	p.money = s.Money
	p.positionIndex = s.PositionIndex
	p.ownedCityIDs = owned
	p.isEliminated = s.IsEliminated
	return nil
}

func (p *Player) MoveTo(positionIndex int) error {
	defer p.guard.Enter("Player.MoveTo")()
	if positionIndex < 0 {
		return ErrInvalidArgument.WithData("position_index", positionIndex).WithData("player_id", p.id)
	}
	p.positionIndex = positionIndex
	return nil
}

// TryBuyCity 购买城池。
// 已淘汰、已拥有、余额不足：返回 false 且不修改状态；空城池或倍率越界：返回错误。
func (p *Player) TryBuyCity(city City, priceMultiplier float64, rules EconomyRules) (bool, error) {
	defer p.guard.Enter("Player.TryBuyCity")()
	if city.IsZero() {
		return false, ErrInvalidArgument.WithData("field", "city").WithData("player_id", p.id)
	}
	price, err := city.GetPrice(priceMultiplier, rules)
	if err != nil {
		return false, err
	}
	if p.isEliminated {
		return false, nil
	}
	if _, owned := p.ownedCityIDs[city.id]; owned {
		return false, nil
	}
	if p.money.LessThan(price) {
		return false, nil
	}
	p.money = Money{minor: p.money.minor - price.minor}
	p.ownedCityIDs[city.id] = struct{}{}
	return true, nil
}

// TryPayTollTo 向 owner 支付过路费。
//
// 自己已淘汰、owner 已淘汰、owner 就是自己：返回 false 且不修改状态。
// 余额足够：全额支付；余额不足：破产，把剩余全部给 owner，清空城池并淘汰。
// owner 入账走 AddCapped，溢出部分存入国库。返回 true 时状态一定已经修改。
func (p *Player) TryPayTollTo(owner *Player, city City, tollMultiplier float64, rules EconomyRules, treasury *Treasury) (TollReceipt, bool, error) {
	defer p.guard.Enter("Player.TryPayTollTo")()
	switch {
	case owner == nil:
		return TollReceipt{}, false, ErrInvalidArgument.WithData("field", "owner").WithData("player_id", p.id)
	case treasury == nil:
		return TollReceipt{}, false, ErrInvalidArgument.WithData("field", "treasury").WithData("player_id", p.id)
	case city.IsZero():
		return TollReceipt{}, false, ErrInvalidArgument.WithData("field", "city").WithData("player_id", p.id)
	}
	toll, err := city.GetToll(tollMultiplier, rules)
	if err != nil {
		return TollReceipt{}, false, err
	}
	if owner == p || owner.id == p.id || p.isEliminated {
		return TollReceipt{}, false, nil
	}
	if owner.IsEliminated() {
		return TollReceipt{}, false, nil
	}

	amount := toll
	bankrupt := false
	if p.money.LessThan(toll) {
		amount = p.money
		bankrupt = true
	}

	// 先确认国库能接住溢出，再动任何余额，保证要么全部生效要么都不生效。
	_, overflow := owner.Money().AddCapped(amount)
	if err := treasury.CanDeposit(overflow); err != nil {
		return TollReceipt{}, false, err
	}

	if bankrupt {
		p.money = Money{}
		p.ownedCityIDs = make(map[string]struct{})
		p.isEliminated = true
	} else {
		p.money = Money{minor: p.money.minor - amount.minor}
	}
	credited, overflow, err := owner.ReceiveCapped(amount)
	if err != nil {
		return TollReceipt{}, false, err
	}
	if err := treasury.Deposit(overflow); err != nil {
		return TollReceipt{}, false, err
	}
	return TollReceipt{
		PayerID:          p.id,
		OwnerID:          owner.id,
		CityID:           city.id,
		Amount:           amount,
		OwnerAmount:      credited,
		TreasuryOverflow: overflow,
		Bankrupt:         bankrupt,
	}, true, nil
}

// ReceiveCapped 入账，余额封顶，返回实际入账与溢出部分（由调用方转入国库）。
func (p *Player) ReceiveCapped(amount Money) (credited Money, overflow Money, err error) {
	defer p.guard.Enter("Player.ReceiveCapped")()
	if p.isEliminated {
		return Money{}, Money{}, ErrInvalidArgument.WithMsgf("已淘汰玩家 %s 不能入账", p.id)
	}
	next, overflow := p.money.AddCapped(amount)
	credited = Money{minor: amount.minor - overflow.minor}
	p.money = next
	return credited, overflow, nil
}

func (p *Player) sortedCityIDs() []string {
	return slices.Sorted(maps.Keys(p.ownedCityIDs))
}
