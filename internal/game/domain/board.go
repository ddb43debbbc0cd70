package domain

import (
	"maps"
	"slices"
	"strings"
)

// BoardState 是聚合根：持有玩家、城池、国库与经济规则，负责引用完整性与跨玩家的归属检查。
type BoardState struct {
	guard       WriterGuard
	playerOrder []string
	playersByID map[string]*Player
	citiesByID  map[string]City
	rules       EconomyRules
	treasury    *Treasury
}

// NewBoardState 校验引用完整性：玩家 id 不可重复，citiesByID 的 key 必须等于 city.ID()。
// 任何违反都是构造期契约错误，不会在运行期跳过。
func NewBoardState(players []*Player, citiesByID map[string]City, rules EconomyRules, treasury *Treasury) (*BoardState, error) {
	if treasury == nil {
		return nil, ErrInvalidArgument.WithData("field", "treasury")
	}
	b := &BoardState{
		guard:       WriterGuard{Owner: "board"},
		playerOrder: make([]string, 0, len(players)),
		playersByID: make(map[string]*Player, len(players)),
		citiesByID:  make(map[string]City, len(citiesByID)),
		rules:       rules,
		treasury:    treasury,
	}
	for i, p := range players {
		if p == nil {
			return nil, ErrInvalidArgument.WithData("field", "players").WithData("index", i)
		}
		if _, dup := b.playersByID[p.ID()]; dup {
			return nil, ErrInvalidArgument.WithMsgf("玩家 id 重复: %s", p.ID()).WithData("player_id", p.ID())
		}
		b.playersByID[p.ID()] = p
		b.playerOrder = append(b.playerOrder, p.ID())
	}
	for key, c := range citiesByID {
		if c.IsZero() || key != c.ID() {
			return nil, ErrInvalidArgument.WithMsgf("城池映射 key=%q 与 city.id=%q 不一致", key, c.ID())
		}
		b.citiesByID[key] = c
	}
	return b, nil
}

func (b *BoardState) Rules() EconomyRules {
	defer b.guard.Enter("BoardState.Rules")()
	return b.rules
}

func (b *BoardState) Treasury() *Treasury {
	defer b.guard.Enter("BoardState.Treasury")()
	return b.treasury
}

// Players 按加入顺序返回玩家（切片是副本，元素是同一批实体）。
func (b *BoardState) Players() []*Player {
	defer b.guard.Enter("BoardState.Players")()
	out := make([]*Player, 0, len(b.playerOrder))
	for _, id := range b.playerOrder {
		out = append(out, b.playersByID[id])
	}
	return out
}

func (b *BoardState) PlayerIDs() []string {
	defer b.guard.Enter("BoardState.PlayerIDs")()
	return slices.Clone(b.playerOrder)
}

func (b *BoardState) TryGetPlayer(playerID string) (*Player, bool) {
	defer b.guard.Enter("BoardState.TryGetPlayer")()
	p, ok := b.playersByID[playerID]
	return p, ok
}

func (b *BoardState) TryGetCity(cityID string) (City, bool) {
	defer b.guard.Enter("BoardState.TryGetCity")()
	c, ok := b.citiesByID[cityID]
	return c, ok
}

// CityAtPosition 返回位于该格子的城池；同一格多个城池时取 id 最小者。
func (b *BoardState) CityAtPosition(positionIndex int) (City, bool) {
	defer b.guard.Enter("BoardState.CityAtPosition")()
	var (
		found City
		ok    bool
	)
	for _, c := range b.citiesByID {
		if c.positionIndex != positionIndex {
			continue
		}
		if !ok || c.id < found.id {
			found, ok = c, true
		}
	}
	return found, ok
}

// GetCitiesSnapshot 返回防御性拷贝，修改返回值不影响内部状态。
func (b *BoardState) GetCitiesSnapshot() map[string]City {
	defer b.guard.Enter("BoardState.GetCitiesSnapshot")()
	return maps.Clone(b.citiesByID)
}

// CityIDs 返回排序后的城池 id。
func (b *BoardState) CityIDs() []string {
	defer b.guard.Enter("BoardState.CityIDs")()
	return slices.Sorted(maps.Keys(b.citiesByID))
}

// ReplaceCity 整条替换已有城池记录（年度调价）。
func (b *BoardState) ReplaceCity(c City) error {
	defer b.guard.Enter("BoardState.ReplaceCity")()
	if _, ok := b.citiesByID[c.ID()]; !ok {
		return ErrUnknownCity.WithData("city_id", c.ID())
	}
	b.citiesByID[c.ID()] = c
	return nil
}

// RestoreCities 用快照整体覆盖城池表，用于补偿回滚。
func (b *BoardState) RestoreCities(snapshot map[string]City) error {
	defer b.guard.Enter("BoardState.RestoreCities")()
	for key, c := range snapshot {
		if key != c.ID() {
			return ErrInvalidArgument.WithMsgf("城池映射 key=%q 与 city.id=%q 不一致", key, c.ID())
		}
	}
	b.citiesByID = maps.Clone(snapshot)
	return nil
}

// Regions 返回去重、排序后的区域 id，空白 id 视为不存在。
func (b *BoardState) Regions() []string {
	defer b.guard.Enter("BoardState.Regions")()
	set := make(map[string]struct{})
	for _, c := range b.citiesByID {
		if r := strings.TrimSpace(c.regionID); r != "" {
			set[r] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// MaxPosition 返回城池与玩家出现过的最大格子序号；都没有时返回 -1。
func (b *BoardState) MaxPosition() int {
	defer b.guard.Enter("BoardState.MaxPosition")()
	maxPos := -1
	for _, c := range b.citiesByID {
		maxPos = max(maxPos, c.positionIndex)
	}
	for _, p := range b.playersByID {
		maxPos = max(maxPos, p.PositionIndex())
	}
	return maxPos
}

// TryBuyCity 先校验 id，再检查是否被其他玩家占有；被占有时直接拒绝，不调用买家的购买逻辑。
func (b *BoardState) TryBuyCity(buyerID, cityID string, priceMultiplier float64) (bool, error) {
	defer b.guard.Enter("BoardState.TryBuyCity")()
	buyer, ok := b.playersByID[buyerID]
	if !ok {
		return false, ErrUnknownPlayer.WithData("player_id", buyerID)
	}
	city, ok := b.citiesByID[cityID]
	if !ok {
		return false, ErrUnknownCity.WithData("city_id", cityID)
	}
	for _, id := range b.playerOrder {
		if id == buyerID {
			continue
		}
		if b.playersByID[id].OwnsCity(cityID) {
			return false, nil
		}
	}
	return buyer.TryBuyCity(city, priceMultiplier, b.rules)
}

// TryGetOwnerOfCity 线性扫描所有玩家。出现多个主人是数据完整性故障，直接报错，不做取舍。
func (b *BoardState) TryGetOwnerOfCity(cityID string) (*Player, bool, error) {
	defer b.guard.Enter("BoardState.TryGetOwnerOfCity")()
	return b.ownerOf(cityID)
}

func (b *BoardState) ownerOf(cityID string) (*Player, bool, error) {
	var owner *Player
	for _, id := range b.playerOrder {
		p := b.playersByID[id]
		if !p.OwnsCity(cityID) {
			continue
		}
		if owner != nil {
			return nil, false, ErrDataIntegrity.
				WithMsgf("城池 %s 同时属于 %s 与 %s", cityID, owner.ID(), p.ID()).
				WithData("city_id", cityID)
		}
		owner = p
	}
	return owner, owner != nil, nil
}
