package domain

// PlayerView 是玩家在某一时刻的只读快照，交给 AI / UI 使用。
// 源玩家之后的任何修改都不会反映到已经取出的 view 上。
type PlayerView struct {
	playerID      string
	money         Money
	positionIndex int
	ownedCityIDs  []string
	isEliminated  bool
}

func (v PlayerView) PlayerID() string   { return v.playerID }
func (v PlayerView) Money() Money       { return v.money }
func (v PlayerView) PositionIndex() int { return v.positionIndex }
func (v PlayerView) IsEliminated() bool { return v.isEliminated }

// OwnedCityIDs 返回副本（按 id 排序）。
func (v PlayerView) OwnedCityIDs() []string {
	out := make([]string, len(v.ownedCityIDs))
	copy(out, v.ownedCityIDs)
	return out
}

func (v PlayerView) OwnsCity(cityID string) bool {
	for _, id := range v.ownedCityIDs {
		if id == cityID {
			return true
		}
	}
	return false
}
