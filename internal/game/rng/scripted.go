package rng

// Scripted 按预设脚本依次返回数值，用于测试中精确控制骰子与触发结果。
// 脚本耗尽后 NextDouble 返回 Fallback，NextInt 返回 min。
type Scripted struct {
	Doubles  []float64
	Ints     []int
	Fallback float64

	doubleCalls int
	intCalls    int
}

func (s *Scripted) NextDouble() float64 {
	defer func() { s.doubleCalls++ }()
	if s.doubleCalls < len(s.Doubles) {
		return s.Doubles[s.doubleCalls]
	}
	return s.Fallback
}

// NextInt 原样返回脚本值，不做区间修正，方便测试越界处理。
func (s *Scripted) NextInt(min, max int) int {
	defer func() { s.intCalls++ }()
	if s.intCalls < len(s.Ints) {
		return s.Ints[s.intCalls]
	}
	return min
}

// Calls 返回两类调用各自的次数。
func (s *Scripted) Calls() (doubles, ints int) {
	return s.doubleCalls, s.intCalls
}
