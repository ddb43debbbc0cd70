package domain

import "math"

// EconomyRules 约束城池价格与过路费倍率的上限，纯配置值。
type EconomyRules struct {
	maxPriceMultiplier float64
	maxTollMultiplier  float64
}

func NewEconomyRules(maxPriceMultiplier, maxTollMultiplier float64) (EconomyRules, error) {
	if !validMultiplier(maxPriceMultiplier) || !validMultiplier(maxTollMultiplier) {
		return EconomyRules{}, ErrInvalidArgument.
			WithData("max_price_multiplier", maxPriceMultiplier).
			WithData("max_toll_multiplier", maxTollMultiplier)
	}
	return EconomyRules{maxPriceMultiplier: maxPriceMultiplier, maxTollMultiplier: maxTollMultiplier}, nil
}

func DefaultEconomyRules() EconomyRules {
	return EconomyRules{maxPriceMultiplier: 3, maxTollMultiplier: 3}
}

func (r EconomyRules) MaxPriceMultiplier() float64 { return r.maxPriceMultiplier }
func (r EconomyRules) MaxTollMultiplier() float64  { return r.maxTollMultiplier }

func checkMultiplier(name string, v, upper float64) error {
	if math.IsNaN(v) || v < 0 || v > upper {
		return ErrInvalidArgument.WithMsgf("%s 超出范围 [0, %g]", name, upper).WithData(name, v)
	}
	return nil
}
