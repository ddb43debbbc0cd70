package domain

import "strings"

// City 是经济单元。值类型，创建后不可变；年度调价通过 WithPrices 整条替换。
type City struct {
	id            string
	name          string
	regionID      string
	basePrice     Money
	baseToll      Money
	positionIndex int
}

func NewCity(id, name, regionID string, basePrice, baseToll Money, positionIndex int) (City, error) {
	switch {
	case strings.TrimSpace(id) == "":
		return City{}, ErrInvalidArgument.WithData("field", "city.id")
	case strings.TrimSpace(name) == "":
		return City{}, ErrInvalidArgument.WithData("field", "city.name").WithData("city_id", id)
	case strings.TrimSpace(regionID) == "":
		return City{}, ErrInvalidArgument.WithData("field", "city.region_id").WithData("city_id", id)
	case positionIndex < 0:
		return City{}, ErrInvalidArgument.WithData("field", "city.position_index").WithData("city_id", id)
	}
	return City{
		id:            id,
		name:          name,
		regionID:      strings.TrimSpace(regionID),
		basePrice:     basePrice,
		baseToll:      baseToll,
		positionIndex: positionIndex,
	}, nil
}

func (c City) ID() string         { return c.id }
func (c City) Name() string       { return c.name }
func (c City) RegionID() string   { return c.regionID }
func (c City) BasePrice() Money   { return c.basePrice }
func (c City) BaseToll() Money    { return c.baseToll }
func (c City) PositionIndex() int { return c.positionIndex }
func (c City) IsZero() bool       { return c.id == "" }

// GetPrice = basePrice × multiplier，multiplier ∈ [0, rules.MaxPriceMultiplier]，越界报错不截断。
func (c City) GetPrice(multiplier float64, rules EconomyRules) (Money, error) {
	if err := checkMultiplier("price_multiplier", multiplier, rules.maxPriceMultiplier); err != nil {
		return Money{}, err
	}
	return c.basePrice.Scale(multiplier)
}

// GetToll = baseToll × multiplier，multiplier ∈ [0, rules.MaxTollMultiplier]。
func (c City) GetToll(multiplier float64, rules EconomyRules) (Money, error) {
	if err := checkMultiplier("toll_multiplier", multiplier, rules.maxTollMultiplier); err != nil {
		return Money{}, err
	}
	return c.baseToll.Scale(multiplier)
}

// WithPrices 返回替换了基础价格/过路费的新记录。
func (c City) WithPrices(basePrice, baseToll Money) City {
	next := c
	next.basePrice = basePrice
	next.baseToll = baseToll
	return next
}
