package economy

import (
	"math"
	"slices"
	"strings"

	"SanguoRich/internal/game/domain"
)

// YieldAdjustment 是当前季度的区域收益倍率。只在季度边界被显式重置或替换，绝不跨季度延续。
type YieldAdjustment struct {
	Year       int
	Season     int
	RegionIDs  []string
	Multiplier float64
}

// NeutralYield 倍率 1.0、没有区域。
func NeutralYield() YieldAdjustment {
	return YieldAdjustment{Multiplier: 1}
}

func (y YieldAdjustment) IsNeutral() bool {
	return len(y.RegionIDs) == 0
}

// MultiplierFor 返回该区域城池的过路费倍率，不在影响范围内返回 1.0。
func (y YieldAdjustment) MultiplierFor(regionID string) float64 {
	if slices.Contains(y.RegionIDs, regionID) {
		return y.Multiplier
	}
	return 1
}

func (y YieldAdjustment) clone() YieldAdjustment {
	y.RegionIDs = slices.Clone(y.RegionIDs)
	return y
}

func newYieldAdjustment(year, season int, regionIDs []string, multiplier float64) (YieldAdjustment, error) {
	if year < 1 || season < 1 || season > 4 {
		return YieldAdjustment{}, domain.ErrInvalidArgument.WithData("year", year).WithData("season", season)
	}
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier < 0 {
		return YieldAdjustment{}, domain.ErrInvalidArgument.WithData("yield_multiplier", multiplier)
	}
	regions := make([]string, 0, len(regionIDs))
	for _, r := range regionIDs {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(regions, r) {
			continue
		}
		regions = append(regions, r)
	}
	return YieldAdjustment{Year: year, Season: season, RegionIDs: regions, Multiplier: multiplier}, nil
}
