package domain

import (
	"errors"
	"testing"
)

func TestCity_构造校验(t *testing.T) {
	m := mustMajor(t, 1)
	cases := []struct {
		name           string
		id, nm, region string
		pos            int
	}{
		{"空id", " ", "x", "r", 0},
		{"空名字", "c", "", "r", 0},
		{"空区域", "c", "x", "  ", 0},
		{"负位置", "c", "x", "r", -1},
	}
	for _, c := range cases {
		if _, err := NewCity(c.id, c.nm, c.region, m, m, c.pos); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: 期望 ErrInvalidArgument, err=%v", c.name, err)
		}
	}
}

func TestCity_价格倍率越界报错不截断(t *testing.T) {
	c := mustCity(t, "c1", "r1", 120, 10, 0)
	rules := DefaultEconomyRules()
	if _, err := c.GetPrice(rules.MaxPriceMultiplier()+0.01, rules); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望越界报错, err=%v", err)
	}
	if _, err := c.GetToll(-1, rules); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望负倍率报错, err=%v", err)
	}
	price, err := c.GetPrice(1.5, rules)
	if err != nil || !price.Equal(mustMajor(t, 180)) {
		t.Fatalf("期望 180, got=%s err=%v", price, err)
	}
	toll, err := c.GetToll(0, rules)
	if err != nil || !toll.IsZero() {
		t.Fatalf("期望 0 倍率过路费为 0, got=%s err=%v", toll, err)
	}
}

func TestEconomyRules_上限必须非负且有限(t *testing.T) {
	if _, err := NewEconomyRules(-0.5, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望负上限报错, err=%v", err)
	}
	if r, err := NewEconomyRules(2, 4); err != nil || r.MaxTollMultiplier() != 4 {
		t.Fatalf("期望合法规则, r=%+v err=%v", r, err)
	}
}
