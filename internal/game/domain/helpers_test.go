package domain

import "testing"

func mustMajor(t *testing.T, major int64) Money {
	t.Helper()
	m, err := FromMajorUnits(major)
	if err != nil {
		t.Fatalf("FromMajorUnits(%d) 失败: %v", major, err)
	}
	return m
}

func mustMinor(t *testing.T, minor int64) Money {
	t.Helper()
	m, err := FromMinorUnits(minor)
	if err != nil {
		t.Fatalf("FromMinorUnits(%d) 失败: %v", minor, err)
	}
	return m
}

func mustCity(t *testing.T, id, region string, price, toll int64, pos int) City {
	t.Helper()
	c, err := NewCity(id, "城-"+id, region, mustMajor(t, price), mustMajor(t, toll), pos)
	if err != nil {
		t.Fatalf("NewCity(%s) 失败: %v", id, err)
	}
	return c
}

func mustPlayer(t *testing.T, id string, money Money) *Player {
	t.Helper()
	p, err := NewPlayer(id, money, 0)
	if err != nil {
		t.Fatalf("NewPlayer(%s) 失败: %v", id, err)
	}
	return p
}
