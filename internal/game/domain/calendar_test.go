package domain

import (
	"errors"
	"testing"
)

func TestCalendar_跨月跨年进位(t *testing.T) {
	cases := []struct {
		y, m, d, add int
		want         string
	}{
		{1, 1, 30, 1, "Y1-M02-D01"},
		{1, 12, 30, 1, "Y2-M01-D01"},
		{1, 1, 1, 0, "Y1-M01-D01"},
		{1, 1, 1, 360, "Y2-M01-D01"},
		{3, 6, 15, 45, "Y3-M08-D01"},
	}
	for _, c := range cases {
		d, err := NewCalendarDate(c.y, c.m, c.d)
		if err != nil {
			t.Fatalf("NewCalendarDate 失败: %v", err)
		}
		next, err := d.AddDays(c.add)
		if err != nil {
			t.Fatalf("AddDays 失败: %v", err)
		}
		if next.String() != c.want {
			t.Fatalf("%s + %d 期望 %s, got=%s", d, c.add, c.want, next)
		}
	}
}

func TestCalendar_季度划分(t *testing.T) {
	want := map[int]int{1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4, 12: 4}
	for month, q := range want {
		if got := QuarterOf(month); got != q {
			t.Fatalf("月 %d 期望季度 %d, got=%d", month, q, got)
		}
	}
}

func TestCalendar_非法日期与负天数报错(t *testing.T) {
	for _, c := range [][3]int{{0, 1, 1}, {1, 13, 1}, {1, 1, 31}, {1, 0, 1}} {
		if _, err := NewCalendarDate(c[0], c[1], c[2]); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("期望 %v 非法, err=%v", c, err)
		}
	}
	if _, err := FirstDay().AddDays(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("期望负天数报错, err=%v", err)
	}
}

func TestCalendar_比较(t *testing.T) {
	a := FirstDay()
	b, _ := a.AddDays(31)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || !a.Equal(FirstDay()) {
		t.Fatalf("比较结果不对 a=%s b=%s", a, b)
	}
}
