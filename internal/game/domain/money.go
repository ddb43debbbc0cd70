package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxMajorUnits 是单个余额允许的最大主单位金额（两位小数之前）。
	MaxMajorUnits int64 = 1_000_000_000
	// MaxMinorUnits = MaxMajorUnits × 100。
	MaxMinorUnits int64 = MaxMajorUnits * 100

	minorScale = 2
	// maxMajorDigits 是 MaxMajorUnits 的整数位数。
	maxMajorDigits = 10
)

var maxMoneyDecimal = decimal.New(MaxMinorUnits, -minorScale)

// Money 是定点金额值对象，内部以最小单位（1/100）存储。
//
// 不变式：0 ≤ minor ≤ MaxMinorUnits。所有运算返回新值。
type Money struct {
	minor int64
}

// Zero 返回零金额。
func Zero() Money { return Money{} }

// MaxMoney 返回允许的最大金额。
func MaxMoney() Money { return Money{minor: MaxMinorUnits} }

func FromMinorUnits(minor int64) (Money, error) {
	if minor < 0 || minor > MaxMinorUnits {
		return Money{}, ErrMoneyOutOfRange.WithData("minor_units", minor)
	}
	return Money{minor: minor}, nil
}

func FromMajorUnits(major int64) (Money, error) {
	if major < 0 || major > MaxMajorUnits {
		return Money{}, ErrMoneyOutOfRange.WithData("major_units", major)
	}
	return Money{minor: major * 100}, nil
}

// FromDecimal 按“四舍五入、远离零”保留两位小数。负数或超上限直接报错，不做截断。
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrMoneyOutOfRange.WithData("amount", d.String())
	}
	if d.IsZero() {
		return Money{}, nil
	}
	// 先按数量级筛掉极端指数，Round/GreaterThan 会把系数按 10^|exp| 放大。
	// 整数位 = exp + 系数位数；不足 -2 时数值 < 0.001，舍入后为 0。
	order := int64(d.Exponent()) + int64(d.NumDigits())
	switch {
	case order > maxMajorDigits:
		return Money{}, ErrMoneyOutOfRange.WithData("exponent", d.Exponent()).WithData("digits", d.NumDigits())
	case order < -minorScale:
		return Money{}, nil
	}
	r := d.Round(minorScale)
	if r.GreaterThan(maxMoneyDecimal) {
		return Money{}, ErrMoneyOutOfRange.WithData("amount", d.String())
	}
	return Money{minor: r.Shift(minorScale).IntPart()}, nil
}

// ParseMoney 解析十进制文本（"120"、"120.5"、"1e3"）。
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Money{}, ErrMoneyParse.WithData("input", s).WithData("reason", "empty")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, ErrMoneyParse.WithData("input", s).WithData("reason", "not_numeric").WithCause(err)
	}
	m, err := FromDecimal(d)
	if err != nil {
		return Money{}, ErrMoneyParse.WithData("input", s).WithData("reason", "out_of_range").WithCause(err)
	}
	return m, nil
}

func (m Money) MinorUnits() int64 { return m.minor }

func (m Money) ToDecimal() decimal.Decimal {
	return decimal.New(m.minor, -minorScale)
}

func (m Money) IsZero() bool { return m.minor == 0 }

func (m Money) Cmp(o Money) int {
	switch {
	case m.minor < o.minor:
		return -1
	case m.minor > o.minor:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(o Money) bool          { return m.minor == o.minor }
func (m Money) LessThan(o Money) bool       { return m.minor < o.minor }
func (m Money) GreaterOrEqual(o Money) bool { return m.minor >= o.minor }

// Add 超过上限返回 ErrMoneyOverflow。
func (m Money) Add(o Money) (Money, error) {
	sum := m.minor + o.minor
	if sum > MaxMinorUnits {
		return Money{}, ErrMoneyOverflow.WithData("left", m.minor).WithData("right", o.minor)
	}
	return Money{minor: sum}, nil
}

// AddCapped 饱和加法：结果封顶在上限，溢出部分单独返回（由调用方转入国库）。
func (m Money) AddCapped(o Money) (capped Money, overflow Money) {
	sum := m.minor + o.minor
	if sum <= MaxMinorUnits {
		return Money{minor: sum}, Money{}
	}
	return Money{minor: MaxMinorUnits}, Money{minor: sum - MaxMinorUnits}
}

// Subtract 结果为负返回 ErrMoneyUnderflow。
func (m Money) Subtract(o Money) (Money, error) {
	if o.minor > m.minor {
		return Money{}, ErrMoneyUnderflow.WithData("left", m.minor).WithData("right", o.minor)
	}
	return Money{minor: m.minor - o.minor}, nil
}

// Scale 乘以非负倍率并四舍五入到分；结果超上限报错。
func (m Money) Scale(multiplier float64) (Money, error) {
	if !validMultiplier(multiplier) {
		return Money{}, ErrInvalidArgument.WithData("multiplier", multiplier)
	}
	return FromDecimal(m.ToDecimal().Mul(decimal.NewFromFloat(multiplier)))
}

// ScaleCapped 与 Scale 相同，但超上限时封顶在 MaxMoney。
func (m Money) ScaleCapped(multiplier float64) (Money, error) {
	if !validMultiplier(multiplier) {
		return Money{}, ErrInvalidArgument.WithData("multiplier", multiplier)
	}
	d := m.ToDecimal().Mul(decimal.NewFromFloat(multiplier)).Round(minorScale)
	if d.GreaterThan(maxMoneyDecimal) {
		return MaxMoney(), nil
	}
	return FromDecimal(d)
}

func (m Money) String() string {
	return m.ToDecimal().StringFixed(minorScale)
}

// MarshalJSON 输出 JSON 数字（固定两位小数），保证往返精确。
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON 接受数字或数字字符串。
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		s, err := strconv.Unquote(text)
		if err != nil {
			return ErrMoneyParse.WithData("input", text).WithData("reason", "bad_string").WithCause(err)
		}
		text = s
	} else if text == "null" {
		return ErrMoneyParse.WithData("input", text).WithData("reason", "null")
	}
	parsed, err := ParseMoney(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func validMultiplier(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
