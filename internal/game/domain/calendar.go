package domain

import "fmt"

const (
	DaysPerMonth    = 30
	MonthsPerYear   = 12
	MonthsPerSeason = 3
)

// CalendarDate 是固定历法日期：每月 30 天、每年 12 个月，没有闰年等现实历法规则。
type CalendarDate struct {
	year  int
	month int
	day   int
}

func NewCalendarDate(year, month, day int) (CalendarDate, error) {
	if year < 1 || month < 1 || month > MonthsPerYear || day < 1 || day > DaysPerMonth {
		return CalendarDate{}, ErrInvalidArgument.
			WithMsgf("非法日期 %d-%d-%d", year, month, day).
			WithData("year", year).WithData("month", month).WithData("day", day)
	}
	return CalendarDate{year: year, month: month, day: day}, nil
}

// FirstDay 返回第 1 年 1 月 1 日。
func FirstDay() CalendarDate {
	return CalendarDate{year: 1, month: 1, day: 1}
}

func (d CalendarDate) Year() int  { return d.year }
func (d CalendarDate) Month() int { return d.month }
func (d CalendarDate) Day() int   { return d.day }

// Quarter 返回季度 1..4。
func (d CalendarDate) Quarter() int {
	return QuarterOf(d.month)
}

// QuarterOf = ((month-1)/3)+1。
func QuarterOf(month int) int {
	return (month-1)/MonthsPerSeason + 1
}

func (d CalendarDate) AddDays(n int) (CalendarDate, error) {
	if n < 0 {
		return CalendarDate{}, ErrInvalidArgument.WithData("days", n)
	}
	// 以 0 为基的天序号换算，避免逐日循环。
	ordinal := (d.year-1)*MonthsPerYear*DaysPerMonth + (d.month-1)*DaysPerMonth + (d.day - 1) + n
	year := ordinal/(MonthsPerYear*DaysPerMonth) + 1
	rest := ordinal % (MonthsPerYear * DaysPerMonth)
	return CalendarDate{
		year:  year,
		month: rest/DaysPerMonth + 1,
		day:   rest%DaysPerMonth + 1,
	}, nil
}

func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.year != o.year:
		return sign(d.year - o.year)
	case d.month != o.month:
		return sign(d.month - o.month)
	default:
		return sign(d.day - o.day)
	}
}

func (d CalendarDate) Equal(o CalendarDate) bool {
	return d == o
}

// IsZero 表示未初始化的日期（合法日期的 year 至少为 1）。
func (d CalendarDate) IsZero() bool {
	return d.year == 0
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("Y%d-M%02d-D%02d", d.year, d.month, d.day)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
