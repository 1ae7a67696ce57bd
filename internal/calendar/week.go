// Package calendar 负责周视图的日期计算、日程筛选与布局，以及点击创建和弹窗状态。
package calendar

import (
	"time"
)

const (
	DaysPerWeek = 7
	HoursPerDay = 24
	// MinutesPerDay 一天的总分钟数，布局百分比以此为分母
	MinutesPerDay = HoursPerDay * 60
)

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekBounds 返回 t 所在周的起止时间：周一 00:00 到周日 23:59:59.999
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	day := StartOfDay(t, loc)
	start := day.AddDate(0, 0, -DayIndex(day))
	end := start.AddDate(0, 0, DaysPerWeek).Add(-time.Millisecond)
	return start, end
}

// DayIndex 周一为 0，周日为 6
func DayIndex(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 6
	}
	return int(t.Weekday()) - 1
}

// ParseWeekDate 解析日期选择框的 yyyy-MM-dd 值
func ParseWeekDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, loc)
}

// Navigator 保存当前显示的周
type Navigator struct {
	currentWeek time.Time
	location    *time.Location
}

func NewNavigator(currentWeek time.Time, loc *time.Location) *Navigator {
	return &Navigator{currentWeek: currentWeek.In(loc), location: loc}
}

func (n *Navigator) CurrentWeek() time.Time {
	return n.currentWeek
}

func (n *Navigator) SetPrevWeek() {
	n.currentWeek = n.currentWeek.AddDate(0, 0, -DaysPerWeek)
}

func (n *Navigator) SetNextWeek() {
	n.currentWeek = n.currentWeek.AddDate(0, 0, DaysPerWeek)
}

// SetWeek 不做校验，周视图会自动对齐到该日期所在的周
func (n *Navigator) SetWeek(t time.Time) {
	n.currentWeek = t.In(n.location)
}

func (n *Navigator) WeekStart() time.Time {
	start, _ := WeekBounds(n.currentWeek, n.location)
	return start
}

func (n *Navigator) WeekEnd() time.Time {
	_, end := WeekBounds(n.currentWeek, n.location)
	return end
}
