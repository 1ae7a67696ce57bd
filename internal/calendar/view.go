package calendar

import (
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

type DayHeader struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	DayOfMonth int    `json:"dayOfMonth"`
	IsToday    bool   `json:"isToday"`
}

type WeekView struct {
	CurrentWeek       string      `json:"currentWeek"` // 日期选择框的值
	MonthLabel        string      `json:"monthLabel"`
	WeekStart         time.Time   `json:"weekStart"`
	WeekEnd           time.Time   `json:"weekEnd"`
	Days              []DayHeader `json:"days"`
	HourLabels        []string    `json:"hourLabels"`
	ShowPastSchedules bool        `json:"showPastSchedules"`
	Blocks            []Block     `json:"blocks"`
}

// BuildWeekView 计算可见范围、筛选并布局子日程
func BuildWeekView(currentWeek time.Time, subs []domain.SubSchedule, showPast bool, now time.Time, loc *time.Location) WeekView {
	currentWeek = currentWeek.In(loc)
	weekStart, weekEnd := WeekBounds(currentWeek, loc)
	today := StartOfDay(now, loc)

	days := make([]DayHeader, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		day := weekStart.AddDate(0, 0, i)
		days = append(days, DayHeader{
			Date:       day.Format(time.DateOnly),
			Weekday:    day.Format("Mon"),
			DayOfMonth: day.Day(),
			IsToday:    day.Equal(today),
		})
	}

	visible := FilterSubSchedules(subs, weekStart, weekEnd, showPast, now, loc)

	return WeekView{
		CurrentWeek:       currentWeek.Format(time.DateOnly),
		MonthLabel:        currentWeek.Format("January 2006"),
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		Days:              days,
		HourLabels:        HourLabels(),
		ShowPastSchedules: showPast,
		Blocks:            LayoutBlocks(visible, loc),
	}
}

// HourLabels 返回时间轴标签，0 点不显示
func HourLabels() []string {
	labels := make([]string, HoursPerDay)
	for hour := 1; hour < HoursPerDay; hour++ {
		t := time.Date(2000, time.January, 1, hour, 0, 0, 0, time.UTC)
		labels[hour] = strings.ToLower(t.Format("3PM"))
	}
	return labels
}
