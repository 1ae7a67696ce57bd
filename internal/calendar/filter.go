package calendar

import (
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

// Overlaps 判断 [start, end] 是否与 [weekStart, weekEnd] 相交：
// 开始时间落在周内、结束时间落在周内，或者整段覆盖这一周
func Overlaps(start, end, weekStart, weekEnd time.Time) bool {
	startInWeek := !start.Before(weekStart) && !start.After(weekEnd)
	endInWeek := !end.Before(weekStart) && !end.After(weekEnd)
	coversWeek := !start.After(weekStart) && !end.Before(weekEnd)
	return startInWeek || endInWeek || coversWeek
}

// FilterSubSchedules 每次都基于当前集合重新计算，不做缓存。
// showPast 为 false 时隐藏在今天 00:00 之前就已结束的日程。
func FilterSubSchedules(subs []domain.SubSchedule, weekStart, weekEnd time.Time, showPast bool, now time.Time, loc *time.Location) []domain.SubSchedule {
	today := StartOfDay(now, loc)

	out := make([]domain.SubSchedule, 0, len(subs))
	for _, sub := range subs {
		if !Overlaps(sub.StartTime, sub.EndTime, weekStart, weekEnd) {
			continue
		}
		if !showPast && sub.EndTime.Before(today) {
			continue
		}
		out = append(out, sub)
	}
	return out
}
