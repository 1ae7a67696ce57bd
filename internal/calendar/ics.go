package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

const icsProductID = "-//sysu-ecnc-dev//week-planner//KO"

// ExportICS 将主日程和子日程导出为 iCalendar 文本
func ExportICS(mains []domain.MainSchedule, subs []domain.SubSchedule, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, m := range mains {
		event := cal.AddEvent(fmt.Sprintf("main-%d@week-planner", m.ID))
		event.SetDtStampTime(now)
		event.SetCreatedTime(m.CreatedAt)
		event.SetModifiedAt(m.UpdatedAt)
		event.SetStartAt(m.StartTime)
		event.SetEndAt(m.EndTime)
		event.SetSummary(m.Title)
		if m.Color != "" {
			event.SetColor(m.Color)
		}
	}

	for _, sub := range subs {
		event := cal.AddEvent(fmt.Sprintf("sub-%s@week-planner", sub.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(sub.StartTime)
		event.SetEndAt(sub.EndTime)
		event.SetSummary(sub.Title)
		if sub.Description != "" {
			event.SetDescription(sub.Description)
		}
		if sub.MainSchedule != "" {
			event.AddProperty(ics.ComponentPropertyCategories, sub.MainSchedule)
		}
		if sub.Color != "" {
			event.SetColor(sub.Color)
		}
	}

	return cal.Serialize()
}
