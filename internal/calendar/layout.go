package calendar

import (
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

const (
	// GutterPx 每个日程块宽度减去的像素
	GutterPx = 1
	// BlockZIndex 日程块绘制在网格线之上
	BlockZIndex = 5
)

// Block 是一个日程在 7 天 × 24 小时网格中的位置。
// 重叠的日程不做分道，按 Order 依次绘制，后面的覆盖前面的。
type Block struct {
	Schedule      domain.SubSchedule `json:"schedule"`
	Order         int                `json:"order"`
	DayIndex      int                `json:"dayIndex"`
	TopPercent    float64            `json:"topPercent"`
	HeightPercent float64            `json:"heightPercent"`
	LeftPercent   float64            `json:"leftPercent"`
	WidthPercent  float64            `json:"widthPercent"`
	GutterPx      int                `json:"gutterPx"`
	ZIndex        int                `json:"zIndex"`
}

func LayoutBlock(sub domain.SubSchedule, order int, loc *time.Location) Block {
	start := sub.StartTime.In(loc)
	dayIndex := DayIndex(start)

	fromMidnight := start.Sub(StartOfDay(start, loc))
	top := float64(fromMidnight.Milliseconds()) / float64(MinutesPerDay*60000) * 100

	// 与 differenceInMinutes 一致，向零截断为整分钟
	minutes := int64(sub.EndTime.Sub(sub.StartTime) / time.Minute)
	height := float64(minutes) / MinutesPerDay * 100

	return Block{
		Schedule:      sub,
		Order:         order,
		DayIndex:      dayIndex,
		TopPercent:    top,
		HeightPercent: height,
		LeftPercent:   float64(dayIndex) * (100.0 / DaysPerWeek),
		WidthPercent:  100.0 / DaysPerWeek,
		GutterPx:      GutterPx,
		ZIndex:        BlockZIndex,
	}
}

func LayoutBlocks(subs []domain.SubSchedule, loc *time.Location) []Block {
	blocks := make([]Block, 0, len(subs))
	for i, sub := range subs {
		blocks = append(blocks, LayoutBlock(sub, i, loc))
	}
	return blocks
}
