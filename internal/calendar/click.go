package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

var ErrInvalidCell = errors.New("calendar: invalid grid cell")

const (
	SlotMinutes          = 15
	SlotsPerHour         = 60 / SlotMinutes
	DefaultDraftDuration = SlotMinutes * time.Minute

	DefaultMainSchedule = "기본일정(default)"
	DefaultDraftColor   = "#eeeaff"
	DefaultDraftStatus  = "진행중"
)

type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Height float64 `json:"height"`
}

type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// GridClick 描述一次对空白网格单元的点击，坐标均为浏览器视口坐标
type GridClick struct {
	DayIndex int     `json:"dayIndex"`
	Hour     int     `json:"hour"`
	ClientY  float64 `json:"clientY"`
	Cell     Rect    `json:"cell"`
	ScrollX  float64 `json:"scrollX"`
	ScrollY  float64 `json:"scrollY"`
}

func (c GridClick) Validate() error {
	if c.DayIndex < 0 || c.DayIndex >= DaysPerWeek {
		return fmt.Errorf("%w: day index %d", ErrInvalidCell, c.DayIndex)
	}
	if c.Hour < 0 || c.Hour >= HoursPerDay {
		return fmt.Errorf("%w: hour %d", ErrInvalidCell, c.Hour)
	}
	if c.Cell.Height <= 0 {
		return fmt.Errorf("%w: cell height %v", ErrInvalidCell, c.Cell.Height)
	}
	return nil
}

// Quarter 根据点击在单元格内的纵向偏移计算所在的 15 分钟段 (0~3)。
// 向下取整：点击单元格 40% 处是第 24 分钟，落在第 1 段 (x:15)，而不是 x:30。
func Quarter(offsetY, cellHeight float64) int {
	minutes := offsetY / cellHeight * 60
	quarter := int(math.Floor(minutes / SlotMinutes))
	return min(max(quarter, 0), SlotsPerHour-1)
}

// ResolveClick 校验点击的单元格并返回点击落在的 15 分钟段
func ResolveClick(c GridClick) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return Quarter(c.ClientY-c.Cell.Top, c.Cell.Height), nil
}

// AnchorPosition 弹窗锚定在被点击单元格的左上角，并加上页面滚动偏移
func AnchorPosition(c GridClick) Position {
	return Position{
		Top:  c.Cell.Top + c.ScrollY,
		Left: c.Cell.Left + c.ScrollX,
	}
}

// NewDraft 在 weekStart 之后第 dayIndex 天的 hour 点第 quarter 个 15 分钟段创建默认日程
func NewDraft(weekStart time.Time, dayIndex, hour, quarter int, loc *time.Location) domain.SubSchedule {
	day := weekStart.In(loc).AddDate(0, 0, dayIndex)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, quarter*SlotMinutes, 0, 0, loc)
	end := start.Add(DefaultDraftDuration)

	return domain.SubSchedule{
		MainSchedule: DefaultMainSchedule,
		Title:        fmt.Sprintf("No title %s - %s", start.Format("3:04 PM"), end.Format("3:04 PM")),
		StartTime:    start,
		EndTime:      end,
		Description:  "",
		Color:        DefaultDraftColor,
		Status:       DefaultDraftStatus,
	}
}
