package domain

import "time"

// MainSchedule 是带有唯一 ID 的顶层目标
type MainSchedule struct {
	ID        int64     `json:"main_schedule_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MainSchedulePatch 用于按 ID 合并更新，nil 字段保持原值
type MainSchedulePatch struct {
	ID        int64      `json:"main_schedule_id"`
	UserID    *int64     `json:"user_id"`
	Title     *string    `json:"title"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Color     *string    `json:"color"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Apply 将 patch 中非空的字段合并到 s 上
func (p MainSchedulePatch) Apply(s MainSchedule) MainSchedule {
	if p.UserID != nil {
		s.UserID = *p.UserID
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.CreatedAt != nil {
		s.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		s.UpdatedAt = *p.UpdatedAt
	}
	return s
}

// SubSchedule 是周视图上渲染的具体时间块
type SubSchedule struct {
	ID           string    `json:"id"`
	MainSchedule string    `json:"main_schedule"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	Status       string    `json:"status"`
}

type SubSchedulePatch struct {
	MainSchedule *string    `json:"main_schedule"`
	Title        *string    `json:"title"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Description  *string    `json:"description"`
	Color        *string    `json:"color"`
	Status       *string    `json:"status"`
}

func (p SubSchedulePatch) Apply(s SubSchedule) SubSchedule {
	if p.MainSchedule != nil {
		s.MainSchedule = *p.MainSchedule
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	return s
}

// ScheduleState 是持久化到存储中的完整文档
type ScheduleState struct {
	MainSchedules     []MainSchedule `json:"mainSchedules"`
	SubSchedules      []SubSchedule  `json:"subschedules"`
	ShowPastSchedules bool           `json:"showPastSchedules"`
	CurrentDate       string         `json:"currentDate"` // 不在日期字段表中，反序列化后保持字符串
	SelectedSchedule  *SubSchedule   `json:"selectedSchedule"`
}
