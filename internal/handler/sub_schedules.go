package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/utils"
)

type subScheduleRequest struct {
	ID           string    `json:"id"`
	MainSchedule string    `json:"main_schedule" validate:"max=100"`
	Title        string    `json:"title" validate:"required,max=100"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" validate:"required"`
	Description  string    `json:"description" validate:"max=1000"`
	Color        string    `json:"color" validate:"omitempty,hexcolor"`
	Status       string    `json:"status" validate:"max=20"`
}

// toDomain 缺省字段使用与点击创建相同的默认值
func (req subScheduleRequest) toDomain() domain.SubSchedule {
	sub := domain.SubSchedule{
		ID:           req.ID,
		MainSchedule: req.MainSchedule,
		Title:        req.Title,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Description:  req.Description,
		Color:        req.Color,
		Status:       req.Status,
	}
	if sub.MainSchedule == "" {
		sub.MainSchedule = calendar.DefaultMainSchedule
	}
	if sub.Color == "" {
		sub.Color = calendar.DefaultDraftColor
	}
	if sub.Status == "" {
		sub.Status = calendar.DefaultDraftStatus
	}
	return sub
}

func (h *Handler) validateSubSchedule(req subScheduleRequest) error {
	if err := h.validate.Struct(req); err != nil {
		return err
	}
	return utils.ValidateScheduleTime(req.StartTime, req.EndTime)
}

func (h *Handler) GetSubSchedules(w http.ResponseWriter, r *http.Request) {
	st := scheduleStoreFrom(r)
	h.successResponse(w, r, "获取子日程成功", st.SubSchedules())
}

func (h *Handler) CreateSubSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req subScheduleRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validateSubSchedule(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	saved := scheduleStoreFrom(r).SaveSubSchedule(req.toDomain())

	h.notifyScheduleCreated(myInfo, "sub", saved.Title, saved.StartTime, saved.EndTime)

	h.successResponse(w, r, "创建子日程成功", saved)
}

// InitializeSubSchedules 用请求中的记录整体替换子日程集合
func (h *Handler) InitializeSubSchedules(w http.ResponseWriter, r *http.Request) {
	var req []subScheduleRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	records := make([]domain.SubSchedule, 0, len(req))
	for i, item := range req {
		if err := h.validateSubSchedule(item); err != nil {
			h.badRequest(w, r, fmt.Errorf("第 %d 个子日程无效: %w", i+1, h.translateError(err)))
			return
		}
		records = append(records, item.toDomain())
	}

	subs := scheduleStoreFrom(r).InitializeSubSchedules(records)

	h.successResponse(w, r, "初始化子日程成功", subs)
}

func (h *Handler) UpdateSubSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		MainSchedule *string    `json:"main_schedule" validate:"omitempty,max=100"`
		Title        *string    `json:"title" validate:"omitempty,max=100"`
		StartTime    *time.Time `json:"start_time"`
		EndTime      *time.Time `json:"end_time"`
		Description  *string    `json:"description" validate:"omitempty,max=1000"`
		Color        *string    `json:"color" validate:"omitempty,hexcolor"`
		Status       *string    `json:"status" validate:"omitempty,max=20"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patch := domain.SubSchedulePatch{
		MainSchedule: req.MainSchedule,
		Title:        req.Title,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Description:  req.Description,
		Color:        req.Color,
		Status:       req.Status,
	}

	updated, found, err := scheduleStoreFrom(r).UpdateSubScheduleChecked(id, patch, func(merged domain.SubSchedule) error {
		return utils.ValidateScheduleTime(merged.StartTime, merged.EndTime)
	})
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !found {
		h.successResponse(w, r, "子日程不存在，未做修改", nil)
		return
	}

	h.successResponse(w, r, "更新子日程成功", updated)
}

func (h *Handler) DeleteSubSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	scheduleStoreFrom(r).DeleteSubSchedule(id)

	h.successResponse(w, r, "删除子日程成功", nil)
}

func (h *Handler) ToggleShowPastSchedules(w http.ResponseWriter, r *http.Request) {
	showPast := scheduleStoreFrom(r).ToggleShowPastSchedules()

	h.successResponse(w, r, "切换成功", map[string]bool{"showPastSchedules": showPast})
}

func (h *Handler) GetSelectedSchedule(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取选中的日程成功", scheduleStoreFrom(r).SelectedSchedule())
}

// SetSelectedSchedule 请求体为 null 时清空选中
func (h *Handler) SetSelectedSchedule(w http.ResponseWriter, r *http.Request) {
	var selected *domain.SubSchedule
	if err := h.readJSON(w, r, &selected); err != nil {
		h.badRequest(w, r, err)
		return
	}

	scheduleStoreFrom(r).SetSelectedSchedule(selected)

	h.successResponse(w, r, "设置选中的日程成功", selected)
}
