package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/utils"
)

func (h *Handler) GetMainSchedules(w http.ResponseWriter, r *http.Request) {
	st := scheduleStoreFrom(r)
	h.successResponse(w, r, "获取主日程成功", st.MainSchedules())
}

func (h *Handler) CreateMainSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		ID        int64     `json:"main_schedule_id" validate:"gte=0"`
		Title     string    `json:"title" validate:"required,max=100"`
		StartTime time.Time `json:"start_time" validate:"required"`
		EndTime   time.Time `json:"end_time" validate:"required"`
		Color     string    `json:"color" validate:"required,hexcolor"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateScheduleTime(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	now := h.now()
	created, err := scheduleStoreFrom(r).AddMainSchedule(domain.MainSchedule{
		ID:        req.ID,
		UserID:    myInfo.ID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateID):
			h.errorResponse(w, r, "主日程ID已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyScheduleCreated(myInfo, "main", created.Title, created.StartTime, created.EndTime)

	h.successResponse(w, r, "创建主日程成功", created)
}

func (h *Handler) mainScheduleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) UpdateMainSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := h.mainScheduleID(r)
	if err != nil {
		h.errorResponse(w, r, "主日程ID无效")
		return
	}

	var req struct {
		Title     *string    `json:"title" validate:"omitempty,max=100"`
		StartTime *time.Time `json:"start_time"`
		EndTime   *time.Time `json:"end_time"`
		Color     *string    `json:"color" validate:"omitempty,hexcolor"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	now := h.now()
	patch := domain.MainSchedulePatch{
		ID:        id,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Color:     req.Color,
		UpdatedAt: &now,
	}

	// 时间范围在合并之后、写入之前检查
	updated, found, err := scheduleStoreFrom(r).UpdateMainScheduleChecked(patch, func(merged domain.MainSchedule) error {
		return utils.ValidateScheduleTime(merged.StartTime, merged.EndTime)
	})
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !found {
		// ID 不存在时不做修改，也不视为错误
		h.successResponse(w, r, "主日程不存在，未做修改", nil)
		return
	}

	h.successResponse(w, r, "更新主日程成功", updated)
}

func (h *Handler) DeleteMainSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := h.mainScheduleID(r)
	if err != nil {
		h.errorResponse(w, r, "主日程ID无效")
		return
	}

	// ID 不存在时同样视为成功
	scheduleStoreFrom(r).DeleteMainSchedule(id)

	h.successResponse(w, r, "删除主日程成功", nil)
}
