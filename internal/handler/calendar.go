package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取周视图成功", sessionFrom(r).View())
}

func (h *Handler) PrevWeek(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "已切换到上一周", sessionFrom(r).PrevWeek())
}

func (h *Handler) NextWeek(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "已切换到下一周", sessionFrom(r).NextWeek())
}

func (h *Handler) SetWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date" validate:"required"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := calendar.ParseWeekDate(req.Date, h.location)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误，应为 yyyy-MM-dd")
		return
	}

	h.successResponse(w, r, "已切换周", sessionFrom(r).SetWeek(date))
}

func (h *Handler) ClickGrid(w http.ResponseWriter, r *http.Request) {
	var req calendar.GridClick
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := sessionFrom(r).Click(req)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidCell):
			h.errorResponse(w, r, "无效的单元格")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "已处理点击", result)
}

func (h *Handler) GetModal(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取弹窗状态成功", sessionFrom(r).Modal())
}

func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	session.CloseModal()

	h.successResponse(w, r, "弹窗正在关闭", session.Modal())
}

// SubmitModal 请求体可以为空，此时保存点击时生成的草稿
func (h *Handler) SubmitModal(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req subScheduleRequest
	hasBody, err := h.readOptionalJSON(w, r, &req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var record *domain.SubSchedule
	if hasBody {
		if err := h.validateSubSchedule(req); err != nil {
			h.badRequest(w, r, err)
			return
		}
		sub := req.toDomain()
		record = &sub
	}

	saved, err := sessionFrom(r).SubmitModal(record)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrModalNotOpen):
			h.errorResponse(w, r, "弹窗未打开")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyScheduleCreated(myInfo, "sub", saved.Title, saved.StartTime, saved.EndTime)

	h.successResponse(w, r, "保存日程成功", saved)
}

func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	st := scheduleStoreFrom(r)
	body := calendar.ExportICS(st.MainSchedules(), st.SubSchedules(), h.now())

	userID, _ := currentUserID(r)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="week-planner-%d.ics"`, userID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logInternalServerError(r, err)
	}
}
