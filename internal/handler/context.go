package handler

import (
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"
)

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	UserInfoCtx      ContextKey = "userInfo"
	ScheduleStoreCtx ContextKey = "scheduleStore"
	SessionCtx       ContextKey = "calendarSession"
)

func currentUserID(r *http.Request) (int64, error) {
	sub := r.Context().Value(SubCtxKey).(string)
	return strconv.ParseInt(sub, 10, 64)
}

func scheduleStoreFrom(r *http.Request) *store.Store {
	return r.Context().Value(ScheduleStoreCtx).(*store.Store)
}

func sessionFrom(r *http.Request) *calendar.Session {
	return r.Context().Value(SessionCtx).(*calendar.Session)
}
