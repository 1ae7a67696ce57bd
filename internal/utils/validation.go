package utils

import (
	"errors"
	"time"
)

// ValidateScheduleTime 检查日程的结束时间不早于开始时间
func ValidateScheduleTime(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.New("开始时间和结束时间不能为空")
	}
	if end.Before(start) {
		return errors.New("结束时间不能早于开始时间")
	}
	return nil
}
