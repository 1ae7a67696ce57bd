// Package seed 负责向数据库和日程存储中写入演示数据
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/utils"
)

// UserCreator 由 repository.Repository 实现
type UserCreator interface {
	CreateUser(ctx context.Context, user *domain.User) error
}

// SeedRandomUsers 插入 n 个随机用户，返回成功插入的数量
func SeedRandomUsers(ctx context.Context, repo UserCreator, n int, password, emailDomain string) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain)
		if err != nil {
			slog.Error("无法生成随机用户", "error", err)
			continue
		}

		if err := repo.CreateUser(ctx, user); err != nil {
			slog.Error("无法插入用户", "username", user.Username, "error", err)
			continue
		}

		cnt++
	}
	return cnt
}

// SeedRandomSubSchedules 为用户在 weekStart 所在周生成 n 个随机子日程并持久化
func SeedRandomSubSchedules(ctx context.Context, registry *store.Registry, userID int64, weekStart time.Time, n int) (int, error) {
	st, err := registry.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	for _, sub := range utils.GenerateRandomSubSchedules(weekStart, n, calendar.DefaultMainSchedule) {
		st.SaveSubSchedule(sub)
	}
	return n, nil
}

var requiredColumns = []string{"title", "start_time", "end_time"}

// 支持 ISO 时间，以及按配置时区解释的本地时间
var localLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05"}

func parseTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := store.ParseISO(value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间 %q", value)
}

// ReadSubSchedulesCSV 从 CSV 中读取子日程。
// 表头必须包含 title、start_time、end_time，main_schedule、description、color、status 可选。
func ReadSubSchedulesCSV(r io.Reader, loc *time.Location) ([]domain.SubSchedule, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}
	for _, column := range requiredColumns {
		if !slices.Contains(headers, column) {
			return nil, fmt.Errorf("缺少列 %s", column)
		}
	}

	subs := make([]domain.SubSchedule, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}

		start, err := parseTime(record["start_time"], loc)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}
		end, err := parseTime(record["end_time"], loc)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}
		if err := utils.ValidateScheduleTime(start, end); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		sub := domain.SubSchedule{
			MainSchedule: record["main_schedule"],
			Title:        record["title"],
			StartTime:    start,
			EndTime:      end,
			Description:  record["description"],
			Color:        record["color"],
			Status:       record["status"],
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
		subs = append(subs, sub)
	}

	return subs, nil
}

// ImportSubSchedules 将 CSV 中的子日程追加到用户的日程中
func ImportSubSchedules(ctx context.Context, registry *store.Registry, userID int64, r io.Reader, loc *time.Location) (int, error) {
	subs, err := ReadSubSchedulesCSV(r, loc)
	if err != nil {
		return 0, err
	}

	st, err := registry.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	for _, sub := range subs {
		st.SaveSubSchedule(sub)
	}
	return len(subs), nil
}
