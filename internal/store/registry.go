package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/storage"
)

// DefaultMainSchedules 返回新用户的初始主日程
func DefaultMainSchedules(ownerID int64, loc *time.Location) []domain.MainSchedule {
	return []domain.MainSchedule{
		{
			ID:        1,
			UserID:    ownerID,
			Title:     "목표 추가",
			StartTime: time.Date(2023, time.November, 16, 9, 0, 0, 0, loc),
			EndTime:   time.Date(2029, time.November, 16, 10, 0, 0, 0, loc),
			Color:     "#FF5733",
			CreatedAt: time.Date(2023, time.November, 1, 12, 0, 0, 0, loc),
			UpdatedAt: time.Date(2023, time.November, 10, 12, 0, 0, 0, loc),
		},
	}
}

// Registry 为每个用户懒加载一个独立的 Store
type Registry struct {
	mu       sync.Mutex
	storage  storage.Storage
	prefix   string
	location *time.Location
	seed     bool
	opts     []Option
	stores   map[int64]*Store
}

type RegistryOptions struct {
	KeyPrefix            string
	Location             *time.Location
	DefaultMainSchedules bool
	StoreOptions         []Option
}

func NewRegistry(st storage.Storage, opts RegistryOptions) *Registry {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "schedule-storage"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Registry{
		storage:  st,
		prefix:   opts.KeyPrefix,
		location: opts.Location,
		seed:     opts.DefaultMainSchedules,
		opts:     opts.StoreOptions,
		stores:   make(map[int64]*Store),
	}
}

func (r *Registry) Key(userID int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, userID)
}

func (r *Registry) Get(ctx context.Context, userID int64) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[userID]; ok {
		return s, nil
	}

	opts := append([]Option{WithDefaults(r.defaultsFor(userID))}, r.opts...)
	s := New(r.storage, r.Key(userID), opts...)
	if err := s.Hydrate(ctx); err != nil {
		return nil, err
	}

	r.stores[userID] = s
	return s, nil
}

func (r *Registry) defaultsFor(userID int64) func() domain.ScheduleState {
	return func() domain.ScheduleState {
		state := domain.ScheduleState{
			CurrentDate: FormatISO(time.Now()),
		}
		if r.seed {
			state.MainSchedules = DefaultMainSchedules(userID, r.location)
		}
		return state
	}
}
