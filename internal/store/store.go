// Package store 实现持久化的日程状态容器。
// 每个 Store 实例相互隔离，状态变更后整份写回存储。
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/storage"
)

var ErrDuplicateID = errors.New("store: main schedule id already exists")

type Store struct {
	mu       sync.RWMutex
	state    domain.ScheduleState
	storage  storage.Storage
	key      string
	schema   Schema
	timeout  time.Duration
	defaults func() domain.ScheduleState
}

type Option func(*Store)

func WithSchema(schema Schema) Option {
	return func(s *Store) { s.schema = schema }
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) { s.timeout = timeout }
}

// WithDefaults 指定存储中没有数据（或数据损坏）时使用的初始状态
func WithDefaults(fn func() domain.ScheduleState) Option {
	return func(s *Store) { s.defaults = fn }
}

func New(st storage.Storage, key string, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     key,
		schema:  DefaultSchema,
		timeout: 5 * time.Second,
		defaults: func() domain.ScheduleState {
			return domain.ScheduleState{CurrentDate: FormatISO(time.Now())}
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = normalize(s.defaults())
	return s
}

func (s *Store) Key() string {
	return s.key
}

// Hydrate 从存储中恢复状态。
// 键不存在时使用初始状态；文档损坏时记录日志并回退到初始状态，只有读取本身失败才返回错误。
func (s *Store) Hydrate(ctx context.Context) error {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	var state domain.ScheduleState
	if err := s.schema.Decode(data, &state); err != nil {
		slog.Error("日程数据已损坏，使用初始状态", "key", s.key, "error", err)
		return nil
	}

	s.mu.Lock()
	s.state = normalize(state)
	s.mu.Unlock()

	return nil
}

// persist 必须在持有写锁时调用。写入失败只记录日志，不回滚内存中的修改。
func (s *Store) persist() {
	data, err := s.schema.Encode(s.state)
	if err != nil {
		slog.Error("无法序列化日程数据", "key", s.key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		slog.Error("无法写入日程数据", "key", s.key, "error", err)
	}
}

/**********************************************
 * 子日程
 **********************************************/

// InitializeSubSchedules 整体替换子日程集合，缺少 ID 的记录会被分配新 ID
func (s *Store) InitializeSubSchedules(records []domain.SubSchedule) []domain.SubSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]domain.SubSchedule, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		subs[i] = rec
	}
	s.state.SubSchedules = subs
	s.persist()

	return slices.Clone(subs)
}

// SaveSubSchedule 追加一条子日程，不做去重
func (s *Store) SaveSubSchedule(record domain.SubSchedule) domain.SubSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.state.SubSchedules = append(s.state.SubSchedules, record)
	s.persist()

	return record
}

// UpdateSubSchedule 按 ID 合并更新，ID 不存在时不做任何修改并返回 false
func (s *Store) UpdateSubSchedule(id string, patch domain.SubSchedulePatch) (domain.SubSchedule, bool) {
	updated, found, _ := s.UpdateSubScheduleChecked(id, patch, nil)
	return updated, found
}

// UpdateSubScheduleChecked 在写锁内对合并后的结果调用 check，check 返回错误时不做任何修改
func (s *Store) UpdateSubScheduleChecked(id string, patch domain.SubSchedulePatch, check func(domain.SubSchedule) error) (domain.SubSchedule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.state.SubSchedules, func(sub domain.SubSchedule) bool {
		return sub.ID == id
	})
	if idx < 0 {
		return domain.SubSchedule{}, false, nil
	}

	merged := patch.Apply(s.state.SubSchedules[idx])
	if check != nil {
		if err := check(merged); err != nil {
			return domain.SubSchedule{}, true, err
		}
	}

	s.state.SubSchedules[idx] = merged
	s.persist()

	return merged, true, nil
}

func (s *Store) DeleteSubSchedule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.state.SubSchedules)
	s.state.SubSchedules = slices.DeleteFunc(s.state.SubSchedules, func(sub domain.SubSchedule) bool {
		return sub.ID == id
	})
	if len(s.state.SubSchedules) == before {
		return false
	}

	if s.state.SelectedSchedule != nil && s.state.SelectedSchedule.ID == id {
		s.state.SelectedSchedule = nil
	}
	s.persist()

	return true
}

/**********************************************
 * 主日程
 **********************************************/

// AddMainSchedule 追加主日程。ID 为 0 时分配当前最大 ID + 1，ID 重复时返回 ErrDuplicateID。
func (s *Store) AddMainSchedule(record domain.MainSchedule) (domain.MainSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == 0 {
		record.ID = s.nextMainID()
	} else if slices.ContainsFunc(s.state.MainSchedules, func(m domain.MainSchedule) bool {
		return m.ID == record.ID
	}) {
		return domain.MainSchedule{}, ErrDuplicateID
	}

	s.state.MainSchedules = append(s.state.MainSchedules, record)
	s.persist()

	return record, nil
}

func (s *Store) nextMainID() int64 {
	var maxID int64
	for _, m := range s.state.MainSchedules {
		maxID = max(maxID, m.ID)
	}
	return maxID + 1
}

// UpdateMainSchedule 按 ID 合并字段，ID 不存在时集合保持不变
func (s *Store) UpdateMainSchedule(patch domain.MainSchedulePatch) (domain.MainSchedule, bool) {
	updated, found, _ := s.UpdateMainScheduleChecked(patch, nil)
	return updated, found
}

// UpdateMainScheduleChecked 与 UpdateMainSchedule 相同，但先在写锁内对合并结果调用 check，
// 任意一条合并结果未通过检查时不做任何修改
func (s *Store) UpdateMainScheduleChecked(patch domain.MainSchedulePatch, check func(domain.MainSchedule) error) (domain.MainSchedule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var indexes []int
	for i, m := range s.state.MainSchedules {
		if m.ID == patch.ID {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return domain.MainSchedule{}, false, nil
	}

	merged := make([]domain.MainSchedule, len(indexes))
	for j, i := range indexes {
		merged[j] = patch.Apply(s.state.MainSchedules[i])
		if check != nil {
			if err := check(merged[j]); err != nil {
				return domain.MainSchedule{}, true, err
			}
		}
	}

	for j, i := range indexes {
		s.state.MainSchedules[i] = merged[j]
	}
	s.persist()

	return merged[len(merged)-1], true, nil
}

// DeleteMainSchedule 删除所有匹配 ID 的主日程，不存在时不报错
func (s *Store) DeleteMainSchedule(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.state.MainSchedules)
	s.state.MainSchedules = slices.DeleteFunc(s.state.MainSchedules, func(m domain.MainSchedule) bool {
		return m.ID == id
	})
	if len(s.state.MainSchedules) == before {
		return false
	}
	s.persist()

	return true
}

/**********************************************
 * 其他状态
 **********************************************/

func (s *Store) ToggleShowPastSchedules() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ShowPastSchedules = !s.state.ShowPastSchedules
	s.persist()

	return s.state.ShowPastSchedules
}

func (s *Store) SetSelectedSchedule(schedule *domain.SubSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule != nil {
		copied := *schedule
		schedule = &copied
	}
	s.state.SelectedSchedule = schedule
	s.persist()
}

func (s *Store) MainSchedules() []domain.MainSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.MainSchedules)
}

func (s *Store) SubSchedules() []domain.SubSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.SubSchedules)
}

func (s *Store) ShowPastSchedules() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ShowPastSchedules
}

func (s *Store) SelectedSchedule() *domain.SubSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.SelectedSchedule == nil {
		return nil
	}
	copied := *s.state.SelectedSchedule
	return &copied
}

// Snapshot 返回完整状态的深拷贝
func (s *Store) Snapshot() domain.ScheduleState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state
	snapshot.MainSchedules = slices.Clone(s.state.MainSchedules)
	snapshot.SubSchedules = slices.Clone(s.state.SubSchedules)
	if s.state.SelectedSchedule != nil {
		copied := *s.state.SelectedSchedule
		snapshot.SelectedSchedule = &copied
	}
	return snapshot
}

func normalize(state domain.ScheduleState) domain.ScheduleState {
	if state.MainSchedules == nil {
		state.MainSchedules = make([]domain.MainSchedule, 0)
	}
	if state.SubSchedules == nil {
		state.SubSchedules = make([]domain.SubSchedule, 0)
	}
	// 旧数据中的子日程没有 ID
	for i := range state.SubSchedules {
		if state.SubSchedules[i].ID == "" {
			state.SubSchedules[i].ID = uuid.NewString()
		}
	}
	return state
}
