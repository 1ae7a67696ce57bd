package calendar

import (
	"errors"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

var ErrModalNotOpen = errors.New("calendar: modal is not open")

// ScheduleStore 是会话需要的存储能力
type ScheduleStore interface {
	SubSchedules() []domain.SubSchedule
	ShowPastSchedules() bool
	SaveSubSchedule(record domain.SubSchedule) domain.SubSchedule
}

type ClickAction string

const (
	ClickOpened ClickAction = "opened"
	ClickClosed ClickAction = "closed"
)

type ClickResult struct {
	Action   ClickAction         `json:"action"`
	Draft    *domain.SubSchedule `json:"draft"`
	Position Position            `json:"position"`
}

// Session 对应一个用户的周视图：当前周、弹窗状态以及背后的日程存储
type Session struct {
	mu       sync.Mutex
	nav      *Navigator
	modal    *Modal
	store    ScheduleStore
	location *time.Location
	now      func() time.Time
}

type SessionOptions struct {
	Location   *time.Location
	CloseDelay time.Duration
	Now        func() time.Time
}

func NewSession(store ScheduleStore, opts SessionOptions) *Session {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Session{
		nav:      NewNavigator(opts.Now(), opts.Location),
		modal:    NewModal(opts.CloseDelay),
		store:    store,
		location: opts.Location,
		now:      opts.Now,
	}
}

func (s *Session) View() WeekView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() WeekView {
	return BuildWeekView(s.nav.CurrentWeek(), s.store.SubSchedules(), s.store.ShowPastSchedules(), s.now(), s.location)
}

func (s *Session) PrevWeek() WeekView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nav.SetPrevWeek()
	return s.viewLocked()
}

func (s *Session) NextWeek() WeekView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nav.SetNextWeek()
	return s.viewLocked()
}

func (s *Session) SetWeek(t time.Time) WeekView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nav.SetWeek(t)
	return s.viewLocked()
}

func (s *Session) CurrentWeek() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.CurrentWeek()
}

// Click 处理对空白单元格的点击。弹窗已打开（包括正在关闭）时只关闭弹窗，不创建新的草稿。
// 关闭弹窗的点击不需要落在合法的单元格内。
func (s *Session) Click(click GridClick) (ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modal.IsOpen() {
		s.modal.Close()
		return ClickResult{Action: ClickClosed}, nil
	}

	quarter, err := ResolveClick(click)
	if err != nil {
		return ClickResult{}, err
	}

	draft := NewDraft(s.nav.WeekStart(), click.DayIndex, click.Hour, quarter, s.location)
	pos := AnchorPosition(click)

	if !s.modal.Open(draft, pos) {
		return ClickResult{Action: ClickClosed}, nil
	}
	return ClickResult{Action: ClickOpened, Draft: &draft, Position: pos}, nil
}

func (s *Session) CloseModal() bool {
	return s.modal.Close()
}

func (s *Session) Modal() ModalSnapshot {
	return s.modal.Snapshot()
}

// SubmitModal 保存弹窗中的日程并开始关闭弹窗，record 为空时保存原始草稿
func (s *Session) SubmitModal(record *domain.SubSchedule) (domain.SubSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.modal.Snapshot()
	if snapshot.State != ModalOpen || snapshot.Schedule == nil {
		return domain.SubSchedule{}, ErrModalNotOpen
	}

	toSave := *snapshot.Schedule
	if record != nil {
		toSave = *record
	}
	saved := s.store.SaveSubSchedule(toSave)
	s.modal.Close()

	return saved, nil
}

func (s *Session) Stop() {
	s.modal.Stop()
}

// SessionManager 按用户 ID 保存会话
type SessionManager struct {
	mu       sync.Mutex
	opts     SessionOptions
	sessions map[int64]*Session
}

func NewSessionManager(opts SessionOptions) *SessionManager {
	return &SessionManager{
		opts:     opts,
		sessions: make(map[int64]*Session),
	}
}

func (m *SessionManager) Get(userID int64, store ScheduleStore) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := NewSession(store, m.opts)
	m.sessions[userID] = s
	return s
}

// Remove 在登出时销毁会话，并取消未完成的弹窗计时器
func (m *SessionManager) Remove(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		s.Stop()
		delete(m.sessions, userID)
	}
}

func (m *SessionManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.Stop()
		delete(m.sessions, id)
	}
}
