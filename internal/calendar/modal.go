package calendar

import (
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
)

type ModalState string

const (
	ModalClosed  ModalState = "closed"
	ModalOpen    ModalState = "open"
	ModalClosing ModalState = "closing"
)

// DefaultCloseDelay 与前端关闭动画的时长一致
const DefaultCloseDelay = 400 * time.Millisecond

type ModalSnapshot struct {
	State     ModalState          `json:"state"`
	Schedule  *domain.SubSchedule `json:"schedule"`
	Position  Position            `json:"position"`
	IsClosing bool                `json:"isClosing"`
}

// Modal 是日程弹窗的状态机：Closed -> Open -> Closing(计时器) -> Closed。
// Closing 期间弹窗仍视为打开，新的点击不会打开新的弹窗。
type Modal struct {
	mu       sync.Mutex
	state    ModalState
	schedule *domain.SubSchedule
	position Position
	delay    time.Duration
	timer    *time.Timer
}

func NewModal(delay time.Duration) *Modal {
	if delay <= 0 {
		delay = DefaultCloseDelay
	}
	return &Modal{state: ModalClosed, delay: delay}
}

// Open 只有在 Closed 状态下才会生效
func (m *Modal) Open(schedule domain.SubSchedule, pos Position) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != ModalClosed {
		return false
	}
	m.state = ModalOpen
	m.schedule = &schedule
	m.position = pos
	return true
}

// Close 进入 Closing 状态，延迟结束后清空选中的日程并回到 Closed
func (m *Modal) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != ModalOpen {
		return false
	}
	m.state = ModalClosing

	var timer *time.Timer
	timer = time.AfterFunc(m.delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		// 计时器已被 Stop 或替换
		if m.timer != timer {
			return
		}
		m.reset()
	})
	m.timer = timer
	return true
}

// Stop 用于提前销毁，取消尚未触发的计时器
func (m *Modal) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.reset()
}

func (m *Modal) reset() {
	m.state = ModalClosed
	m.schedule = nil
	m.position = Position{}
	m.timer = nil
}

// IsOpen 在 Open 和 Closing 状态下都返回 true
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != ModalClosed
}

func (m *Modal) Snapshot() ModalSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := ModalSnapshot{
		State:     m.state,
		Position:  m.position,
		IsClosing: m.state == ModalClosing,
	}
	if m.schedule != nil {
		copied := *m.schedule
		snapshot.Schedule = &copied
	}
	return snapshot
}
