package calendar

import (
	"testing"
	"time"
)

func waitForState(t *testing.T, m *Modal, want ModalState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Snapshot().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("modal state = %s, want %s", m.Snapshot().State, want)
}

func TestModalLifecycle(t *testing.T) {
	m := NewModal(10 * time.Millisecond)
	draft := sub("draft", time.Now(), time.Now().Add(15*time.Minute))

	if !m.Open(draft, Position{Top: 1, Left: 2}) {
		t.Fatal("open from closed should succeed")
	}
	snap := m.Snapshot()
	if snap.State != ModalOpen || snap.Schedule == nil || snap.Schedule.ID != "draft" || snap.IsClosing {
		t.Fatalf("snapshot after open = %+v", snap)
	}

	if !m.Close() {
		t.Fatal("close from open should succeed")
	}
	snap = m.Snapshot()
	if snap.State != ModalClosing || !snap.IsClosing || snap.Schedule == nil {
		t.Fatalf("snapshot while closing = %+v", snap)
	}
	if !m.IsOpen() {
		t.Fatal("closing modal still counts as open")
	}
	if m.Open(draft, Position{}) {
		t.Fatal("open while closing should be ignored")
	}
	if m.Close() {
		t.Fatal("second close should be ignored")
	}

	waitForState(t, m, ModalClosed)
	snap = m.Snapshot()
	if snap.Schedule != nil || snap.IsClosing || snap.Position != (Position{}) {
		t.Fatalf("snapshot after close = %+v", snap)
	}
}

func TestModalStopCancelsPendingClose(t *testing.T) {
	m := NewModal(time.Hour)
	m.Open(sub("draft", time.Now(), time.Now()), Position{})
	m.Close()

	m.Stop()
	if m.IsOpen() {
		t.Fatal("stop should reset the modal")
	}

	// 新打开的弹窗不会被旧计时器关闭
	m.Open(sub("next", time.Now(), time.Now()), Position{})
	if m.Snapshot().State != ModalOpen {
		t.Fatal("modal should be open")
	}
}

func TestModalDefaultDelay(t *testing.T) {
	if m := NewModal(0); m.delay != DefaultCloseDelay {
		t.Fatalf("delay = %v, want %v", m.delay, DefaultCloseDelay)
	}
}
