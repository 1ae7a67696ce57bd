package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/apiclient"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/storage"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{nextID: 1, users: make(map[int64]domain.User)}
}

func (f *fakeRepository) add(t *testing.T, username, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     username,
		Email:        username + "@example.com",
		Role:         role,
	}
	if err := f.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return *user
}

func (f *fakeRepository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (f *fakeRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) GetAllUsers(context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*domain.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, &user)
	}
	return users, nil
}

func (f *fakeRepository) CreateUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.Version = 1
	f.nextID++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepository) UpdateUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	user.Version++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepository) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeMail struct {
	mu       sync.Mutex
	messages []domain.MailMessage
}

func (f *fakeMail) Publish(_ context.Context, msg domain.MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMail) sent() []domain.MailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.MailMessage(nil), f.messages...)
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = expiresAt
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type testEnv struct {
	handler *Handler
	repo    *fakeRepository
	mail    *fakeMail
	tokens  *fakeDenylist
	storage *storage.MemoryStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1
	cfg.Redis.OperationTimeout = 1
	cfg.RabbitMQ.PublishTimeout = 1
	cfg.Storage.Timeout = 1
	cfg.InitialAdmin.Username = "admin"
	cfg.NewUser.PasswordLength = 12
	cfg.API.LogoutPath = "/aB12Xz/odsQk"

	mem := storage.NewMemoryStorage()
	now := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)

	env := &testEnv{
		repo:    newFakeRepository(),
		mail:    &fakeMail{},
		tokens:  &fakeDenylist{revoked: make(map[string]time.Time)},
		storage: mem,
	}

	sessions := calendar.NewSessionManager(calendar.SessionOptions{
		Location:   time.UTC,
		CloseDelay: 200 * time.Millisecond,
		Now:        func() time.Time { return now },
	})
	t.Cleanup(sessions.StopAll)

	h, err := NewHandler(cfg, Dependencies{
		Repository: env.repo,
		Mail:       env.mail,
		Tokens:     env.tokens,
		Registry: store.NewRegistry(mem, store.RegistryOptions{
			Location:             time.UTC,
			DefaultMainSchedules: true,
		}),
		Sessions: sessions,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	h.RegisterRoutes()
	env.handler = h

	return env
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) call(t *testing.T, method, path string, body any, cookie *http.Cookie) testResponse {
	t.Helper()
	rec := e.do(t, method, path, body, cookie)

	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return resp
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password}, nil)

	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login as %s did not set a token cookie: %s", username, rec.Body.String())
	return nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func mustSucceed(t *testing.T, resp testResponse) {
	t.Helper()
	if !resp.Success {
		t.Fatalf("request failed: %s", resp.Message)
	}
}

func decodeData[T any](t *testing.T, resp testResponse) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
	return v
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)

	resp := env.call(t, http.MethodPost, "/auth/login", map[string]string{"username": "minjun", "password": "nope"}, nil)
	if resp.Success || resp.Message != "用户名不存在或密码错误" {
		t.Fatalf("resp = %+v", resp)
	}

	resp = env.call(t, http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "password"}, nil)
	if resp.Success {
		t.Fatal("unknown user should not log in")
	}
}

func TestLoginValidatesRequest(t *testing.T) {
	env := newTestEnv(t)

	resp := env.call(t, http.MethodPost, "/auth/login", map[string]string{"username": "minjun"}, nil)
	if resp.Success || !strings.Contains(resp.Message, "Password") {
		t.Fatalf("resp = %+v", resp)
	}

	resp = env.call(t, http.MethodPost, "/auth/login", nil, nil)
	if resp.Success || resp.Message != errEmptyBody.Error() {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.call(t, http.MethodGet, "/my-info", nil, nil)
	if resp.Success || resp.Message != "用户未登录" {
		t.Fatalf("resp = %+v", resp)
	}

	resp = env.call(t, http.MethodGet, "/main-schedules", nil, &http.Cookie{Name: tokenCookieName, Value: "garbage"})
	if resp.Success || resp.Message != "无效的令牌" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	info := decodeData[domain.User](t, env.call(t, http.MethodGet, "/my-info", nil, cookie))
	if info.ID != user.ID {
		t.Fatalf("my-info = %+v", info)
	}

	mustSucceed(t, env.call(t, http.MethodPost, "/auth/logout", nil, cookie))

	resp := env.call(t, http.MethodGet, "/my-info", nil, cookie)
	if resp.Success || resp.Message != "令牌已失效，请重新登录" {
		t.Fatalf("resp after logout = %+v", resp)
	}
}

func TestLogoutAliasReturnsResult(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	rec := env.do(t, http.MethodPost, "/aB12Xz/odsQk", nil, cookie)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["result"] != "登出成功" {
		t.Fatalf("body = %v", body)
	}
	if len(env.tokens.revoked) != 1 {
		t.Fatalf("revoked = %d tokens, want 1", len(env.tokens.revoked))
	}

	// 未登录时登出同样成功
	rec = env.do(t, http.MethodPost, "/aB12Xz/odsQk", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClientLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	srv := httptest.NewServer(env.handler.Mux)
	defer srv.Close()

	client := apiclient.New(srv.URL, time.Second, apiclient.WithToken(cookie.Value))
	result, err := client.Logout(context.Background())
	if err != nil {
		t.Fatalf("client logout: %v", err)
	}
	if result != "登出成功" {
		t.Fatalf("result = %v", result)
	}

	resp := env.call(t, http.MethodGet, "/my-info", nil, cookie)
	if resp.Success || resp.Message != "令牌已失效，请重新登录" {
		t.Fatalf("my-info after client logout = %+v", resp)
	}
}

func TestMainScheduleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user := env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	mains := decodeData[[]domain.MainSchedule](t, env.call(t, http.MethodGet, "/main-schedules", nil, cookie))
	if len(mains) != 1 || mains[0].ID != 1 || mains[0].Title != "목표 추가" || mains[0].UserID != user.ID {
		t.Fatalf("default main schedules = %+v", mains)
	}

	created := decodeData[domain.MainSchedule](t, env.call(t, http.MethodPost, "/main-schedules", map[string]any{
		"title":      "운동",
		"start_time": "2024-03-04T09:00:00.000Z",
		"end_time":   "2024-03-04T10:00:00.000Z",
		"color":      "#123abc",
	}, cookie))
	if created.ID != 2 || created.UserID != user.ID {
		t.Fatalf("created = %+v", created)
	}

	sent := env.mail.sent()
	if len(sent) != 1 || sent[0].Type != domain.MailTypeScheduleCreated || sent[0].To != user.Email {
		t.Fatalf("mail = %+v", sent)
	}

	resp := env.call(t, http.MethodPost, "/main-schedules", map[string]any{
		"main_schedule_id": 1,
		"title":            "중복",
		"start_time":       "2024-03-04T09:00:00.000Z",
		"end_time":         "2024-03-04T10:00:00.000Z",
		"color":            "#123abc",
	}, cookie)
	if resp.Success || resp.Message != "主日程ID已存在" {
		t.Fatalf("duplicate resp = %+v", resp)
	}

	updated := decodeData[domain.MainSchedule](t, env.call(t, http.MethodPatch, "/main-schedules/2", map[string]any{"title": "요가"}, cookie))
	if updated.Title != "요가" || updated.Color != "#123abc" {
		t.Fatalf("updated = %+v", updated)
	}

	resp = env.call(t, http.MethodPatch, "/main-schedules/2", map[string]any{"end_time": "2024-03-04T08:00:00.000Z"}, cookie)
	if resp.Success {
		t.Fatal("end before start should be rejected")
	}

	mustSucceed(t, env.call(t, http.MethodDelete, "/main-schedules/2", nil, cookie))

	// 对不存在的 ID 更新或删除时静默成功，集合保持不变
	resp = env.call(t, http.MethodDelete, "/main-schedules/2", nil, cookie)
	mustSucceed(t, resp)
	resp = env.call(t, http.MethodPatch, "/main-schedules/999", map[string]any{"title": "x"}, cookie)
	mustSucceed(t, resp)
	if string(resp.Data) != "null" {
		t.Fatalf("patch missing data = %s", resp.Data)
	}

	mains = decodeData[[]domain.MainSchedule](t, env.call(t, http.MethodGet, "/main-schedules", nil, cookie))
	if len(mains) != 1 || mains[0].ID != 1 || mains[0].Title != "목표 추가" {
		t.Fatalf("main schedules after no-ops = %+v", mains)
	}
}

func TestMainScheduleRejectsInvalidColor(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	resp := env.call(t, http.MethodPost, "/main-schedules", map[string]any{
		"title":      "운동",
		"start_time": "2024-03-04T09:00:00.000Z",
		"end_time":   "2024-03-04T10:00:00.000Z",
		"color":      "red",
	}, cookie)
	if resp.Success {
		t.Fatal("invalid color should be rejected")
	}
}

func TestSubScheduleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	saved := decodeData[domain.SubSchedule](t, env.call(t, http.MethodPost, "/sub-schedules", map[string]any{
		"title":      "Standup",
		"start_time": "2024-03-04T09:00:00.000Z",
		"end_time":   "2024-03-04T09:15:00.000Z",
	}, cookie))
	if saved.ID == "" || saved.MainSchedule != calendar.DefaultMainSchedule || saved.Color != calendar.DefaultDraftColor {
		t.Fatalf("saved = %+v", saved)
	}

	updated := decodeData[domain.SubSchedule](t, env.call(t, http.MethodPatch, "/sub-schedules/"+saved.ID, map[string]any{"status": "완료"}, cookie))
	if updated.Status != "완료" || updated.Title != "Standup" {
		t.Fatalf("updated = %+v", updated)
	}

	resp := env.call(t, http.MethodPost, "/sub-schedules", map[string]any{
		"title":      "Backwards",
		"start_time": "2024-03-04T10:00:00.000Z",
		"end_time":   "2024-03-04T09:00:00.000Z",
	}, cookie)
	if resp.Success {
		t.Fatal("end before start should be rejected")
	}

	mustSucceed(t, env.call(t, http.MethodDelete, "/sub-schedules/"+saved.ID, nil, cookie))
	resp = env.call(t, http.MethodPatch, "/sub-schedules/"+saved.ID, map[string]any{"title": "gone"}, cookie)
	mustSucceed(t, resp)
	if string(resp.Data) != "null" {
		t.Fatalf("patch deleted data = %s", resp.Data)
	}
	mustSucceed(t, env.call(t, http.MethodDelete, "/sub-schedules/"+saved.ID, nil, cookie))
	if subs := decodeData[[]domain.SubSchedule](t, env.call(t, http.MethodGet, "/sub-schedules", nil, cookie)); len(subs) != 0 {
		t.Fatalf("subs after no-ops = %+v", subs)
	}

	subs := decodeData[[]domain.SubSchedule](t, env.call(t, http.MethodPut, "/sub-schedules", []map[string]any{
		{"title": "a", "start_time": "2024-03-05T09:00:00.000Z", "end_time": "2024-03-05T10:00:00.000Z"},
		{"title": "b", "start_time": "2024-03-06T09:00:00.000Z", "end_time": "2024-03-06T10:00:00.000Z"},
	}, cookie))
	if len(subs) != 2 || subs[0].ID == "" || subs[0].ID == subs[1].ID {
		t.Fatalf("initialized = %+v", subs)
	}
}

func TestSchedulesArePersistedPerUser(t *testing.T) {
	env := newTestEnv(t)
	a := env.repo.add(t, "minjun", "password", domain.RoleMember)
	env.repo.add(t, "seoyeon", "password", domain.RoleMember)
	cookieA := env.login(t, "minjun", "password")
	cookieB := env.login(t, "seoyeon", "password")

	mustSucceed(t, env.call(t, http.MethodPost, "/sub-schedules", map[string]any{
		"title":      "private",
		"start_time": "2024-03-04T09:00:00.000Z",
		"end_time":   "2024-03-04T09:15:00.000Z",
	}, cookieA))

	subs := decodeData[[]domain.SubSchedule](t, env.call(t, http.MethodGet, "/sub-schedules", nil, cookieB))
	if len(subs) != 0 {
		t.Fatalf("other user sees %d schedules", len(subs))
	}

	data, err := env.storage.Load(context.Background(), "schedule-storage:"+itoa(a.ID))
	if err != nil {
		t.Fatalf("load persisted: %v", err)
	}
	if !strings.Contains(string(data), `"start_time":"2024-03-04T09:00:00.000Z"`) {
		t.Fatalf("persisted document = %s", data)
	}
}

func TestTogglePreferenceAndSelection(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	toggled := decodeData[map[string]bool](t, env.call(t, http.MethodPost, "/preferences/show-past-schedules/toggle", nil, cookie))
	if !toggled["showPastSchedules"] {
		t.Fatalf("toggled = %v", toggled)
	}

	mustSucceed(t, env.call(t, http.MethodPut, "/selected-schedule", map[string]any{"id": "x", "title": "picked"}, cookie))
	selected := decodeData[*domain.SubSchedule](t, env.call(t, http.MethodGet, "/selected-schedule", nil, cookie))
	if selected == nil || selected.Title != "picked" {
		t.Fatalf("selected = %+v", selected)
	}

	mustSucceed(t, env.call(t, http.MethodPut, "/selected-schedule", "null", cookie))
	selected = decodeData[*domain.SubSchedule](t, env.call(t, http.MethodGet, "/selected-schedule", nil, cookie))
	if selected != nil {
		t.Fatalf("selection should be cleared, got %+v", selected)
	}
}

func waitForModalState(t *testing.T, env *testEnv, cookie *http.Cookie, want calendar.ModalState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := decodeData[calendar.ModalSnapshot](t, env.call(t, http.MethodGet, "/calendar/modal", nil, cookie))
		if snap.State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("modal never reached %s", want)
}

func TestCalendarClickAndSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	view := decodeData[calendar.WeekView](t, env.call(t, http.MethodPut, "/calendar/week", map[string]string{"date": "2024-03-06"}, cookie))
	if view.Days[0].Date != "2024-03-04" || view.MonthLabel != "March 2024" {
		t.Fatalf("view = %+v", view)
	}

	click := map[string]any{
		"dayIndex": 2,
		"hour":     14,
		"clientY":  124,
		"cell":     map[string]float64{"top": 100, "left": 300, "height": 48},
		"scrollX":  0,
		"scrollY":  20,
	}
	result := decodeData[calendar.ClickResult](t, env.call(t, http.MethodPost, "/calendar/grid/click", click, cookie))
	if result.Action != calendar.ClickOpened || result.Draft == nil {
		t.Fatalf("click = %+v", result)
	}
	if want := time.Date(2024, time.March, 6, 14, 30, 0, 0, time.UTC); !result.Draft.StartTime.Equal(want) {
		t.Fatalf("draft start = %v, want %v", result.Draft.StartTime, want)
	}
	if result.Position.Top != 120 || result.Position.Left != 300 {
		t.Fatalf("position = %+v", result.Position)
	}

	saved := decodeData[domain.SubSchedule](t, env.call(t, http.MethodPost, "/calendar/modal/submit", nil, cookie))
	if saved.Title != "No title 2:30 PM - 2:45 PM" || saved.ID == "" {
		t.Fatalf("saved = %+v", saved)
	}
	if len(env.mail.sent()) != 1 {
		t.Fatalf("mail = %+v", env.mail.sent())
	}

	// 正在关闭时的点击只关闭弹窗
	again := decodeData[calendar.ClickResult](t, env.call(t, http.MethodPost, "/calendar/grid/click", click, cookie))
	if again.Action != calendar.ClickClosed || again.Draft != nil {
		t.Fatalf("click while closing = %+v", again)
	}
	waitForModalState(t, env, cookie, calendar.ModalClosed)

	view = decodeData[calendar.WeekView](t, env.call(t, http.MethodGet, "/calendar/week", nil, cookie))
	if len(view.Blocks) != 1 || view.Blocks[0].DayIndex != 2 {
		t.Fatalf("blocks = %+v", view.Blocks)
	}

	view = decodeData[calendar.WeekView](t, env.call(t, http.MethodPost, "/calendar/week/next", nil, cookie))
	if view.CurrentWeek != "2024-03-13" || len(view.Blocks) != 0 {
		t.Fatalf("next week = %+v", view)
	}
}

func TestCalendarModalErrors(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	resp := env.call(t, http.MethodPost, "/calendar/modal/submit", nil, cookie)
	if resp.Success || resp.Message != "弹窗未打开" {
		t.Fatalf("submit without modal = %+v", resp)
	}

	resp = env.call(t, http.MethodPost, "/calendar/grid/click", map[string]any{"dayIndex": 9, "hour": 1, "cell": map[string]float64{"height": 48}}, cookie)
	if resp.Success || resp.Message != "无效的单元格" {
		t.Fatalf("invalid click = %+v", resp)
	}

	resp = env.call(t, http.MethodPut, "/calendar/week", map[string]string{"date": "06/03/2024"}, cookie)
	if resp.Success {
		t.Fatal("bad date should be rejected")
	}
}

func TestExportICS(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	rec := env.do(t, http.MethodGet, "/calendar.ics", nil, cookie)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("content type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "UID:main-1@week-planner") {
		t.Fatalf("body = %s", body)
	}
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.repo.add(t, "admin", "password", domain.RoleAdmin)
	env.repo.add(t, "minjun", "password", domain.RoleMember)

	member := env.login(t, "minjun", "password")
	resp := env.call(t, http.MethodGet, "/users", nil, member)
	if resp.Success || resp.Message != "权限不足" {
		t.Fatalf("member list users = %+v", resp)
	}

	adminCookie := env.login(t, "admin", "password")
	created := decodeData[domain.User](t, env.call(t, http.MethodPost, "/users", map[string]string{
		"username": "jiho",
		"fullName": "Jiho Park",
		"email":    "jiho@example.com",
		"role":     "member",
	}, adminCookie))
	if created.ID == 0 || created.Username != "jiho" {
		t.Fatalf("created = %+v", created)
	}

	sent := env.mail.sent()
	if len(sent) != 1 || sent[0].Type != domain.MailTypeWelcome || sent[0].To != "jiho@example.com" {
		t.Fatalf("mail = %+v", sent)
	}

	resp = env.call(t, http.MethodDelete, "/users/"+itoa(admin.ID), nil, adminCookie)
	if resp.Success || resp.Message != "禁止操作初始管理员" {
		t.Fatalf("delete initial admin = %+v", resp)
	}

	mustSucceed(t, env.call(t, http.MethodDelete, "/users/"+itoa(created.ID), nil, adminCookie))
	resp = env.call(t, http.MethodGet, "/users/"+itoa(created.ID), nil, adminCookie)
	if resp.Success || resp.Message != "用户不存在" {
		t.Fatalf("get deleted user = %+v", resp)
	}
}

func TestUpdateMyPassword(t *testing.T) {
	env := newTestEnv(t)
	env.repo.add(t, "minjun", "password", domain.RoleMember)
	cookie := env.login(t, "minjun", "password")

	resp := env.call(t, http.MethodPatch, "/my-info/password", map[string]string{"oldPassword": "wrong", "newPassword": "another"}, cookie)
	if resp.Success || resp.Message != "旧密码错误" {
		t.Fatalf("wrong old password = %+v", resp)
	}

	mustSucceed(t, env.call(t, http.MethodPatch, "/my-info/password", map[string]string{"oldPassword": "password", "newPassword": "another"}, cookie))
	env.login(t, "minjun", "another")
}
