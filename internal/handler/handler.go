package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"
)

// UserRepository 是 handler 对用户表的全部依赖，由 repository.Repository 实现
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type Dependencies struct {
	Repository UserRepository
	Mail       MailPublisher
	Tokens     TokenDenylist
	Registry   *store.Registry
	Sessions   *calendar.SessionManager
	Location   *time.Location
	Now        func() time.Time
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository UserRepository
	translator ut.Translator
	mail       MailPublisher
	tokens     TokenDenylist
	registry   *store.Registry
	sessions   *calendar.SessionManager
	location   *time.Location
	now        func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, deps Dependencies) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: deps.Repository,
		translator: trans,
		mail:       deps.Mail,
		tokens:     deps.Tokens,
		registry:   deps.Registry,
		sessions:   deps.Sessions,
		location:   deps.Location,
		now:        deps.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
	// 旧版前端使用的登出地址
	h.Mux.Post(h.config.API.LogoutPath, h.LogoutAlias)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
				r.Patch("/password", h.UpdateUserPassword)
			})
		})

		// 日程数据按用户隔离
		r.Group(func(r chi.Router) {
			r.Use(h.scheduleStore)

			r.Route("/main-schedules", func(r chi.Router) {
				r.Get("/", h.GetMainSchedules)
				r.With(h.myInfo).Post("/", h.CreateMainSchedule)
				r.Patch("/{id}", h.UpdateMainSchedule)
				r.Delete("/{id}", h.DeleteMainSchedule)
			})

			r.Route("/sub-schedules", func(r chi.Router) {
				r.Get("/", h.GetSubSchedules)
				r.With(h.myInfo).Post("/", h.CreateSubSchedule)
				r.Put("/", h.InitializeSubSchedules)
				r.Patch("/{id}", h.UpdateSubSchedule)
				r.Delete("/{id}", h.DeleteSubSchedule)
			})

			r.Post("/preferences/show-past-schedules/toggle", h.ToggleShowPastSchedules)
			r.Get("/selected-schedule", h.GetSelectedSchedule)
			r.Put("/selected-schedule", h.SetSelectedSchedule)
			r.Get("/calendar.ics", h.ExportICS)

			r.Route("/calendar", func(r chi.Router) {
				r.Use(h.calendarSession)
				r.Route("/week", func(r chi.Router) {
					r.Get("/", h.GetWeek)
					r.Put("/", h.SetWeek)
					r.Post("/prev", h.PrevWeek)
					r.Post("/next", h.NextWeek)
				})
				r.Post("/grid/click", h.ClickGrid)
				r.Route("/modal", func(r chi.Router) {
					r.Get("/", h.GetModal)
					r.Post("/close", h.CloseModal)
					r.With(h.myInfo).Post("/submit", h.SubmitModal)
				})
			})
		})
	})
}
