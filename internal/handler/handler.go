package handler

import (
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/paiban-dev/roster-manager/backend/internal/config"
	"github.com/paiban-dev/roster-manager/backend/internal/repository"
	"github.com/paiban-dev/roster-manager/backend/internal/roster"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	// 整个进程只有一个排班会话，所有读写都要拿这把锁
	plannerMu sync.Mutex
	planner   *roster.Planner

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	planner, err := roster.NewPlanner(repo, roster.Window{
		Start: cfg.Roster.WindowStart,
		End:   cfg.Roster.WindowEnd,
	})
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		planner: planner,

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
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffRecord)
				r.Get("/", h.GetStaff)
				r.Patch("/", h.UpdateStaff)
				r.Delete("/", h.DeleteStaff)
			})
		})

		r.Route("/roster", func(r chi.Router) {
			r.Post("/week", h.SetWeek)
			r.Get("/week", h.GetWeek)
			r.Get("/available-staff", h.GetAvailableStaff)
			r.Post("/duties", h.AddDuty)
			r.Route("/duties/{date}/{index}", func(r chi.Router) {
				r.Patch("/", h.EditDuty)
				r.Delete("/", h.RemoveDuty)
			})
			r.Put("/notes/{date}", h.SetNote)
			r.Post("/new", h.StartNewRoster)
			r.Post("/finalize", h.FinalizeRoster)
			r.Get("/history", h.GetRosterHistory)
			r.Route("/history/{id}", func(r chi.Router) {
				r.Use(h.rosterRecord)
				r.Get("/", h.GetRoster)
				r.Post("/load", h.LoadRoster)
				r.Post("/email", h.EmailRoster)
			})
		})
	})
}
