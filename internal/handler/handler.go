package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/jobs"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	publisher  *jobs.Publisher
	jobStore   *jobs.Store

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, publisher *jobs.Publisher, jobStore *jobs.Store) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		publisher:  publisher,
		jobStore:   jobStore,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.GetCatalog)
		r.Post("/", h.ReplaceCatalog)
	})

	h.Mux.Route("/timetables", func(r chi.Router) {
		r.Post("/", h.SubmitTimetable)
		r.Post("/generate", h.GenerateTimetable)
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", h.CreateTimetableJob)
			r.Get("/{id}", h.GetTimetableJob)
		})
		r.With(h.timetable).Get("/{option}", h.GetTimetable)
	})
}
