package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/jobs"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
)

// CreateTimetableJob 把排课任务投递到队列中，由 worker 异步执行
func (h *Handler) CreateTimetableJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		parametersRequest
		NotifyEmail string `json:"notifyEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parameters := req.apply(jobs.DefaultJobParameters(h.config))

	// 参数在入队之前就检查，避免 worker 执行注定失败的任务
	if err := scheduler.ValidateParameters(jobs.SchedulerParameters(parameters, h.config.Scheduler.Workers)); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	job, state := jobs.NewTimetableJob(parameters, req.NotifyEmail)

	// 先写状态再入队，否则 worker 可能在状态写入之前就开始执行
	if err := h.jobStore.Save(state); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.publisher.PublishJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排课任务已提交", state)
}

func (h *Handler) GetTimetableJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobs.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "任务ID无效")
		return
	}

	state, err := h.jobStore.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrJobNotFound):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取排课任务成功", state)
}
