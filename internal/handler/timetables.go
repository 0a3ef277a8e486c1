package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/jobs"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

// parametersRequest 中没有给出的参数使用配置中的默认值
type parametersRequest struct {
	PopulationSize *int     `json:"populationSize" validate:"omitempty,min=1"`
	EliteCount     *int     `json:"eliteCount" validate:"omitempty,min=0"`
	TournamentSize *int     `json:"tournamentSize" validate:"omitempty,min=1"`
	MutationRate   *float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	CrossoverBias  *float64 `json:"crossoverBias" validate:"omitempty,min=0,max=1"`
	MaxGenerations *int     `json:"maxGenerations" validate:"omitempty,min=1"`
	Seed           *int64   `json:"seed"`
}

func (req *parametersRequest) apply(p domain.TimetableJobParameters) domain.TimetableJobParameters {
	if req.PopulationSize != nil {
		p.PopulationSize = *req.PopulationSize
	}
	if req.EliteCount != nil {
		p.EliteCount = *req.EliteCount
	}
	if req.TournamentSize != nil {
		p.TournamentSize = *req.TournamentSize
	}
	if req.MutationRate != nil {
		p.MutationRate = *req.MutationRate
	}
	if req.CrossoverBias != nil {
		p.CrossoverBias = *req.CrossoverBias
	}
	if req.MaxGenerations != nil {
		p.MaxGenerations = *req.MaxGenerations
	}
	if req.Seed != nil {
		p.Seed = req.Seed
	}
	return p
}

// GenerateTimetable 同步运行排课并保存结果，适合规模较小的目录
func (h *Handler) GenerateTimetable(w http.ResponseWriter, r *http.Request) {
	var req parametersRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parameters := jobs.SchedulerParameters(req.apply(jobs.DefaultJobParameters(h.config)), h.config.Scheduler.Workers)

	catalog, err := h.repository.GetCatalog()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	s, err := scheduler.New(parameters, catalog)
	if err != nil {
		h.schedulerError(w, r, err)
		return
	}

	// 客户端断开连接时停止排课
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Scheduler.Timeout)*time.Second)
	defer cancel()

	result, err := s.Schedule(ctx)
	if err != nil && !(result != nil && errors.Is(err, context.DeadlineExceeded)) {
		h.schedulerError(w, r, err)
		return
	}

	timetable := result.Timetable()
	if err := h.repository.InsertTimetable(timetable); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排课完成", struct {
		Timetable *domain.Timetable `json:"timetable"`
		Conflicts map[string]int    `json:"conflicts"`
	}{
		Timetable: timetable,
		Conflicts: result.Conflicts,
	})
}

// SubmitTimetable 保存一份手动调整过的课表
func (h *Handler) SubmitTimetable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Classes []struct {
			SectionID     int64 `json:"sectionID" validate:"required"`
			CourseID      int64 `json:"courseID" validate:"required"`
			RoomID        int64 `json:"roomID" validate:"required"`
			MeetingTimeID int64 `json:"meetingTimeID" validate:"required"`
			InstructorID  int64 `json:"instructorID" validate:"required"`
		} `json:"classes" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	timetable := &domain.Timetable{
		Classes:     make([]domain.TimetableClass, len(req.Classes)),
		Termination: "manual",
	}
	for i, class := range req.Classes {
		timetable.Classes[i] = domain.TimetableClass{
			SectionID:     class.SectionID,
			CourseID:      class.CourseID,
			RoomID:        class.RoomID,
			MeetingTimeID: class.MeetingTimeID,
			InstructorID:  class.InstructorID,
		}
	}

	// 必须检查提交的课表是否和目录对得上
	catalog, err := h.repository.GetCatalog()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateTimetableWithCatalog(timetable, catalog); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 冲突数由排课引擎重新计算
	conflicts, err := scheduler.Evaluate(catalog, timetable.Classes)
	if err != nil {
		h.schedulerError(w, r, err)
		return
	}
	timetable.Violations = int32(conflicts.Violations)
	timetable.Fitness = conflicts.Fitness

	if err := h.repository.InsertTimetable(timetable); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交课表成功", struct {
		Timetable *domain.Timetable `json:"timetable"`
		Conflicts map[string]int    `json:"conflicts"`
	}{
		Timetable: timetable,
		Conflicts: conflicts.Conflicts,
	})
}

func (h *Handler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	timetable := r.Context().Value(TimetableCtx).(*domain.Timetable)

	h.successResponse(w, r, "获取课表成功", timetable)
}
