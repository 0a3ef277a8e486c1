package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

type CatalogSource interface {
	GetCatalog() (*domain.Catalog, error)
}

type TimetableSink interface {
	InsertTimetable(timetable *domain.Timetable) error
}

type StateStore interface {
	Save(state *domain.TimetableJobState) error
}

type MailPublisher interface {
	PublishMail(msg *domain.MailMessage) error
}

// Runner 执行队列中的排课任务
type Runner struct {
	cfg        *config.Config
	catalogs   CatalogSource
	timetables TimetableSink
	states     StateStore
	mail       MailPublisher
	logger     *slog.Logger
}

func NewRunner(cfg *config.Config, catalogs CatalogSource, timetables TimetableSink, states StateStore, mail MailPublisher, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		catalogs:   catalogs,
		timetables: timetables,
		states:     states,
		mail:       mail,
		logger:     logger,
	}
}

// Run 执行一个任务，任务的结果同时写入 redis
// 超过 SCHEDULER_TIMEOUT 时保存当前最优的课表，ctx 被取消（例如 worker 退出）时任务失败
func (r *Runner) Run(ctx context.Context, job *domain.TimetableJob) error {
	state := &domain.TimetableJobState{
		ID:     job.ID,
		Status: domain.JobStatusRunning,
	}
	if err := r.states.Save(state); err != nil {
		return err
	}

	timetable, err := r.schedule(ctx, job, state)
	if err != nil {
		r.logger.Error("排课任务失败", "job", job.ID, "error", err)
		state.Status = domain.JobStatusFailed
		state.Error = err.Error()
		if saveErr := r.states.Save(state); saveErr != nil {
			r.logger.Error("无法保存任务状态", "job", job.ID, "error", saveErr)
		}
		return err
	}

	state.Status = domain.JobStatusSucceeded
	state.TimetableID = timetable.ID
	state.BestFitness = timetable.Fitness
	state.Generation = int(timetable.Generations)
	if err := r.states.Save(state); err != nil {
		return err
	}

	if job.NotifyEmail != "" {
		msg := &domain.MailMessage{
			Type: MailTypeTimetableReady,
			To:   job.NotifyEmail,
			Data: domain.TimetableReadyMailData{
				JobID:       job.ID,
				TimetableID: timetable.ID,
				Fitness:     timetable.Fitness,
				Violations:  timetable.Violations,
				Generations: timetable.Generations,
				Termination: timetable.Termination,
			},
		}
		// 邮件发送失败不影响任务本身
		if err := r.mail.PublishMail(msg); err != nil {
			r.logger.Error("无法投递通知邮件", "job", job.ID, "error", err)
		}
	}

	r.logger.Info("排课任务完成", "job", job.ID, "timetable", timetable.ID, "fitness", timetable.Fitness)
	return nil
}

func (r *Runner) schedule(ctx context.Context, job *domain.TimetableJob, state *domain.TimetableJobState) (*domain.Timetable, error) {
	catalog, err := r.catalogs.GetCatalog()
	if err != nil {
		return nil, fmt.Errorf("无法读取目录: %w", err)
	}

	interval := max(r.cfg.Job.ReportInterval, 1)
	observer := func(gs scheduler.GenerationStats) {
		if gs.Generation%interval != 0 {
			return
		}
		state.Generation = gs.Generation
		state.BestFitness = gs.BestEver
		if err := r.states.Save(state); err != nil {
			r.logger.Warn("无法更新任务进度", "job", job.ID, "error", err)
		}
	}

	s, err := scheduler.New(
		SchedulerParameters(job.Parameters, r.cfg.Scheduler.Workers),
		catalog,
		scheduler.WithLogger(r.logger.With("job", job.ID)),
		scheduler.WithObserver(observer),
	)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Scheduler.Timeout)*time.Second)
	defer cancel()

	result, err := s.Schedule(runCtx)
	if err != nil {
		// 只有超时的情况下才保留当前最优结果
		if result == nil || ctx.Err() != nil || !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		r.logger.Warn("排课超时，保存当前最优课表", "job", job.ID, "generations", result.Generations)
	}

	timetable := result.Timetable()
	if err := utils.ValidateTimetableWithCatalog(timetable, catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", scheduler.ErrInvariantViolated, err)
	}

	if err := r.timetables.InsertTimetable(timetable); err != nil {
		return nil, fmt.Errorf("无法保存课表: %w", err)
	}

	return timetable, nil
}
