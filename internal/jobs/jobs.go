package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
)

var ErrJobNotFound = errors.New("排课任务不存在或已过期")

const (
	EmailQueue = "email_queue"

	MailTypeTimetableReady = "timetable_ready"
)

// NewTimetableJob 创建一个新的排课任务，以及它在 redis 中的初始状态
func NewTimetableJob(parameters domain.TimetableJobParameters, notifyEmail string) (*domain.TimetableJob, *domain.TimetableJobState) {
	job := &domain.TimetableJob{
		ID:          uuid.NewString(),
		Parameters:  parameters,
		NotifyEmail: notifyEmail,
	}

	state := &domain.TimetableJobState{
		ID:        job.ID,
		Status:    domain.JobStatusQueued,
		UpdatedAt: time.Now(),
	}

	return job, state
}

// ParseJobID 检查任务 ID 是否为合法的 UUID
func ParseJobID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// DefaultJobParameters 返回配置中的默认遗传算法参数
func DefaultJobParameters(cfg *config.Config) domain.TimetableJobParameters {
	return domain.TimetableJobParameters{
		PopulationSize: cfg.Scheduler.PopulationSize,
		EliteCount:     cfg.Scheduler.EliteCount,
		TournamentSize: cfg.Scheduler.TournamentSize,
		MutationRate:   cfg.Scheduler.MutationRate,
		CrossoverBias:  cfg.Scheduler.CrossoverBias,
		MaxGenerations: cfg.Scheduler.MaxGenerations,
	}
}

func SchedulerParameters(p domain.TimetableJobParameters, workers int) *scheduler.Parameters {
	return &scheduler.Parameters{
		PopulationSize: p.PopulationSize,
		EliteCount:     p.EliteCount,
		TournamentSize: p.TournamentSize,
		MutationRate:   p.MutationRate,
		CrossoverBias:  p.CrossoverBias,
		MaxGenerations: p.MaxGenerations,
		Seed:           p.Seed,
		Workers:        workers,
	}
}
