package domain

import "time"

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// TimetableJobParameters 与 scheduler.Parameters 一一对应，用于在队列中传递
type TimetableJobParameters struct {
	PopulationSize int     `json:"populationSize"`
	EliteCount     int     `json:"eliteCount"`
	TournamentSize int     `json:"tournamentSize"`
	MutationRate   float64 `json:"mutationRate"`
	CrossoverBias  float64 `json:"crossoverBias"`
	MaxGenerations int     `json:"maxGenerations"`
	Seed           *int64  `json:"seed"`
}

// TimetableJob 是投递到 timetable 队列中的消息
type TimetableJob struct {
	ID          string                 `json:"id"`
	Parameters  TimetableJobParameters `json:"parameters"`
	NotifyEmail string                 `json:"notifyEmail"` // 为空时不发送通知邮件
}

// TimetableJobState 是保存在 redis 中的任务状态
type TimetableJobState struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	Generation  int       `json:"generation"`
	BestFitness float64   `json:"bestFitness"`
	TimetableID int64     `json:"timetableID,omitempty"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
