package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// Store 把任务状态保存在 redis 中，过期后自动删除
type Store struct {
	cfg *config.Config
	rdb *redis.Client
}

func NewStore(cfg *config.Config, rdb *redis.Client) *Store {
	return &Store{
		cfg: cfg,
		rdb: rdb,
	}
}

func jobKey(id string) string {
	return fmt.Sprintf("timetable_job_%s", id)
}

func (s *Store) Save(state *domain.TimetableJobState) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, jobKey(state.ID), data, time.Duration(s.cfg.Job.StatusTTL)*time.Second).Err()
}

func (s *Store) Get(id string) (*domain.TimetableJobState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	data, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	state := &domain.TimetableJobState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}
