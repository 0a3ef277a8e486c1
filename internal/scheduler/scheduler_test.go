package scheduler

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func run(t *testing.T, parameters *Parameters, catalog *domain.Catalog, opts ...Option) *Result {
	t.Helper()

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(parameters, catalog, opts...)
	require.NoError(t, err)

	result, err := s.Schedule(context.Background())
	require.NoError(t, err)
	return result
}

func assertQualified(t *testing.T, catalog *domain.Catalog, result *Result) {
	t.Helper()

	courses := lo.KeyBy(catalog.Courses, func(c domain.Course) int64 { return c.ID })
	for _, class := range result.Classes {
		assert.Contains(t, courses[class.CourseID].InstructorIDs, class.InstructorID)
	}
}

func TestNewInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Parameters)
	}{
		{"population size zero", func(p *Parameters) { p.PopulationSize = 0 }},
		{"elite count equals population size", func(p *Parameters) { p.EliteCount = p.PopulationSize }},
		{"negative elite count", func(p *Parameters) { p.EliteCount = -1 }},
		{"tournament size zero", func(p *Parameters) { p.TournamentSize = 0 }},
		{"tournament larger than population", func(p *Parameters) { p.TournamentSize = p.PopulationSize + 1 }},
		{"mutation rate above one", func(p *Parameters) { p.MutationRate = 1.5 }},
		{"negative mutation rate", func(p *Parameters) { p.MutationRate = -0.1 }},
		{"crossover bias above one", func(p *Parameters) { p.CrossoverBias = 2 }},
		{"max generations zero", func(p *Parameters) { p.MaxGenerations = 0 }},
		{"negative workers", func(p *Parameters) { p.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parameters := testParameters()
			tt.modify(parameters)

			s, err := New(parameters, solvableCatalog())

			assert.ErrorIs(t, err, ErrInvalidParameters)
			assert.Nil(t, s)
		})
	}

	t.Run("nil parameters", func(t *testing.T) {
		_, err := New(nil, solvableCatalog())
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("boundary values are accepted", func(t *testing.T) {
		parameters := &Parameters{
			PopulationSize: 1,
			EliteCount:     0,
			TournamentSize: 1,
			MutationRate:   1,
			CrossoverBias:  0,
			MaxGenerations: 1,
		}

		_, err := New(parameters, solvableCatalog(), WithLogger(quietLogger()))
		assert.NoError(t, err)
	})
}

func TestNewInvalidCatalog(t *testing.T) {
	t.Run("nil catalog", func(t *testing.T) {
		_, err := New(testParameters(), nil)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("no rooms", func(t *testing.T) {
		catalog := singleClassCatalog()
		catalog.Rooms = nil

		_, err := New(testParameters(), catalog)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("no meeting times", func(t *testing.T) {
		catalog := singleClassCatalog()
		catalog.MeetingTimes = nil

		_, err := New(testParameters(), catalog)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("unknown instructor", func(t *testing.T) {
		catalog := singleClassCatalog()
		catalog.Courses[0].InstructorIDs = []int64{999}

		_, err := New(testParameters(), catalog)
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})
}

// 只有一节课且资源充足时，初始种群就已经没有冲突
func TestScheduleSingleClassConvergesImmediately(t *testing.T) {
	catalog := singleClassCatalog()

	result := run(t, testParameters(), catalog)

	assert.Equal(t, TerminationConverged, result.Termination)
	assert.Equal(t, 0, result.Generations)
	assert.Equal(t, 1.0, result.Fitness)
	assert.Equal(t, 0, result.Violations)
	assert.Equal(t, []domain.TimetableClass{
		{SectionID: 30, CourseID: 10, RoomID: 200, MeetingTimeID: 100, InstructorID: 1},
	}, result.Classes)
}

func TestScheduleUnavoidableRoomConflict(t *testing.T) {
	catalog := twoClassCatalog()
	catalog.Rooms = rooms(100)
	catalog.MeetingTimes = meetingTimes(1)

	parameters := testParameters()
	parameters.MaxGenerations = 20

	result := run(t, parameters, catalog)

	assert.Equal(t, TerminationMaxGenerations, result.Termination)
	assert.Equal(t, 20, result.Generations)
	assert.Less(t, result.Fitness, 1.0)
	assert.Equal(t, 1, result.Conflicts[ConstraintRoom])

	t.Run("a second room removes the conflict", func(t *testing.T) {
		catalog.Rooms = rooms(100, 100)

		result := run(t, parameters, catalog)

		assert.Equal(t, TerminationConverged, result.Termination)
		assert.Equal(t, 1.0, result.Fitness)
	})

	t.Run("a second meeting time removes the conflict", func(t *testing.T) {
		catalog.Rooms = rooms(100)
		catalog.MeetingTimes = meetingTimes(2)

		result := run(t, parameters, catalog)

		assert.Equal(t, TerminationConverged, result.Termination)
		assert.Equal(t, 1.0, result.Fitness)
	})
}

func TestScheduleConvergesOnSolvableCatalog(t *testing.T) {
	catalog := solvableCatalog()

	result := run(t, testParameters(), catalog)

	assert.Equal(t, TerminationConverged, result.Termination)
	assert.LessOrEqual(t, result.Generations, 100)
	assert.Equal(t, 1.0, result.Fitness)
	assert.Equal(t, 0, result.Violations)
	assert.Len(t, result.Classes, 9)
	assertQualified(t, catalog, result)
}

func TestScheduleInsufficientCapacityNeverConverges(t *testing.T) {
	catalog := singleClassCatalog()
	catalog.Rooms = rooms(20)

	parameters := testParameters()
	parameters.MaxGenerations = 10

	result := run(t, parameters, catalog)

	assert.Equal(t, TerminationMaxGenerations, result.Termination)
	assert.Equal(t, 0.5, result.Fitness)
	assert.Equal(t, 1, result.Conflicts[ConstraintCapacity])
}

func TestScheduleNothingToSchedule(t *testing.T) {
	catalog := singleClassCatalog()
	catalog.Sections[0].ClassesPerWeek = 0

	result := run(t, testParameters(), catalog)

	assert.Equal(t, TerminationConverged, result.Termination)
	assert.Equal(t, 0, result.Generations)
	assert.Equal(t, 1.0, result.Fitness)
	assert.Empty(t, result.Classes)
}

func TestScheduleDeterminism(t *testing.T) {
	collect := func() (*Result, []GenerationStats) {
		var stats []GenerationStats
		parameters := testParameters()
		parameters.MaxGenerations = 15
		catalog := solvableCatalog()
		catalog.MeetingTimes = meetingTimes(4)

		result := run(t, parameters, catalog, WithObserver(func(gs GenerationStats) {
			stats = append(stats, gs)
		}))
		return result, stats
	}

	firstResult, firstStats := collect()
	secondResult, secondStats := collect()

	assert.Equal(t, firstResult, secondResult)
	assert.Equal(t, firstStats, secondStats)

	t.Run("same scheduler twice", func(t *testing.T) {
		s := newTestScheduler(t, testParameters(), solvableCatalog())

		a, err := s.Schedule(context.Background())
		require.NoError(t, err)
		b, err := s.Schedule(context.Background())
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("concurrent evaluation gives the same result", func(t *testing.T) {
		parameters := testParameters()
		parameters.Workers = 4

		concurrent := run(t, parameters, solvableCatalog())
		sequential := run(t, testParameters(), solvableCatalog())

		assert.Equal(t, sequential, concurrent)
	})
}

func TestScheduleGenerationInvariants(t *testing.T) {
	catalog := solvableCatalog()
	catalog.MeetingTimes = meetingTimes(3)

	parameters := testParameters()
	parameters.MaxGenerations = 40

	var stats []GenerationStats
	run(t, parameters, catalog, WithObserver(func(gs GenerationStats) {
		stats = append(stats, gs)
	}))

	require.NotEmpty(t, stats)
	assert.Equal(t, 0, stats[0].Generation)
	for i, gs := range stats {
		assert.Equal(t, parameters.PopulationSize, gs.PopulationSize)
		assert.Greater(t, gs.BestFitness, 0.0)
		assert.LessOrEqual(t, gs.BestFitness, 1.0)
		if i > 0 {
			// 有精英保留时每代最优不会下降
			assert.GreaterOrEqual(t, gs.BestFitness, stats[i-1].BestFitness)
			assert.GreaterOrEqual(t, gs.BestEver, stats[i-1].BestEver)
			assert.Equal(t, stats[i-1].Generation+1, gs.Generation)
		}
	}
}

func TestScheduleCancellation(t *testing.T) {
	catalog := singleClassCatalog()
	catalog.Rooms = rooms(20)

	t.Run("cancelled before the first generation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := newTestScheduler(t, testParameters(), catalog)
		result, err := s.Schedule(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Equal(t, TerminationCancelled, result.Termination)
		assert.Equal(t, 0, result.Generations)
		assert.Len(t, result.Classes, 1)
	})

	t.Run("cancelled between generations", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := newTestScheduler(t, testParameters(), catalog, WithObserver(func(gs GenerationStats) {
			if gs.Generation == 3 {
				cancel()
			}
		}))
		result, err := s.Schedule(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Equal(t, TerminationCancelled, result.Termination)
		assert.Equal(t, 3, result.Generations)
	})
}

func TestWithEnumerator(t *testing.T) {
	t.Run("custom enumeration", func(t *testing.T) {
		catalog := solvableCatalog()
		enumerate := func(c *domain.Catalog) ([]ClassSpec, error) {
			return []ClassSpec{{SectionID: 32, CourseID: 14}}, nil
		}

		s := newTestScheduler(t, testParameters(), catalog, WithEnumerator(enumerate))
		result, err := s.Schedule(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []ClassSpec{{SectionID: 32, CourseID: 14}}, s.Classes())
		require.Len(t, result.Classes, 1)
		assert.Equal(t, int64(14), result.Classes[0].CourseID)
	})

	t.Run("course outside the section department", func(t *testing.T) {
		enumerate := func(c *domain.Catalog) ([]ClassSpec, error) {
			return []ClassSpec{{SectionID: 30, CourseID: 14}}, nil
		}

		_, err := New(testParameters(), solvableCatalog(), WithEnumerator(enumerate))

		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})
}

func TestResultTimetable(t *testing.T) {
	result := run(t, testParameters(), singleClassCatalog())

	timetable := result.Timetable()

	assert.Equal(t, result.Classes, timetable.Classes)
	assert.Equal(t, 1.0, timetable.Fitness)
	assert.Equal(t, int32(0), timetable.Violations)
	assert.Equal(t, "converged", timetable.Termination)
	assert.Equal(t, int64(42), timetable.Seed)
}
