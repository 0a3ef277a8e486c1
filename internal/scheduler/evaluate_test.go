package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestEvaluate(t *testing.T) {
	catalog := twoClassCatalog()

	t.Run("no conflicts", func(t *testing.T) {
		classes := []domain.TimetableClass{
			{SectionID: 30, CourseID: 10, RoomID: 200, MeetingTimeID: 100, InstructorID: 1},
			{SectionID: 31, CourseID: 10, RoomID: 200, MeetingTimeID: 101, InstructorID: 1},
		}

		evaluation, err := Evaluate(catalog, classes)

		require.NoError(t, err)
		assert.Equal(t, 1.0, evaluation.Fitness)
		assert.Equal(t, 0, evaluation.Violations)
	})

	t.Run("room and instructor conflict in a small room", func(t *testing.T) {
		classes := []domain.TimetableClass{
			{SectionID: 30, CourseID: 10, RoomID: 201, MeetingTimeID: 100, InstructorID: 1},
			{SectionID: 31, CourseID: 10, RoomID: 201, MeetingTimeID: 100, InstructorID: 1},
		}

		evaluation, err := Evaluate(catalog, classes)

		require.NoError(t, err)
		assert.Equal(t, 4, evaluation.Violations)
		assert.Equal(t, 0.2, evaluation.Fitness)
		assert.Equal(t, map[string]int{
			ConstraintSection:    0,
			ConstraintRoom:       1,
			ConstraintInstructor: 1,
			ConstraintCapacity:   2,
		}, evaluation.Conflicts)
	})

	t.Run("agrees with the result of a run", func(t *testing.T) {
		catalog := solvableCatalog()
		result := run(t, testParameters(), catalog)

		evaluation, err := Evaluate(catalog, result.Classes)

		require.NoError(t, err)
		assert.Equal(t, result.Fitness, evaluation.Fitness)
		assert.Equal(t, result.Conflicts, evaluation.Conflicts)
	})

	t.Run("unknown room", func(t *testing.T) {
		classes := []domain.TimetableClass{{SectionID: 30, CourseID: 10, RoomID: 999, MeetingTimeID: 100, InstructorID: 1}}

		_, err := Evaluate(catalog, classes)

		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("unqualified instructor", func(t *testing.T) {
		catalog := twoClassCatalog()
		catalog.Instructors = append(catalog.Instructors, domain.Instructor{ID: 3, Name: "Z"})
		classes := []domain.TimetableClass{{SectionID: 30, CourseID: 10, RoomID: 200, MeetingTimeID: 100, InstructorID: 3}}

		_, err := Evaluate(catalog, classes)

		assert.ErrorIs(t, err, ErrInvariantViolated)
	})
}

