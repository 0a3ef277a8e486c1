package scheduler

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func int64Ptr(v int64) *int64 {
	return &v
}

func testParameters() *Parameters {
	p := DefaultParameters()
	p.Seed = int64Ptr(42)
	return p
}

func meetingTimes(n int) []domain.MeetingTime {
	mts := make([]domain.MeetingTime, n)
	for i := range mts {
		mts[i] = domain.MeetingTime{
			ID:        int64(100 + i),
			Code:      fmt.Sprintf("MT%02d", i+1),
			Day:       int32(i%5 + 1),
			StartTime: fmt.Sprintf("%02d:00:00", 8+i/5),
			EndTime:   fmt.Sprintf("%02d:50:00", 8+i/5),
		}
	}
	return mts
}

func rooms(capacities ...int32) []domain.Room {
	rs := make([]domain.Room, len(capacities))
	for i, c := range capacities {
		rs[i] = domain.Room{ID: int64(200 + i), Number: fmt.Sprintf("R%d", i+1), SeatingCapacity: c}
	}
	return rs
}

// singleClassCatalog: 1 个教学班，1 门课，1 位教师，1 间教室，1 个时段
func singleClassCatalog() *domain.Catalog {
	return &domain.Catalog{
		Instructors:  []domain.Instructor{{ID: 1, Code: "I001", Name: "X"}},
		Rooms:        rooms(100),
		MeetingTimes: meetingTimes(1),
		Courses:      []domain.Course{{ID: 10, Number: "CS101", Name: "Programming", MaxStudents: 30, InstructorIDs: []int64{1}}},
		Departments:  []domain.Department{{ID: 20, Name: "CS", CourseIDs: []int64{10}}},
		Sections:     []domain.Section{{ID: 30, Code: "CS-1A", DepartmentID: 20, ClassesPerWeek: 1}},
	}
}

// solvableCatalog 存在零冲突的排法
func solvableCatalog() *domain.Catalog {
	return &domain.Catalog{
		Instructors: []domain.Instructor{
			{ID: 1, Code: "I001", Name: "A"},
			{ID: 2, Code: "I002", Name: "B"},
			{ID: 3, Code: "I003", Name: "C"},
			{ID: 4, Code: "I004", Name: "D"},
			{ID: 5, Code: "I005", Name: "E"},
			{ID: 6, Code: "I006", Name: "F"},
		},
		Rooms:        rooms(50, 50, 40),
		MeetingTimes: meetingTimes(15),
		Courses: []domain.Course{
			{ID: 10, Number: "CS101", MaxStudents: 30, InstructorIDs: []int64{1, 2}},
			{ID: 11, Number: "CS102", MaxStudents: 30, InstructorIDs: []int64{2, 3}},
			{ID: 12, Number: "CS201", MaxStudents: 30, InstructorIDs: []int64{3, 1}},
			{ID: 13, Number: "MA101", MaxStudents: 40, InstructorIDs: []int64{4, 5}},
			{ID: 14, Number: "MA102", MaxStudents: 40, InstructorIDs: []int64{5, 6}},
		},
		Departments: []domain.Department{
			{ID: 20, Name: "CS", CourseIDs: []int64{10, 11, 12}},
			{ID: 21, Name: "MA", CourseIDs: []int64{13, 14}},
		},
		Sections: []domain.Section{
			{ID: 30, Code: "CS-1A", DepartmentID: 20, ClassesPerWeek: 3},
			{ID: 31, Code: "CS-1B", DepartmentID: 20, ClassesPerWeek: 3},
			{ID: 32, Code: "MA-1A", DepartmentID: 21, ClassesPerWeek: 3},
		},
	}
}

func newTestScheduler(t *testing.T, parameters *Parameters, catalog *domain.Catalog, opts ...Option) *Scheduler {
	t.Helper()

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(parameters, catalog, opts...)
	require.NoError(t, err)

	s.rng = rand.New(rand.NewSource(s.seed))
	return s
}
