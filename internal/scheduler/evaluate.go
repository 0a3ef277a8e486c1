package scheduler

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// Evaluation 是对一份现成课表的打分
type Evaluation struct {
	Fitness    float64        `json:"fitness"`
	Violations int            `json:"violations"`
	Conflicts  map[string]int `json:"conflicts"`
}

// Evaluate 用与遗传算法相同的约束给一份现成的课表打分，例如手动调整过的课表
// 课表中的每节课都必须引用目录中存在的实体，并且教师有资格讲授对应的课程
func Evaluate(catalog *domain.Catalog, classes []domain.TimetableClass) (*Evaluation, error) {
	specs := lo.Map(classes, func(c domain.TimetableClass, _ int) ClassSpec {
		return ClassSpec{SectionID: c.SectionID, CourseID: c.CourseID}
	})
	enumerate := func(*domain.Catalog) ([]ClassSpec, error) {
		return specs, nil
	}

	s, err := New(DefaultParameters(), catalog, WithEnumerator(enumerate))
	if err != nil {
		return nil, err
	}

	rooms := indexByID(catalog.Rooms, func(r domain.Room) int64 { return r.ID })
	meetingTimes := indexByID(catalog.MeetingTimes, func(mt domain.MeetingTime) int64 { return mt.ID })
	instructors := indexByID(catalog.Instructors, func(i domain.Instructor) int64 { return i.ID })

	ch := &Chromosome{genes: make([]Gene, len(s.templates))}
	copy(ch.genes, s.templates)
	for i, class := range classes {
		room, exists := rooms[class.RoomID]
		if !exists {
			return nil, fmt.Errorf("%w: 教室 %d 不存在", ErrInvalidCatalog, class.RoomID)
		}
		meetingTime, exists := meetingTimes[class.MeetingTimeID]
		if !exists {
			return nil, fmt.Errorf("%w: 时段 %d 不存在", ErrInvalidCatalog, class.MeetingTimeID)
		}
		instructor, exists := instructors[class.InstructorID]
		if !exists {
			return nil, fmt.Errorf("%w: 教师 %d 不存在", ErrInvalidCatalog, class.InstructorID)
		}
		ch.setAssignment(i, room, meetingTime, instructor)
	}

	if err := s.checkInvariants(ch); err != nil {
		return nil, err
	}

	s.calcFitness(ch)
	return &Evaluation{
		Fitness:    ch.fitness,
		Violations: ch.violations,
		Conflicts:  s.explain(ch),
	}, nil
}
