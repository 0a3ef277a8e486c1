package scheduler

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// EnumerateClasses 根据目录生成需要排的课
// 对于每个教学班，按照院系中课程的顺序循环选课，直到满足该教学班每周需要上的课数
// 结果只与目录有关，顺序稳定
func EnumerateClasses(catalog *domain.Catalog) ([]ClassSpec, error) {
	// 每门课都必须至少有一位可授课的教师，否则无法满足基因约束
	for _, course := range catalog.Courses {
		if len(course.InstructorIDs) == 0 {
			return nil, fmt.Errorf("%w: 课程 %s 没有可授课的教师", ErrEmptyCatalog, course.Number)
		}
	}

	courses := lo.KeyBy(catalog.Courses, func(c domain.Course) int64 { return c.ID })
	departments := lo.KeyBy(catalog.Departments, func(d domain.Department) int64 { return d.ID })

	classes := make([]ClassSpec, 0)
	for _, section := range catalog.Sections {
		department, exists := departments[section.DepartmentID]
		if !exists {
			return nil, fmt.Errorf("%w: 教学班 %s 所属的院系 %d 不存在", ErrInvalidCatalog, section.Code, section.DepartmentID)
		}
		if len(department.CourseIDs) == 0 {
			return nil, fmt.Errorf("%w: 教学班 %s 所属的院系 %s 没有任何课程", ErrEmptyCatalog, section.Code, department.Name)
		}
		if section.ClassesPerWeek < 0 {
			return nil, fmt.Errorf("%w: 教学班 %s 每周课数不能为负数", ErrInvalidCatalog, section.Code)
		}

		for _, courseID := range department.CourseIDs {
			if _, exists := courses[courseID]; !exists {
				return nil, fmt.Errorf("%w: 院系 %s 中的课程 %d 不存在", ErrInvalidCatalog, department.Name, courseID)
			}
		}

		// 课数超过院系课程数时从头循环
		for i := 0; i < int(section.ClassesPerWeek); i++ {
			classes = append(classes, ClassSpec{
				SectionID: section.ID,
				CourseID:  department.CourseIDs[i%len(department.CourseIDs)],
			})
		}
	}

	return classes, nil
}
