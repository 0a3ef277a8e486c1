package utils

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// ValidateCatalog 检查目录内部是否自洽：id 唯一、引用存在、时段格式正确
// 院系没有课程、课程没有教师这类问题不在这里检查，排课时会报错
func ValidateCatalog(catalog *domain.Catalog) error {
	instructors, err := uniqueIDs("教师", catalog.Instructors, func(i domain.Instructor) int64 { return i.ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs("教室", catalog.Rooms, func(r domain.Room) int64 { return r.ID }); err != nil {
		return err
	}
	if _, err := uniqueIDs("时段", catalog.MeetingTimes, func(mt domain.MeetingTime) int64 { return mt.ID }); err != nil {
		return err
	}
	courses, err := uniqueIDs("课程", catalog.Courses, func(c domain.Course) int64 { return c.ID })
	if err != nil {
		return err
	}
	departments, err := uniqueIDs("院系", catalog.Departments, func(d domain.Department) int64 { return d.ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs("教学班", catalog.Sections, func(s domain.Section) int64 { return s.ID }); err != nil {
		return err
	}

	for _, room := range catalog.Rooms {
		if room.SeatingCapacity < 1 {
			return fmt.Errorf("教室 %s 的容量必须大于 0", room.Number)
		}
	}

	if err := validateMeetingTimes(catalog.MeetingTimes); err != nil {
		return err
	}

	for _, course := range catalog.Courses {
		if course.MaxStudents < 0 {
			return fmt.Errorf("课程 %s 的人数上限不能为负数", course.Number)
		}
		if len(lo.Uniq(course.InstructorIDs)) != len(course.InstructorIDs) {
			return fmt.Errorf("课程 %s 的教师列表存在重复", course.Number)
		}
		for _, instructorID := range course.InstructorIDs {
			if _, exists := instructors[instructorID]; !exists {
				return fmt.Errorf("课程 %s 的教师 %d 不存在", course.Number, instructorID)
			}
		}
	}

	for _, department := range catalog.Departments {
		if len(lo.Uniq(department.CourseIDs)) != len(department.CourseIDs) {
			return fmt.Errorf("院系 %s 的课程列表存在重复", department.Name)
		}
		for _, courseID := range department.CourseIDs {
			if _, exists := courses[courseID]; !exists {
				return fmt.Errorf("院系 %s 的课程 %d 不存在", department.Name, courseID)
			}
		}
	}

	for _, section := range catalog.Sections {
		if _, exists := departments[section.DepartmentID]; !exists {
			return fmt.Errorf("教学班 %s 所属的院系 %d 不存在", section.Code, section.DepartmentID)
		}
		if section.ClassesPerWeek < 0 {
			return fmt.Errorf("教学班 %s 的每周课时数不能为负数", section.Code)
		}
	}

	return nil
}

func validateMeetingTimes(mts []domain.MeetingTime) error {
	type interval struct {
		start time.Time
		end   time.Time
	}
	intervals := make([]interval, len(mts))

	// 检查每一个时段的格式以及结束时间是不是都大于开始时间
	for i, mt := range mts {
		if mt.Day < 1 || mt.Day > 7 {
			return fmt.Errorf("时段 %s 的星期必须在 1 ~ 7 之间", mt.Code)
		}
		startTime, err := time.Parse("15:04:05", mt.StartTime)
		if err != nil {
			return fmt.Errorf("时段 %s 的开始时间格式错误", mt.Code)
		}
		endTime, err := time.Parse("15:04:05", mt.EndTime)
		if err != nil {
			return fmt.Errorf("时段 %s 的结束时间格式错误", mt.Code)
		}
		if !endTime.After(startTime) {
			return fmt.Errorf("时段 %s 的结束时间必须大于开始时间", mt.Code)
		}
		intervals[i] = interval{start: startTime, end: endTime}
	}

	// 检查同一天的时段之间是否重叠，首尾相接不算重叠
	for i := 0; i < len(mts); i++ {
		for j := i + 1; j < len(mts); j++ {
			if mts[i].Day != mts[j].Day {
				continue
			}
			a, b := intervals[i], intervals[j]
			if a.start.Before(b.end) && b.start.Before(a.end) {
				return fmt.Errorf("时段 %s 和时段 %s 的时间重叠", mts[i].Code, mts[j].Code)
			}
		}
	}

	return nil
}

// ValidateTimetableWithCatalog 检查课表是否与目录对得上
// 每节课引用的实体都必须存在，教师必须有资格讲授这门课，课程必须属于教学班所在的院系，
// 并且每个教学班的课时数必须等于它的每周课时数
// 这里不检查时间冲突，冲突只影响适应度
func ValidateTimetableWithCatalog(timetable *domain.Timetable, catalog *domain.Catalog) error {
	sections := lo.KeyBy(catalog.Sections, func(s domain.Section) int64 { return s.ID })
	courses := lo.KeyBy(catalog.Courses, func(c domain.Course) int64 { return c.ID })
	departments := lo.KeyBy(catalog.Departments, func(d domain.Department) int64 { return d.ID })
	rooms := lo.KeyBy(catalog.Rooms, func(r domain.Room) int64 { return r.ID })
	meetingTimes := lo.KeyBy(catalog.MeetingTimes, func(mt domain.MeetingTime) int64 { return mt.ID })
	instructors := lo.KeyBy(catalog.Instructors, func(i domain.Instructor) int64 { return i.ID })

	classCount := make(map[int64]int32) // sectionID -> 课时数
	for i, class := range timetable.Classes {
		section, exists := sections[class.SectionID]
		if !exists {
			return fmt.Errorf("第 %d 节课的教学班 %d 不存在", i+1, class.SectionID)
		}
		course, exists := courses[class.CourseID]
		if !exists {
			return fmt.Errorf("第 %d 节课的课程 %d 不存在", i+1, class.CourseID)
		}
		if _, exists := rooms[class.RoomID]; !exists {
			return fmt.Errorf("第 %d 节课的教室 %d 不存在", i+1, class.RoomID)
		}
		if _, exists := meetingTimes[class.MeetingTimeID]; !exists {
			return fmt.Errorf("第 %d 节课的时段 %d 不存在", i+1, class.MeetingTimeID)
		}
		instructor, exists := instructors[class.InstructorID]
		if !exists {
			return fmt.Errorf("第 %d 节课的教师 %d 不存在", i+1, class.InstructorID)
		}

		if !lo.Contains(departments[section.DepartmentID].CourseIDs, course.ID) {
			return fmt.Errorf("课程 %s 不属于教学班 %s 所在的院系", course.Number, section.Code)
		}
		if !lo.Contains(course.InstructorIDs, instructor.ID) {
			return fmt.Errorf("教师 %s 没有资格讲授课程 %s", instructor.Name, course.Number)
		}

		classCount[section.ID]++
	}

	for _, section := range catalog.Sections {
		if classCount[section.ID] != section.ClassesPerWeek {
			return fmt.Errorf("教学班 %s 的课时数应为 %d，实际为 %d", section.Code, section.ClassesPerWeek, classCount[section.ID])
		}
	}

	return nil
}

func uniqueIDs[T any](kind string, items []T, id func(T) int64) (map[int64]struct{}, error) {
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, exists := seen[id(item)]; exists {
			return nil, fmt.Errorf("%s id %d 重复", kind, id(item))
		}
		seen[id(item)] = struct{}{}
	}
	return seen, nil
}
