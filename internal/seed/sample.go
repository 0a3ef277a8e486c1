package seed

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

var sampleInstructors = [][2]string{
	// 计算机
	{"I001", "Dr. Emily Chen"},
	{"I002", "Prof. James Wilson"},
	{"I003", "Dr. Sarah Martinez"},
	{"I004", "Prof. Michael Thompson"},
	// 数学
	{"I005", "Dr. Robert Anderson"},
	{"I006", "Prof. Lisa Patel"},
	// 物理
	{"I007", "Dr. David Kim"},
	{"I008", "Prof. Jennifer White"},
	// 电子工程
	{"I009", "Dr. Christopher Lee"},
	{"I010", "Prof. Amanda Garcia"},
	// 管理
	{"I011", "Dr. William Taylor"},
	{"I012", "Prof. Michelle Brown"},
}

var sampleRooms = []struct {
	number   string
	capacity int32
}{
	{"LH101", 120},
	{"LH102", 100},
	{"CR201", 50},
	{"CR202", 45},
	{"CR203", 40},
	{"SR301", 25},
	{"SR302", 25},
	{"LAB01", 35},
	{"LAB02", 30},
	{"LAB03", 25},
}

// 每天 5 个时段，周一到周五
var sampleSlots = [][2]string{
	{"08:45:00", "09:45:00"},
	{"10:00:00", "11:00:00"},
	{"11:00:00", "12:00:00"},
	{"13:00:00", "14:00:00"},
	{"14:15:00", "15:15:00"},
}

var sampleCourses = []struct {
	number      string
	name        string
	maxStudents int32
	instructors []string
}{
	{"CS101", "Introduction to Programming", 45, []string{"I001", "I002"}},
	{"CS102", "Data Structures", 40, []string{"I001", "I003"}},
	{"CS201", "Algorithms", 35, []string{"I002", "I003"}},
	{"CS202", "Database Systems", 40, []string{"I003", "I004"}},
	{"CS301", "Software Engineering", 30, []string{"I004", "I002"}},
	{"CS302", "Computer Networks", 35, []string{"I001", "I004"}},
	{"CS401", "Machine Learning", 25, []string{"I003", "I001"}},
	{"MA101", "Calculus I", 80, []string{"I005", "I006"}},
	{"MA102", "Linear Algebra", 60, []string{"I005", "I006"}},
	{"MA201", "Differential Equations", 45, []string{"I006", "I005"}},
	{"MA301", "Probability & Statistics", 50, []string{"I005", "I006"}},
	{"PH101", "Physics I: Mechanics", 90, []string{"I007", "I008"}},
	{"PH102", "Physics II: E&M", 70, []string{"I008", "I007"}},
	{"PH201", "Modern Physics", 35, []string{"I007", "I008"}},
	{"EE101", "Circuit Analysis", 50, []string{"I009", "I010"}},
	{"EE201", "Electronics", 40, []string{"I010", "I009"}},
	{"EE301", "Digital Systems", 35, []string{"I009", "I010"}},
	{"BA101", "Principles of Management", 80, []string{"I011", "I012"}},
	{"BA201", "Marketing Fundamentals", 60, []string{"I012", "I011"}},
	{"BA301", "Business Analytics", 40, []string{"I011", "I012"}},
}

var sampleDepartments = []struct {
	name    string
	courses []string
}{
	{"Computer Science", []string{"CS101", "CS102", "CS201", "CS202", "CS301", "CS302", "CS401"}},
	{"Mathematics", []string{"MA101", "MA102", "MA201", "MA301"}},
	{"Physics", []string{"PH101", "PH102", "PH201"}},
	{"Electrical Engineering", []string{"EE101", "EE201", "EE301"}},
	{"Business Administration", []string{"BA101", "BA201", "BA301"}},
}

var sampleSections = []struct {
	code           string
	department     string
	classesPerWeek int32
}{
	{"CS-1A", "Computer Science", 7},
	{"CS-1B", "Computer Science", 7},
	{"CS-2A", "Computer Science", 6},
	{"MA-1A", "Mathematics", 4},
	{"MA-1B", "Mathematics", 4},
	{"PH-1A", "Physics", 3},
	{"EE-1A", "Electrical Engineering", 3},
	{"EE-2A", "Electrical Engineering", 3},
	{"BA-1A", "Business Administration", 3},
	{"BA-1B", "Business Administration", 3},
}

// SampleCatalog 返回一个模拟大学的目录：5 个院系、20 门课、12 位教师、10 间教室、25 个时段、10 个教学班
// 各实体的 id 从 1 开始按声明顺序分配
func SampleCatalog() *domain.Catalog {
	catalog := &domain.Catalog{}

	instructorIDs := make(map[string]int64)
	for i, data := range sampleInstructors {
		id := int64(i + 1)
		catalog.Instructors = append(catalog.Instructors, domain.Instructor{ID: id, Code: data[0], Name: data[1]})
		instructorIDs[data[0]] = id
	}

	for i, data := range sampleRooms {
		catalog.Rooms = append(catalog.Rooms, domain.Room{ID: int64(i + 1), Number: data.number, SeatingCapacity: data.capacity})
	}

	for day := int32(1); day <= 5; day++ {
		for _, slot := range sampleSlots {
			id := int64(len(catalog.MeetingTimes) + 1)
			catalog.MeetingTimes = append(catalog.MeetingTimes, domain.MeetingTime{
				ID:        id,
				Code:      fmt.Sprintf("MT%02d", id),
				Day:       day,
				StartTime: slot[0],
				EndTime:   slot[1],
			})
		}
	}

	courseIDs := make(map[string]int64)
	for i, data := range sampleCourses {
		id := int64(i + 1)
		catalog.Courses = append(catalog.Courses, domain.Course{
			ID:            id,
			Number:        data.number,
			Name:          data.name,
			MaxStudents:   data.maxStudents,
			InstructorIDs: lo.Map(data.instructors, func(code string, _ int) int64 { return instructorIDs[code] }),
		})
		courseIDs[data.number] = id
	}

	departmentIDs := make(map[string]int64)
	for i, data := range sampleDepartments {
		id := int64(i + 1)
		catalog.Departments = append(catalog.Departments, domain.Department{
			ID:        id,
			Name:      data.name,
			CourseIDs: lo.Map(data.courses, func(number string, _ int) int64 { return courseIDs[number] }),
		})
		departmentIDs[data.name] = id
	}

	for i, data := range sampleSections {
		catalog.Sections = append(catalog.Sections, domain.Section{
			ID:             int64(i + 1),
			Code:           data.code,
			DepartmentID:   departmentIDs[data.department],
			ClassesPerWeek: data.classesPerWeek,
		})
	}

	return catalog
}
