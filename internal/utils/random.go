package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/samber/lo"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName(rng *rand.Rand) string {
	surname := commonSurnames[rng.Intn(len(commonSurnames))]
	nameLength := rng.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rng.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// GenerateInstructorCode 由姓名的拼音首字母和序号组成教师编号，例如 张伟 -> ZW007
func GenerateInstructorCode(chineseName string, seq int) string {
	initials := ""
	for _, p := range pinyin.LazyConvert(chineseName, nil) {
		if p == "" {
			continue
		}
		initials += strings.ToUpper(p[:1])
	}
	return fmt.Sprintf("%s%03d", initials, seq)
}

var departmentNames = []string{"计算机学院", "数学学院", "物理学院", "电子工程学院", "管理学院", "外国语学院", "化学学院", "生命科学学院"}
var departmentPrefixes = []string{"CS", "MA", "PH", "EE", "BA", "FL", "CH", "BI"}
var courseSubjects = []string{"导论", "基础", "原理", "方法", "专题", "实验", "进阶", "研讨"}

// 上课时段的开始时间，每节课 50 分钟
var slotStartHours = []int{8, 10, 14, 16, 19}

type RandomCatalogOptions struct {
	Departments       int
	CoursesPerDept    int
	Instructors       int
	Rooms             int
	Days              int // 每周上课的天数，1 ~ 7
	SlotsPerDay       int // 每天的时段数，最多 len(slotStartHours)
	SectionsPerDept   int
	ClassesPerSection int
}

func DefaultRandomCatalogOptions() RandomCatalogOptions {
	return RandomCatalogOptions{
		Departments:       3,
		CoursesPerDept:    4,
		Instructors:       10,
		Rooms:             6,
		Days:              5,
		SlotsPerDay:       4,
		SectionsPerDept:   2,
		ClassesPerSection: 4,
	}
}

// GenerateRandomCatalog 生成一个结构合法的随机目录
// 每门课至少有一位可授课教师，每个院系至少有一门课，但不保证存在零冲突的课表
func GenerateRandomCatalog(rng *rand.Rand, opts RandomCatalogOptions) (*domain.Catalog, error) {
	switch {
	case opts.Departments < 1 || opts.Departments > len(departmentNames):
		return nil, fmt.Errorf("院系数量必须在 1 ~ %d 之间", len(departmentNames))
	case opts.CoursesPerDept < 1:
		return nil, fmt.Errorf("每个院系至少需要一门课")
	case opts.Instructors < 1:
		return nil, fmt.Errorf("至少需要一位教师")
	case opts.Rooms < 1:
		return nil, fmt.Errorf("至少需要一间教室")
	case opts.Days < 1 || opts.Days > 7:
		return nil, fmt.Errorf("每周上课天数必须在 1 ~ 7 之间")
	case opts.SlotsPerDay < 1 || opts.SlotsPerDay > len(slotStartHours):
		return nil, fmt.Errorf("每天的时段数必须在 1 ~ %d 之间", len(slotStartHours))
	case opts.SectionsPerDept < 0 || opts.ClassesPerSection < 0:
		return nil, fmt.Errorf("教学班数量和每周课时数不能为负数")
	}

	catalog := &domain.Catalog{}

	for i := 0; i < opts.Instructors; i++ {
		name := GenerateRandomChineseName(rng)
		catalog.Instructors = append(catalog.Instructors, domain.Instructor{
			ID:   int64(i + 1),
			Code: GenerateInstructorCode(name, i+1),
			Name: name,
		})
	}

	for i := 0; i < opts.Rooms; i++ {
		catalog.Rooms = append(catalog.Rooms, domain.Room{
			ID:              int64(i + 1),
			Number:          fmt.Sprintf("R%d%02d", i/10+1, i%10+1),
			SeatingCapacity: int32(rng.Intn(10)+3) * 10, // 30 ~ 120
		})
	}

	for day := 1; day <= opts.Days; day++ {
		for slot := 0; slot < opts.SlotsPerDay; slot++ {
			id := int64(len(catalog.MeetingTimes) + 1)
			catalog.MeetingTimes = append(catalog.MeetingTimes, domain.MeetingTime{
				ID:        id,
				Code:      fmt.Sprintf("MT%02d", id),
				Day:       int32(day),
				StartTime: fmt.Sprintf("%02d:00:00", slotStartHours[slot]),
				EndTime:   fmt.Sprintf("%02d:50:00", slotStartHours[slot]),
			})
		}
	}

	instructorIDs := lo.Map(catalog.Instructors, func(i domain.Instructor, _ int) int64 { return i.ID })
	for d := 0; d < opts.Departments; d++ {
		department := domain.Department{
			ID:   int64(d + 1),
			Name: departmentNames[d],
		}

		for c := 0; c < opts.CoursesPerDept; c++ {
			id := int64(len(catalog.Courses) + 1)
			perm := rng.Perm(len(instructorIDs))[:min(len(instructorIDs), rng.Intn(2)+1)]
			qualified := lo.Map(perm, func(i int, _ int) int64 { return instructorIDs[i] })
			catalog.Courses = append(catalog.Courses, domain.Course{
				ID:            id,
				Number:        fmt.Sprintf("%s%d%02d", departmentPrefixes[d], c/4+1, c%4+1),
				Name:          strings.TrimSuffix(departmentNames[d], "学院") + courseSubjects[c%len(courseSubjects)],
				MaxStudents:   int32(rng.Intn(8)+2) * 10, // 20 ~ 90
				InstructorIDs: qualified,
			})
			department.CourseIDs = append(department.CourseIDs, id)
		}
		catalog.Departments = append(catalog.Departments, department)

		for s := 0; s < opts.SectionsPerDept; s++ {
			catalog.Sections = append(catalog.Sections, domain.Section{
				ID:             int64(len(catalog.Sections) + 1),
				Code:           fmt.Sprintf("%s-%d%c", departmentPrefixes[d], s/2+1, 'A'+s%2),
				DepartmentID:   department.ID,
				ClassesPerWeek: int32(opts.ClassesPerSection),
			})
		}
	}

	return catalog, nil
}
