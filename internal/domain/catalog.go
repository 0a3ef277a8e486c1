package domain

type Instructor struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Room struct {
	ID              int64  `json:"id"`
	Number          string `json:"number"`
	SeatingCapacity int32  `json:"seatingCapacity"`
}

// MeetingTime 表示每周固定重复的一个上课时段，与具体日期无关
type MeetingTime struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Day       int32  `json:"day"` // 1 ~ 7 分别表示周一到周日
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Course struct {
	ID            int64   `json:"id"`
	Number        string  `json:"number"`
	Name          string  `json:"name"`
	MaxStudents   int32   `json:"maxStudents"`
	InstructorIDs []int64 `json:"instructorIDs"` // 有资格讲授这门课的教师
}

type Department struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	CourseIDs []int64 `json:"courseIDs"`
}

type Section struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	DepartmentID   int64  `json:"departmentID"`
	ClassesPerWeek int32  `json:"classesPerWeek"`
}

// Catalog 是排课所需的只读数据快照
type Catalog struct {
	Instructors  []Instructor  `json:"instructors"`
	Rooms        []Room        `json:"rooms"`
	MeetingTimes []MeetingTime `json:"meetingTimes"`
	Courses      []Course      `json:"courses"`
	Departments  []Department  `json:"departments"`
	Sections     []Section     `json:"sections"`
}
