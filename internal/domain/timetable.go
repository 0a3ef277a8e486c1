package domain

import "time"

type TimetableClass struct {
	SectionID     int64 `json:"sectionID"`
	CourseID      int64 `json:"courseID"`
	RoomID        int64 `json:"roomID"`
	MeetingTimeID int64 `json:"meetingTimeID"`
	InstructorID  int64 `json:"instructorID"`
}

type Timetable struct {
	ID          int64            `json:"id"`
	Classes     []TimetableClass `json:"classes"`
	Fitness     float64          `json:"fitness"`
	Violations  int32            `json:"violations"`
	Generations int32            `json:"generations"`
	Termination string           `json:"termination"`
	Seed        int64            `json:"seed"`
	CreatedAt   time.Time        `json:"createdAt"`
	Version     int32            `json:"-"`
}
