package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// GetCatalog 读取完整的排课目录，各实体按 id 排序，关联列表按插入时的顺序排序
func (r *Repository) GetCatalog() (*domain.Catalog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 使用只读事务保证读到的是同一个快照
	tx, err := r.dbpool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	catalog := &domain.Catalog{
		Instructors:  make([]domain.Instructor, 0),
		Rooms:        make([]domain.Room, 0),
		MeetingTimes: make([]domain.MeetingTime, 0),
		Courses:      make([]domain.Course, 0),
		Departments:  make([]domain.Department, 0),
		Sections:     make([]domain.Section, 0),
	}

	if err := queryRows(ctx, tx, `SELECT id, code, name FROM instructors ORDER BY id`, func(rows *sql.Rows) error {
		var instructor domain.Instructor
		if err := rows.Scan(&instructor.ID, &instructor.Code, &instructor.Name); err != nil {
			return err
		}
		catalog.Instructors = append(catalog.Instructors, instructor)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, `SELECT id, number, seating_capacity FROM rooms ORDER BY id`, func(rows *sql.Rows) error {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Number, &room.SeatingCapacity); err != nil {
			return err
		}
		catalog.Rooms = append(catalog.Rooms, room)
		return nil
	}); err != nil {
		return nil, err
	}

	query := `
		SELECT
			id,
			code,
			day,
			to_char(start_time, 'HH24:MI:SS'),
			to_char(end_time, 'HH24:MI:SS')
		FROM meeting_times
		ORDER BY id
	`
	if err := queryRows(ctx, tx, query, func(rows *sql.Rows) error {
		var mt domain.MeetingTime
		if err := rows.Scan(&mt.ID, &mt.Code, &mt.Day, &mt.StartTime, &mt.EndTime); err != nil {
			return err
		}
		catalog.MeetingTimes = append(catalog.MeetingTimes, mt)
		return nil
	}); err != nil {
		return nil, err
	}

	query = `
		SELECT
			c.id,
			c.number,
			c.name,
			c.max_students,
			ci.instructor_id
		FROM courses c
		LEFT JOIN course_instructors ci ON c.id = ci.course_id
		ORDER BY c.id, ci.position
	`
	coursesMap := make(map[int64]int) // courseID -> catalog.Courses 中的下标
	if err := queryRows(ctx, tx, query, func(rows *sql.Rows) error {
		var row struct {
			ID           int64
			Number       string
			Name         string
			MaxStudents  int32
			InstructorID sql.NullInt64
		}
		if err := rows.Scan(&row.ID, &row.Number, &row.Name, &row.MaxStudents, &row.InstructorID); err != nil {
			return err
		}

		i, exists := coursesMap[row.ID]
		if !exists {
			catalog.Courses = append(catalog.Courses, domain.Course{
				ID:            row.ID,
				Number:        row.Number,
				Name:          row.Name,
				MaxStudents:   row.MaxStudents,
				InstructorIDs: make([]int64, 0),
			})
			i = len(catalog.Courses) - 1
			coursesMap[row.ID] = i
		}

		if !row.InstructorID.Valid {
			// 没有可授课教师的课程，排课时会报错，这里照常返回
			return nil
		}
		catalog.Courses[i].InstructorIDs = append(catalog.Courses[i].InstructorIDs, row.InstructorID.Int64)
		return nil
	}); err != nil {
		return nil, err
	}

	query = `
		SELECT
			d.id,
			d.name,
			dc.course_id
		FROM departments d
		LEFT JOIN department_courses dc ON d.id = dc.department_id
		ORDER BY d.id, dc.position
	`
	departmentsMap := make(map[int64]int)
	if err := queryRows(ctx, tx, query, func(rows *sql.Rows) error {
		var row struct {
			ID       int64
			Name     string
			CourseID sql.NullInt64
		}
		if err := rows.Scan(&row.ID, &row.Name, &row.CourseID); err != nil {
			return err
		}

		i, exists := departmentsMap[row.ID]
		if !exists {
			catalog.Departments = append(catalog.Departments, domain.Department{
				ID:        row.ID,
				Name:      row.Name,
				CourseIDs: make([]int64, 0),
			})
			i = len(catalog.Departments) - 1
			departmentsMap[row.ID] = i
		}

		if row.CourseID.Valid {
			catalog.Departments[i].CourseIDs = append(catalog.Departments[i].CourseIDs, row.CourseID.Int64)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, `SELECT id, code, department_id, classes_per_week FROM sections ORDER BY id`, func(rows *sql.Rows) error {
		var section domain.Section
		if err := rows.Scan(&section.ID, &section.Code, &section.DepartmentID, &section.ClassesPerWeek); err != nil {
			return err
		}
		catalog.Sections = append(catalog.Sections, section)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return catalog, nil
}

// ReplaceCatalog 用新的目录整体替换旧的目录
// 旧目录下生成的课表已经没有意义，会随目录一起删除
func (r *Repository) ReplaceCatalog(catalog *domain.Catalog) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 关联表都设置了 ON DELETE CASCADE
	for _, table := range []string{"timetables", "sections", "departments", "courses", "meeting_times", "rooms", "instructors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, instructor := range catalog.Instructors {
		query := `INSERT INTO instructors (id, code, name) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, instructor.ID, instructor.Code, instructor.Name); err != nil {
			return err
		}
	}

	for _, room := range catalog.Rooms {
		query := `INSERT INTO rooms (id, number, seating_capacity) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, room.ID, room.Number, room.SeatingCapacity); err != nil {
			return err
		}
	}

	for _, mt := range catalog.MeetingTimes {
		query := `INSERT INTO meeting_times (id, code, day, start_time, end_time) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, mt.ID, mt.Code, mt.Day, mt.StartTime, mt.EndTime); err != nil {
			return err
		}
	}

	for _, course := range catalog.Courses {
		query := `INSERT INTO courses (id, number, name, max_students) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, query, course.ID, course.Number, course.Name, course.MaxStudents); err != nil {
			return err
		}

		for position, instructorID := range course.InstructorIDs {
			query := `INSERT INTO course_instructors (course_id, instructor_id, position) VALUES ($1, $2, $3)`
			if _, err := tx.ExecContext(ctx, query, course.ID, instructorID, position); err != nil {
				return err
			}
		}
	}

	for _, department := range catalog.Departments {
		query := `INSERT INTO departments (id, name) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, department.ID, department.Name); err != nil {
			return err
		}

		for position, courseID := range department.CourseIDs {
			query := `INSERT INTO department_courses (department_id, course_id, position) VALUES ($1, $2, $3)`
			if _, err := tx.ExecContext(ctx, query, department.ID, courseID, position); err != nil {
				return err
			}
		}
	}

	for _, section := range catalog.Sections {
		query := `INSERT INTO sections (id, code, department_id, classes_per_week) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, query, section.ID, section.Code, section.DepartmentID, section.ClassesPerWeek); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func queryRows(ctx context.Context, tx *sql.Tx, query string, scan func(rows *sql.Rows) error) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
