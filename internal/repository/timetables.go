package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func (r *Repository) InsertTimetable(timetable *domain.Timetable) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO timetables (fitness, violations, generations, termination, seed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{timetable.Fitness, timetable.Violations, timetable.Generations, timetable.Termination, timetable.Seed}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&timetable.ID, &timetable.CreatedAt, &timetable.Version); err != nil {
		return err
	}

	for position, class := range timetable.Classes {
		query := `
			INSERT INTO timetable_classes (timetable_id, position, section_id, course_id, room_id, meeting_time_id, instructor_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		args := []any{timetable.ID, position, class.SectionID, class.CourseID, class.RoomID, class.MeetingTimeID, class.InstructorID}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTimetableByID(id int64) (*domain.Timetable, error) {
	return r.getTimetable(`WHERE t.id = $1`, id)
}

// GetLatestTimetable 返回最近生成的课表，没有任何课表时返回 sql.ErrNoRows
func (r *Repository) GetLatestTimetable() (*domain.Timetable, error) {
	return r.getTimetable(`WHERE t.id = (SELECT MAX(id) FROM timetables)`)
}

func (r *Repository) getTimetable(where string, args ...any) (*domain.Timetable, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			t.id,
			t.fitness,
			t.violations,
			t.generations,
			t.termination,
			t.seed,
			t.created_at,
			t.version,
			tc.section_id,
			tc.course_id,
			tc.room_id,
			tc.meeting_time_id,
			tc.instructor_id
		FROM timetables t
		LEFT JOIN timetable_classes tc ON t.id = tc.timetable_id
		` + where + `
		ORDER BY tc.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timetable := &domain.Timetable{
		Classes: make([]domain.TimetableClass, 0),
	}

	for rows.Next() {
		var row struct {
			sectionID     sql.NullInt64
			courseID      sql.NullInt64
			roomID        sql.NullInt64
			meetingTimeID sql.NullInt64
			instructorID  sql.NullInt64
		}

		dst := []any{
			&timetable.ID,
			&timetable.Fitness,
			&timetable.Violations,
			&timetable.Generations,
			&timetable.Termination,
			&timetable.Seed,
			&timetable.CreatedAt,
			&timetable.Version,
			&row.sectionID,
			&row.courseID,
			&row.roomID,
			&row.meetingTimeID,
			&row.instructorID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !row.sectionID.Valid {
			// 没有任何课的课表，例如没有需要排的课时
			continue
		}

		timetable.Classes = append(timetable.Classes, domain.TimetableClass{
			SectionID:     row.sectionID.Int64,
			CourseID:      row.courseID.Int64,
			RoomID:        row.roomID.Int64,
			MeetingTimeID: row.meetingTimeID.Int64,
			InstructorID:  row.instructorID.Int64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if timetable.ID == 0 {
		return nil, sql.ErrNoRows
	}

	return timetable, nil
}
