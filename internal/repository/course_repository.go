package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduverse/eduverse-backend/internal/model"
)

// CourseRepository handles course and enrollment data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// ListCourses returns the course catalog, paginated.
func (r *CourseRepository) ListCourses(ctx context.Context, page, perPage int) ([]model.Course, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM courses").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, code, title, description, department, teacher_id, created_at
		 FROM courses ORDER BY code LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Title, &course.Description,
			&course.Department, &course.TeacherID, &course.CreatedAt); err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	return courses, total, rows.Err()
}

// ListEnrollments returns a student's enrollments with course details.
func (r *CourseRepository) ListEnrollments(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.course_id, e.student_id, e.enrolled_at,
		        c.id, c.code, c.title, c.description, c.department, c.teacher_id, c.created_at
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = $1
		 ORDER BY e.enrolled_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		var c model.Course
		if err := rows.Scan(&e.ID, &e.CourseID, &e.StudentID, &e.EnrolledAt,
			&c.ID, &c.Code, &c.Title, &c.Description, &c.Department, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		e.Course = &c
		out = append(out, e)
	}
	return out, rows.Err()
}

// Enroll links a student to a course. A unique constraint on
// (course_id, student_id) rejects duplicates at the database level.
func (r *CourseRepository) Enroll(ctx context.Context, studentID, courseID int) (*model.Enrollment, error) {
	e := &model.Enrollment{CourseID: courseID, StudentID: studentID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (course_id, student_id) VALUES ($1, $2)
		 RETURNING id, enrolled_at`, courseID, studentID).
		Scan(&e.ID, &e.EnrolledAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
