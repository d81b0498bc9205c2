package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eduverse/eduverse-backend/internal/model"
	"github.com/eduverse/eduverse-backend/internal/repository"
)

// ErrAlreadyEnrolled is returned when a student enrolls in a course twice.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// CourseService handles course catalog and enrollment logic.
type CourseService struct {
	courses *repository.CourseRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses *repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

// ListCourses returns the course catalog page.
func (s *CourseService) ListCourses(ctx context.Context, page, perPage int) ([]model.Course, int, error) {
	return s.courses.ListCourses(ctx, page, perPage)
}

// MyEnrollments returns the calling student's enrollments.
func (s *CourseService) MyEnrollments(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	return s.courses.ListEnrollments(ctx, studentID)
}

// Enroll adds the student to a course. Duplicate enrollments surface as
// ErrAlreadyEnrolled via the unique constraint.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID int) (*model.Enrollment, error) {
	enrollment, err := s.courses.Enroll(ctx, studentID, courseID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}
