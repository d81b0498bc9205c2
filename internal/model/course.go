package model

import "time"

// Course is a catalog entry students can enroll in.
type Course struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Department  string    `json:"department"`
	TeacherID   *int      `json:"teacher_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID         int       `json:"id"`
	CourseID   int       `json:"course_id"`
	StudentID  int       `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Course     *Course   `json:"course,omitempty"`
}
