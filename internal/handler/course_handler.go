package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/middleware"
	"github.com/eduverse/eduverse-backend/internal/response"
	"github.com/eduverse/eduverse-backend/internal/service"
)

// CourseHandler serves the course catalog and enrollments.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// ListCourses returns the course catalog page.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	courses, total, err := h.courses.ListCourses(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, courses, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// MyEnrollments returns the caller's enrollments.
func (h *CourseHandler) MyEnrollments(c *gin.Context) {
	snap := middleware.CurrentUser(c)
	if snap == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollments, err := h.courses.MyEnrollments(c.Request.Context(), snap.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, enrollments)
}

// Enroll adds the caller to a course.
func (h *CourseHandler) Enroll(c *gin.Context) {
	snap := middleware.CurrentUser(c)
	if snap == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := strconv.Atoi(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.courses.Enroll(c.Request.Context(), snap.ID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyEnrolled) {
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, enrollment)
}
