package handlers

import (
	"net/http"

	"learnhub/internal/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EnrollmentHandler struct {
	enrollments *usecase.EnrollmentUseCase
}

func NewEnrollmentHandler(e *usecase.EnrollmentUseCase) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: e}
}

// POST /api/v1/courses/:id/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	if err := h.enrollments.Enroll(c, currentUser(c), courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/v1/my/courses
func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	enrollments, err := h.enrollments.MyCourses(c, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// POST /api/v1/lectures/:id/complete — одностороннее, отметку не снять
func (h *EnrollmentHandler) CompleteLecture(c *gin.Context) {
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lecture id"})
		return
	}

	percent, err := h.enrollments.CompleteLecture(c, currentUser(c), lectureID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "progress": percent})
}

// GET /api/v1/courses/:id/progress
func (h *EnrollmentHandler) CompletedLectures(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	ids, err := h.enrollments.CompletedLectures(c, currentUser(c), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_lecture_ids": ids})
}
