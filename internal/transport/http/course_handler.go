package handlers

import (
	"net/http"
	"strconv"

	"learnhub/internal/domain"
	"learnhub/internal/infrastructure/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	profiles    *repository.ProfileRepository
}

func NewCourseHandler(c *repository.CourseRepository, e *repository.EnrollmentRepository, p *repository.ProfileRepository) *CourseHandler {
	return &CourseHandler{courses: c, enrollments: e, profiles: p}
}

// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}

	courses, total, err := h.courses.List(c, search, category, true, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": total})
}

// GET /api/v1/courses/:id
// Не записанным на курс лекции отдаются без контента и видео —
// только оглавление
func (h *CourseHandler) GetOne(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	course, err := h.courses.GetByID(c, courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.canSeeContent(c, courseID) {
		stripped := make([]domain.Lecture, len(course.Lectures))
		for i, l := range course.Lectures {
			l.VideoURL = ""
			l.Content = ""
			stripped[i] = l
		}
		course.Lectures = stripped
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) canSeeContent(c *gin.Context, courseID uuid.UUID) bool {
	userID := currentUser(c)
	if userID == uuid.Nil {
		return false
	}
	if enrolled, err := h.enrollments.IsEnrolled(c, userID, courseID); err == nil && enrolled {
		return true
	}
	// Админ видит все
	if profile, err := h.profiles.GetByID(c, userID); err == nil && profile.IsAdmin() {
		return true
	}
	return false
}

// === АДМИНКА (за AdminOnly) ===

type courseReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CourseType  string `json:"course_type" binding:"omitempty,oneof=basic premium"`
	PriceCents  int    `json:"price_cents" binding:"gte=0"`
	CoverURL    string `json:"cover_url"`
	Duration    string `json:"duration"`
	Published   bool   `json:"published"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := &domain.Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CourseType:  req.CourseType,
		PriceCents:  req.PriceCents,
		CoverURL:    req.CoverURL,
		Duration:    req.Duration,
		Published:   req.Published,
	}
	if err := h.courses.Create(c, course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := &domain.Course{
		ID:          courseID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CourseType:  req.CourseType,
		PriceCents:  req.PriceCents,
		CoverURL:    req.CoverURL,
		Duration:    req.Duration,
		Published:   req.Published,
	}
	if err := h.courses.Update(c, course); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	if err := h.courses.Delete(c, courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type lectureReq struct {
	Title    string `json:"title" binding:"required"`
	VideoURL string `json:"video_url"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// POST /api/v1/admin/courses/:id/lectures
func (h *CourseHandler) CreateLecture(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	var req lectureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lecture := &domain.Lecture{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		Content:  req.Content,
		Position: req.Position,
	}
	if err := h.courses.CreateLecture(c, lecture); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lecture)
}

func (h *CourseHandler) UpdateLecture(c *gin.Context) {
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lecture id"})
		return
	}
	var req lectureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.courses.GetLecture(c, lectureID)
	if err != nil {
		respondError(c, err)
		return
	}
	existing.Title = req.Title
	existing.VideoURL = req.VideoURL
	existing.Content = req.Content
	existing.Position = req.Position

	if err := h.courses.UpdateLecture(c, existing); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) DeleteLecture(c *gin.Context) {
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lecture id"})
		return
	}
	if err := h.courses.DeleteLecture(c, lectureID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
