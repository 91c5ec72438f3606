package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
)

type Enrollment struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"course_id"`

	Progress       int       `gorm:"default:0" json:"progress"` // 0-100
	Status         string    `gorm:"default:'active'" json:"status"`
	LastAccessedAt time.Time `json:"last_accessed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Отметка о пройденной лекции. FirstOrCreate в репозитории гарантирует
// идемпотентность, обратной операции "снять отметку" нет.
type LectureProgress struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"course_id"`
	LectureID uuid.UUID `gorm:"type:uuid;primaryKey" json:"lecture_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (LectureProgress) TableName() string {
	return "lecture_progress"
}

// ComputeProgress считает процент завершения курса по отметкам лекций.
// Пустой курс — 0, без деления на ноль.
func ComputeProgress(completed []bool) int {
	if len(completed) == 0 {
		return 0
	}
	done := 0
	for _, c := range completed {
		if c {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(completed)) * 100))
}
