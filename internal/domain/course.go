package domain

import (
	"time"

	"github.com/google/uuid"
)

// Тип доступа курса. Пустое значение — доступ не настроен, пускаем всех.
const (
	CourseTypeBasic   = "basic"
	CourseTypePremium = "premium"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"index;not null" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	CourseType  string    `json:"course_type"` // basic | premium | ""
	PriceCents  int       `gorm:"default:0" json:"price_cents"`
	CoverURL    string    `json:"cover_url"`
	Duration    string    `json:"duration"`
	Published   bool      `gorm:"default:false;index" json:"published"`

	Lectures []Lecture `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"lectures,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

type Lecture struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;index;not null" json:"course_id"`
	Title    string    `gorm:"not null" json:"title"`
	VideoURL string    `json:"video_url"`
	Content  string    `json:"content"`
	Position int       `json:"position"` // порядок в курсе (1, 2, 3...)

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lecture) TableName() string {
	return "lectures"
}
