package domain

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CourseID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"course_id"`
	LectureID *uuid.UUID `gorm:"type:uuid;index" json:"lecture_id,omitempty"` // опционально: тема к конкретной лекции
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`

	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Pinned  bool   `gorm:"default:false" json:"pinned"`
	Solved  bool   `gorm:"default:false" json:"solved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Topic) TableName() string {
	return "discussion_topics"
}

type Comment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TopicID uuid.UUID `gorm:"type:uuid;index;not null" json:"topic_id"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Content    string `gorm:"type:text;not null" json:"content"`
	IsSolution bool   `gorm:"default:false" json:"is_solution"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "discussion_comments"
}

// Голос за тему ИЛИ за комментарий — заполнено ровно одно из двух полей.
// Уникальные индексы (user_id, topic_id) и (user_id, comment_id) держат
// инвариант "один голос на цель": NULL в Postgres не конфликтует.
type Vote struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_topic;uniqueIndex:idx_votes_user_comment" json:"user_id"`
	TopicID   *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_votes_user_topic" json:"topic_id,omitempty"`
	CommentID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_votes_user_comment" json:"comment_id,omitempty"`
	VoteType  int        `gorm:"not null" json:"vote_type"` // +1 или -1
	CreatedAt time.Time  `json:"created_at"`
}

func (Vote) TableName() string {
	return "discussion_votes"
}
