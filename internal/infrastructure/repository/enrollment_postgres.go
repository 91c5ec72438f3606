package repository

import (
	"context"
	"errors"
	"time"

	"learnhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll идемпотентна: повторное нажатие кнопки не создает дубль
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	enrollment := domain.Enrollment{UserID: userID, CourseID: courseID}
	return r.db.WithContext(ctx).
		Where(domain.Enrollment{UserID: userID, CourseID: courseID}).
		Attrs(domain.Enrollment{
			Status:         domain.EnrollmentActive,
			LastAccessedAt: time.Now(),
		}).
		FirstOrCreate(&enrollment).Error
}

func (r *EnrollmentRepository) Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotEnrolled
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

// UpdateProgress пишет пересчитанный процент на enrollment.
// Вниз прогресс не откатываем (зашли со второго устройства со старым кешем),
// завершенный курс обратно в active не переводим.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, percent int) (string, error) {
	var existing domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotEnrolled
		}
		return "", err
	}

	if existing.Status == domain.EnrollmentCompleted {
		r.db.WithContext(ctx).Model(&existing).Update("last_accessed_at", time.Now())
		return domain.EnrollmentCompleted, nil
	}

	if percent <= existing.Progress {
		r.db.WithContext(ctx).Model(&existing).Update("last_accessed_at", time.Now())
		return existing.Status, nil
	}

	status := domain.EnrollmentActive
	if percent >= 100 {
		status = domain.EnrollmentCompleted
		percent = 100
	}

	err = r.db.WithContext(ctx).Model(&domain.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{
			"progress":         percent,
			"status":           status,
			"last_accessed_at": time.Now(),
		}).Error

	return status, err
}

// Отметка лекции. FirstOrCreate — идемпотентный upsert
func (r *EnrollmentRepository) MarkLectureComplete(ctx context.Context, item *domain.LectureProgress) error {
	return r.db.WithContext(ctx).FirstOrCreate(item).Error
}

func (r *EnrollmentRepository) CompletedLectureIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.LectureProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Pluck("lecture_id", &ids).Error
	return ids, err
}
