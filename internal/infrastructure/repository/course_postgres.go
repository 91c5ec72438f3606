package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

// Версия неймспейса списков. INCR при любой мутации каталога —
// старые ключи просто перестают читаться и умирают по TTL.
func (r *CourseRepository) listVersion(ctx context.Context) int64 {
	ver, err := r.rdb.Get(ctx, "courses:ver").Int64()
	if err != nil {
		return 0
	}
	return ver
}

func (r *CourseRepository) bumpListVersion(ctx context.Context) {
	r.rdb.Incr(ctx, "courses:ver")
}

// === СПИСОК КУРСОВ (кеш 10 минут) ===
func (r *CourseRepository) List(ctx context.Context, search, category string, onlyPublished bool, limit, offset int) ([]domain.Course, int64, error) {
	key := fmt.Sprintf("courses:list:v%d:%s:%s:%t:%d:%d",
		r.listVersion(ctx), search, category, onlyPublished, limit, offset)

	if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var result struct {
			Courses []domain.Course
			Total   int64
		}
		if json.Unmarshal([]byte(val), &result) == nil {
			return result.Courses, result.Total, nil
		}
	}

	var courses []domain.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Course{})
	if onlyPublished {
		query = query.Where("published = ?", true)
	}
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at desc").Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	cacheData := struct {
		Courses []domain.Course
		Total   int64
	}{courses, total}
	if data, err := json.Marshal(cacheData); err == nil {
		r.rdb.Set(ctx, key, data, 10*time.Minute)
	}

	return courses, total, nil
}

// === ОДИН КУРС С ЛЕКЦИЯМИ (кеш 1 час) ===
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	key := "course:detail:" + id.String()

	if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var c domain.Course
		if json.Unmarshal([]byte(val), &c) == nil {
			return &c, nil
		}
	}

	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(course); err == nil {
		r.rdb.Set(ctx, key, data, 1*time.Hour)
	}

	return &course, nil
}

func (r *CourseRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []domain.Course
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	r.bumpListVersion(ctx)
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	result := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"title":       c.Title,
			"description": c.Description,
			"category":    c.Category,
			"course_type": c.CourseType,
			"price_cents": c.PriceCents,
			"cover_url":   c.CoverURL,
			"duration":    c.Duration,
			"published":   c.Published,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	r.invalidateCourse(ctx, c.ID)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	r.invalidateCourse(ctx, id)
	return nil
}

// === ЛЕКЦИИ ===

func (r *CourseRepository) GetLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	var lecture domain.Lecture
	err := r.db.WithContext(ctx).First(&lecture, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *CourseRepository) LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Lecture{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CourseRepository) CreateLecture(ctx context.Context, l *domain.Lecture) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return err
	}
	r.invalidateCourse(ctx, l.CourseID)
	return nil
}

func (r *CourseRepository) UpdateLecture(ctx context.Context, l *domain.Lecture) error {
	result := r.db.WithContext(ctx).Model(&domain.Lecture{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":     l.Title,
			"video_url": l.VideoURL,
			"content":   l.Content,
			"position":  l.Position,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	r.invalidateCourse(ctx, l.CourseID)
	return nil
}

func (r *CourseRepository) DeleteLecture(ctx context.Context, id uuid.UUID) error {
	lecture, err := r.GetLecture(ctx, id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&domain.Lecture{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	r.invalidateCourse(ctx, lecture.CourseID)
	return nil
}

func (r *CourseRepository) invalidateCourse(ctx context.Context, id uuid.UUID) {
	r.rdb.Del(ctx, "course:detail:"+id.String())
	r.bumpListVersion(ctx)
}
