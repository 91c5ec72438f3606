package usecase

import (
	"context"
	"time"

	"learnhub/internal/domain"

	"github.com/google/uuid"
)

type CourseReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	GetLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
	LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

type EnrollmentStore interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) error
	Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Enrollment, error)
	UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, percent int) (string, error)
	MarkLectureComplete(ctx context.Context, item *domain.LectureProgress) error
	CompletedLectureIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
}

type ProfileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

type EnrollmentUseCase struct {
	enrollments EnrollmentStore
	courses     CourseReader
	profiles    ProfileGetter
}

func NewEnrollmentUseCase(e EnrollmentStore, c CourseReader, p ProfileGetter) *EnrollmentUseCase {
	return &EnrollmentUseCase{enrollments: e, courses: c, profiles: p}
}

// Enroll записывает пользователя на курс, если пускает тариф.
// Тариф и тип курса снимаются один раз в начале операции.
// На отказ хендлер отвечает редиректом на страницу тарифов, запись не пишется.
func (uc *EnrollmentUseCase) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	profile, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if !domain.CanEnroll(profile.EffectiveUserType(time.Now()), course.CourseType) {
		return domain.ErrUpgradeRequired
	}

	return uc.enrollments.Enroll(ctx, userID, courseID)
}

func (uc *EnrollmentUseCase) MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Enrollment, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return uc.enrollments.ListByUser(ctx, userID)
}

// CompleteLecture: идемпотентная отметка + пересчет процента по всему курсу +
// запись на enrollment. Обратной операции нет.
func (uc *EnrollmentUseCase) CompleteLecture(ctx context.Context, userID, lectureID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, domain.ErrUnauthenticated
	}

	lecture, err := uc.courses.GetLecture(ctx, lectureID)
	if err != nil {
		return 0, err
	}

	// Прогресс пишем только записанным на курс
	if _, err := uc.enrollments.Get(ctx, userID, lecture.CourseID); err != nil {
		return 0, err
	}

	err = uc.enrollments.MarkLectureComplete(ctx, &domain.LectureProgress{
		UserID:    userID,
		CourseID:  lecture.CourseID,
		LectureID: lectureID,
	})
	if err != nil {
		return 0, err
	}

	percent, err := uc.courseProgress(ctx, userID, lecture.CourseID)
	if err != nil {
		return 0, err
	}

	if _, err := uc.enrollments.UpdateProgress(ctx, userID, lecture.CourseID, percent); err != nil {
		return 0, err
	}
	return percent, nil
}

func (uc *EnrollmentUseCase) CompletedLectures(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return uc.enrollments.CompletedLectureIDs(ctx, userID, courseID)
}

// Процент курса из полного набора лекций и отметок
func (uc *EnrollmentUseCase) courseProgress(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	lectureIDs, err := uc.courses.LectureIDs(ctx, courseID)
	if err != nil {
		return 0, err
	}
	completedIDs, err := uc.enrollments.CompletedLectureIDs(ctx, userID, courseID)
	if err != nil {
		return 0, err
	}

	done := make(map[uuid.UUID]bool, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = true
	}

	completed := make([]bool, len(lectureIDs))
	for i, id := range lectureIDs {
		completed[i] = done[id]
	}
	return domain.ComputeProgress(completed), nil
}
