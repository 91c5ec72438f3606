package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnhub/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	topicListTTL   = 5 * time.Minute
	commentListTTL = 5 * time.Minute
)

type DiscussionRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDiscussionRepository(db *gorm.DB, rdb *redis.Client) *DiscussionRepository {
	return &DiscussionRepository{db: db, rdb: rdb}
}

func topicListKey(courseID uuid.UUID, lectureID *uuid.UUID) string {
	// Ключ включает оба параметра запроса, чтобы устаревший список
	// никогда не перекрыл чужой
	if lectureID != nil {
		return "topics:list:" + courseID.String() + ":" + lectureID.String()
	}
	return "topics:list:" + courseID.String() + ":all"
}

func commentListKey(topicID uuid.UUID) string {
	return "comments:list:" + topicID.String()
}

// === ТЕМЫ ===

// Сырые строки тем, закрепленные сверху, дальше новые.
// Голоса и счетчики сюда не входят — они считаются на каждый запрос.
func (r *DiscussionRepository) ListTopics(ctx context.Context, courseID uuid.UUID, lectureID *uuid.UUID) ([]domain.Topic, error) {
	key := topicListKey(courseID, lectureID)

	if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var cached []domain.Topic
		if json.Unmarshal([]byte(val), &cached) == nil {
			return cached, nil
		}
	}

	var topics []domain.Topic
	query := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if lectureID != nil {
		query = query.Where("lecture_id = ?", *lectureID)
	}
	err := query.Order("pinned desc, created_at desc").Find(&topics).Error
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(topics); err == nil {
		r.rdb.Set(ctx, key, data, topicListTTL)
	}
	return topics, nil
}

func (r *DiscussionRepository) GetTopic(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	var topic domain.Topic
	err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

func (r *DiscussionRepository) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
		return err
	}
	r.invalidateTopicLists(ctx, topic.CourseID, topic.LectureID)
	return nil
}

// Обновление только своей темы: фильтр по user_id прямо в UPDATE.
// Ноль затронутых строк — значит либо темы нет, либо она чужая.
func (r *DiscussionRepository) UpdateTopic(ctx context.Context, id, userID uuid.UUID, title, content string) error {
	result := r.db.WithContext(ctx).Model(&domain.Topic{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"title": title, "content": content})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotOwner
	}
	r.invalidateForTopic(ctx, id)
	return nil
}

func (r *DiscussionRepository) DeleteTopic(ctx context.Context, id, userID uuid.UUID) error {
	// Ключи собираем до удаления, после строки уже не будет
	topic, err := r.GetTopic(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Topic{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotOwner
	}

	r.invalidateTopicLists(ctx, topic.CourseID, topic.LectureID)
	r.rdb.Del(ctx, commentListKey(id))
	return nil
}

func (r *DiscussionRepository) SetTopicSolved(ctx context.Context, id, userID uuid.UUID, solved bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Topic{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("solved", solved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotOwner
	}
	r.invalidateForTopic(ctx, id)
	return nil
}

// === КОММЕНТАРИИ ===

// Решение наверху, остальные по времени.
func (r *DiscussionRepository) ListComments(ctx context.Context, topicID uuid.UUID) ([]domain.Comment, error) {
	key := commentListKey(topicID)

	if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var cached []domain.Comment
		if json.Unmarshal([]byte(val), &cached) == nil {
			return cached, nil
		}
	}

	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("is_solution desc, created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(comments); err == nil {
		r.rdb.Set(ctx, key, data, commentListTTL)
	}
	return comments, nil
}

func (r *DiscussionRepository) GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *DiscussionRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	r.rdb.Del(ctx, commentListKey(comment.TopicID))
	return nil
}

func (r *DiscussionRepository) UpdateComment(ctx context.Context, id, userID uuid.UUID, content string) error {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	result := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotOwner
	}
	r.rdb.Del(ctx, commentListKey(comment.TopicID))
	return nil
}

func (r *DiscussionRepository) DeleteComment(ctx context.Context, id, userID uuid.UUID) error {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotOwner
	}
	r.rdb.Del(ctx, commentListKey(comment.TopicID))
	return nil
}

// MarkCommentSolution помечает комментарий решением. Проверка, что действует
// владелец темы, и каскад "решение -> тема решена" идут одной транзакцией.
// Снятие отметки тему обратно в нерешенные НЕ переводит.
func (r *DiscussionRepository) MarkCommentSolution(ctx context.Context, commentID, topicID, actingUserID uuid.UUID, isSolution bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic domain.Topic
		if err := tx.First(&topic, "id = ?", topicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if topic.UserID != actingUserID {
			return domain.ErrNotOwner
		}

		result := tx.Model(&domain.Comment{}).
			Where("id = ? AND topic_id = ?", commentID, topicID).
			Update("is_solution", isSolution)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if isSolution && !topic.Solved {
			if err := tx.Model(&domain.Topic{}).
				Where("id = ?", topicID).
				Update("solved", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Каскад трогает и тему, и комментарии — сбрасываем оба списка
	r.invalidateForTopic(ctx, topicID)
	r.rdb.Del(ctx, commentListKey(topicID))
	return nil
}

// === ГОЛОСА ===

func (r *DiscussionRepository) VotesForTopics(ctx context.Context, topicIDs []uuid.UUID) ([]domain.Vote, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	var votes []domain.Vote
	err := r.db.WithContext(ctx).
		Where("topic_id IN ?", topicIDs).
		Find(&votes).Error
	return votes, err
}

func (r *DiscussionRepository) VotesForComments(ctx context.Context, commentIDs []uuid.UUID) ([]domain.Vote, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var votes []domain.Vote
	err := r.db.WithContext(ctx).
		Where("comment_id IN ?", commentIDs).
		Find(&votes).Error
	return votes, err
}

// Количество комментариев пачкой, одним GROUP BY
func (r *DiscussionRepository) CommentCounts(ctx context.Context, topicIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	if len(topicIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TopicID uuid.UUID
		Cnt     int
	}
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("topic_id, count(*) as cnt").
		Where("topic_id IN ?", topicIDs).
		Group("topic_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TopicID] = row.Cnt
	}
	return counts, nil
}

// ToggleVote — одна логическая операция: нет голоса — вставляем, тот же
// vote_type — убираем, другой — переписываем. Проверка "посмотрел-вставил"
// сама по себе гонку не закрывает, страховка — уникальный индекс
// (user_id, target): конкурентная вставка упадет в duplicated key, и мы
// трактуем ее как уже учтенный голос.
func (r *DiscussionRepository) ToggleVote(ctx context.Context, userID uuid.UUID, topicID, commentID *uuid.UUID, voteType int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", userID)
		if topicID != nil {
			query = query.Where("topic_id = ?", *topicID)
		} else {
			query = query.Where("comment_id = ?", *commentID)
		}

		var existing domain.Vote
		err := query.First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			vote := domain.Vote{
				ID:        uuid.New(),
				UserID:    userID,
				TopicID:   topicID,
				CommentID: commentID,
				VoteType:  voteType,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Кто-то успел раньше из другой вкладки — голос уже есть
					return nil
				}
				return err
			}
			return nil
		}
		if err != nil {
			return err
		}

		if existing.VoteType == voteType {
			// Повторный клик тем же голосом — снимаем
			return tx.Delete(&domain.Vote{}, "id = ?", existing.ID).Error
		}
		return tx.Model(&domain.Vote{}).
			Where("id = ?", existing.ID).
			Update("vote_type", voteType).Error
	})
	return err
}

func (r *DiscussionRepository) invalidateForTopic(ctx context.Context, topicID uuid.UUID) {
	topic, err := r.GetTopic(ctx, topicID)
	if err != nil {
		return
	}
	r.invalidateTopicLists(ctx, topic.CourseID, topic.LectureID)
}

func (r *DiscussionRepository) invalidateTopicLists(ctx context.Context, courseID uuid.UUID, lectureID *uuid.UUID) {
	// Общий список курса и, если тема привязана к лекции, ее список
	r.rdb.Del(ctx, topicListKey(courseID, nil))
	if lectureID != nil {
		r.rdb.Del(ctx, topicListKey(courseID, lectureID))
	}
}
