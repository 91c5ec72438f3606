package usecase

import (
	"context"
	"log"
	"strings"

	"learnhub/internal/domain"

	"github.com/google/uuid"
)

// Хранилище обсуждений. Интерфейс сидит у потребителя, чтобы в тестах
// подставлялся in-memory фейк вместо Postgres.
type DiscussionStore interface {
	ListTopics(ctx context.Context, courseID uuid.UUID, lectureID *uuid.UUID) ([]domain.Topic, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	CreateTopic(ctx context.Context, topic *domain.Topic) error
	UpdateTopic(ctx context.Context, id, userID uuid.UUID, title, content string) error
	DeleteTopic(ctx context.Context, id, userID uuid.UUID) error
	SetTopicSolved(ctx context.Context, id, userID uuid.UUID, solved bool) error

	ListComments(ctx context.Context, topicID uuid.UUID) ([]domain.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	CreateComment(ctx context.Context, comment *domain.Comment) error
	UpdateComment(ctx context.Context, id, userID uuid.UUID, content string) error
	DeleteComment(ctx context.Context, id, userID uuid.UUID) error
	MarkCommentSolution(ctx context.Context, commentID, topicID, actingUserID uuid.UUID, isSolution bool) error

	VotesForTopics(ctx context.Context, topicIDs []uuid.UUID) ([]domain.Vote, error)
	VotesForComments(ctx context.Context, commentIDs []uuid.UUID) ([]domain.Vote, error)
	CommentCounts(ctx context.Context, topicIDs []uuid.UUID) (map[uuid.UUID]int, error)
	ToggleVote(ctx context.Context, userID uuid.UUID, topicID, commentID *uuid.UUID, voteType int) error
}

type ProfileReader interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Profile, error)
}

type DiscussionUseCase struct {
	store    DiscussionStore
	profiles ProfileReader
}

func NewDiscussionUseCase(store DiscussionStore, profiles ProfileReader) *DiscussionUseCase {
	return &DiscussionUseCase{store: store, profiles: profiles}
}

// === ЧТЕНИЕ ===

// ListTopics отдает темы курса (или лекции) с голосами и счетчиками.
// currentUser == uuid.Nil — аноним, user_vote у него всегда 0.
// Ошибки по голосам/профилям не валят выдачу — там дефолты.
func (uc *DiscussionUseCase) ListTopics(ctx context.Context, currentUser, courseID uuid.UUID, lectureID *uuid.UUID) ([]TopicView, error) {
	topics, err := uc.store.ListTopics(ctx, courseID, lectureID)
	if err != nil {
		return nil, err
	}

	topicIDs := make([]uuid.UUID, len(topics))
	authorIDs := make([]uuid.UUID, 0, len(topics))
	for i, t := range topics {
		topicIDs[i] = t.ID
		authorIDs = append(authorIDs, t.UserID)
	}

	votes, err := uc.store.VotesForTopics(ctx, topicIDs)
	if err != nil {
		log.Printf("discussion: votes lookup failed: %v", err)
		votes = nil
	}
	counts, err := uc.store.CommentCounts(ctx, topicIDs)
	if err != nil {
		log.Printf("discussion: comment counts failed: %v", err)
		counts = nil
	}
	profiles, err := uc.profiles.GetByIDs(ctx, authorIDs)
	if err != nil {
		log.Printf("discussion: profiles lookup failed: %v", err)
		profiles = nil
	}

	return AggregateTopics(topics, votes, counts, profiles, currentUser), nil
}

// GetTopic — тема + ее комментарии, все обогащенное
func (uc *DiscussionUseCase) GetTopic(ctx context.Context, currentUser, topicID uuid.UUID) (*TopicView, []CommentView, error) {
	topic, err := uc.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, nil, err
	}

	comments, err := uc.store.ListComments(ctx, topicID)
	if err != nil {
		return nil, nil, err
	}

	commentIDs := make([]uuid.UUID, len(comments))
	authorIDs := []uuid.UUID{topic.UserID}
	for i, c := range comments {
		commentIDs[i] = c.ID
		authorIDs = append(authorIDs, c.UserID)
	}

	topicVotes, err := uc.store.VotesForTopics(ctx, []uuid.UUID{topicID})
	if err != nil {
		log.Printf("discussion: topic votes lookup failed: %v", err)
		topicVotes = nil
	}
	commentVotes, err := uc.store.VotesForComments(ctx, commentIDs)
	if err != nil {
		log.Printf("discussion: comment votes lookup failed: %v", err)
		commentVotes = nil
	}
	counts, err := uc.store.CommentCounts(ctx, []uuid.UUID{topicID})
	if err != nil {
		counts = nil
	}
	profiles, err := uc.profiles.GetByIDs(ctx, authorIDs)
	if err != nil {
		profiles = nil
	}

	topicViews := AggregateTopics([]domain.Topic{*topic}, topicVotes, counts, profiles, currentUser)
	commentViews := AggregateComments(comments, commentVotes, profiles, currentUser)
	return &topicViews[0], commentViews, nil
}

// === МУТАЦИИ ===

func (uc *DiscussionUseCase) CreateTopic(ctx context.Context, userID, courseID uuid.UUID, lectureID *uuid.UUID, title, content string) (*domain.Topic, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, domain.ErrValidation
	}

	topic := &domain.Topic{
		ID:        uuid.New(),
		CourseID:  courseID,
		LectureID: lectureID,
		UserID:    userID,
		Title:     title,
		Content:   content,
		Pinned:    false,
		Solved:    false,
	}
	if err := uc.store.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (uc *DiscussionUseCase) UpdateTopic(ctx context.Context, userID, topicID uuid.UUID, title, content string) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return domain.ErrValidation
	}
	return uc.store.UpdateTopic(ctx, topicID, userID, title, content)
}

func (uc *DiscussionUseCase) DeleteTopic(ctx context.Context, userID, topicID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return uc.store.DeleteTopic(ctx, topicID, userID)
}

func (uc *DiscussionUseCase) MarkTopicSolved(ctx context.Context, userID, topicID uuid.UUID, solved bool) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return uc.store.SetTopicSolved(ctx, topicID, userID, solved)
}

func (uc *DiscussionUseCase) CreateComment(ctx context.Context, userID, topicID uuid.UUID, content string) (*domain.Comment, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrValidation
	}
	// Комментарий к несуществующей теме не принимаем
	if _, err := uc.store.GetTopic(ctx, topicID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:      uuid.New(),
		TopicID: topicID,
		UserID:  userID,
		Content: content,
	}
	if err := uc.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *DiscussionUseCase) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, content string) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return domain.ErrValidation
	}
	return uc.store.UpdateComment(ctx, commentID, userID, content)
}

func (uc *DiscussionUseCase) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return uc.store.DeleteComment(ctx, commentID, userID)
}

// MarkCommentSolution: отметить/снять решение может только владелец темы.
// При isSolution=true тема становится solved (каскад в хранилище,
// одной транзакцией). Обратного каскада нет.
func (uc *DiscussionUseCase) MarkCommentSolution(ctx context.Context, userID, commentID, topicID uuid.UUID, isSolution bool) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return uc.store.MarkCommentSolution(ctx, commentID, topicID, userID, isSolution)
}

func (uc *DiscussionUseCase) VoteTopic(ctx context.Context, userID, topicID uuid.UUID, voteType int) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if voteType != 1 && voteType != -1 {
		return domain.ErrValidation
	}
	return uc.store.ToggleVote(ctx, userID, &topicID, nil, voteType)
}

func (uc *DiscussionUseCase) VoteComment(ctx context.Context, userID, commentID uuid.UUID, voteType int) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if voteType != 1 && voteType != -1 {
		return domain.ErrValidation
	}
	return uc.store.ToggleVote(ctx, userID, nil, &commentID, voteType)
}
