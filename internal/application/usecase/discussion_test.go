package usecase

import (
	"context"
	"sort"
	"testing"

	"learnhub/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory хранилище обсуждений с той же семантикой владения и
// переключения голосов, что и у Postgres-реализации.
type fakeDiscussionStore struct {
	topics   map[uuid.UUID]*domain.Topic
	comments map[uuid.UUID]*domain.Comment
	votes    []domain.Vote
}

func newFakeDiscussionStore() *fakeDiscussionStore {
	return &fakeDiscussionStore{
		topics:   make(map[uuid.UUID]*domain.Topic),
		comments: make(map[uuid.UUID]*domain.Comment),
	}
}

func (s *fakeDiscussionStore) ListTopics(_ context.Context, courseID uuid.UUID, lectureID *uuid.UUID) ([]domain.Topic, error) {
	var out []domain.Topic
	for _, t := range s.topics {
		if t.CourseID != courseID {
			continue
		}
		if lectureID != nil && (t.LectureID == nil || *t.LectureID != *lectureID) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *fakeDiscussionStore) GetTopic(_ context.Context, id uuid.UUID) (*domain.Topic, error) {
	t, ok := s.topics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeDiscussionStore) CreateTopic(_ context.Context, topic *domain.Topic) error {
	cp := *topic
	s.topics[topic.ID] = &cp
	return nil
}

func (s *fakeDiscussionStore) UpdateTopic(_ context.Context, id, userID uuid.UUID, title, content string) error {
	t, ok := s.topics[id]
	if !ok || t.UserID != userID {
		return domain.ErrNotOwner
	}
	t.Title, t.Content = title, content
	return nil
}

func (s *fakeDiscussionStore) DeleteTopic(_ context.Context, id, userID uuid.UUID) error {
	t, ok := s.topics[id]
	if !ok || t.UserID != userID {
		return domain.ErrNotOwner
	}
	delete(s.topics, id)
	return nil
}

func (s *fakeDiscussionStore) SetTopicSolved(_ context.Context, id, userID uuid.UUID, solved bool) error {
	t, ok := s.topics[id]
	if !ok || t.UserID != userID {
		return domain.ErrNotOwner
	}
	t.Solved = solved
	return nil
}

func (s *fakeDiscussionStore) ListComments(_ context.Context, topicID uuid.UUID) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range s.comments {
		if c.TopicID == topicID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeDiscussionStore) GetComment(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeDiscussionStore) CreateComment(_ context.Context, comment *domain.Comment) error {
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *fakeDiscussionStore) UpdateComment(_ context.Context, id, userID uuid.UUID, content string) error {
	c, ok := s.comments[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotOwner
	}
	c.Content = content
	return nil
}

func (s *fakeDiscussionStore) DeleteComment(_ context.Context, id, userID uuid.UUID) error {
	c, ok := s.comments[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotOwner
	}
	delete(s.comments, id)
	return nil
}

func (s *fakeDiscussionStore) MarkCommentSolution(_ context.Context, commentID, topicID, actingUserID uuid.UUID, isSolution bool) error {
	t, ok := s.topics[topicID]
	if !ok {
		return domain.ErrNotFound
	}
	if t.UserID != actingUserID {
		return domain.ErrNotOwner
	}
	c, ok := s.comments[commentID]
	if !ok || c.TopicID != topicID {
		return domain.ErrNotFound
	}
	c.IsSolution = isSolution
	if isSolution && !t.Solved {
		t.Solved = true
	}
	return nil
}

func (s *fakeDiscussionStore) VotesForTopics(_ context.Context, topicIDs []uuid.UUID) ([]domain.Vote, error) {
	want := make(map[uuid.UUID]bool, len(topicIDs))
	for _, id := range topicIDs {
		want[id] = true
	}
	var out []domain.Vote
	for _, v := range s.votes {
		if v.TopicID != nil && want[*v.TopicID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeDiscussionStore) VotesForComments(_ context.Context, commentIDs []uuid.UUID) ([]domain.Vote, error) {
	want := make(map[uuid.UUID]bool, len(commentIDs))
	for _, id := range commentIDs {
		want[id] = true
	}
	var out []domain.Vote
	for _, v := range s.votes {
		if v.CommentID != nil && want[*v.CommentID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeDiscussionStore) CommentCounts(_ context.Context, topicIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	for _, c := range s.comments {
		counts[c.TopicID]++
	}
	out := make(map[uuid.UUID]int, len(topicIDs))
	for _, id := range topicIDs {
		out[id] = counts[id]
	}
	return out, nil
}

func (s *fakeDiscussionStore) ToggleVote(_ context.Context, userID uuid.UUID, topicID, commentID *uuid.UUID, voteType int) error {
	same := func(a, b *uuid.UUID) bool {
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	}
	for i, v := range s.votes {
		if v.UserID == userID && same(v.TopicID, topicID) && same(v.CommentID, commentID) {
			if v.VoteType == voteType {
				s.votes = append(s.votes[:i], s.votes[i+1:]...)
			} else {
				s.votes[i].VoteType = voteType
			}
			return nil
		}
	}
	s.votes = append(s.votes, domain.Vote{
		ID: uuid.New(), UserID: userID, TopicID: topicID, CommentID: commentID, VoteType: voteType,
	})
	return nil
}

type fakeProfileReader struct {
	profiles map[uuid.UUID]domain.Profile
}

func (r *fakeProfileReader) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Profile, error) {
	out := make(map[uuid.UUID]domain.Profile)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newDiscussionFixture() (*DiscussionUseCase, *fakeDiscussionStore, *fakeProfileReader) {
	store := newFakeDiscussionStore()
	profiles := &fakeProfileReader{profiles: make(map[uuid.UUID]domain.Profile)}
	return NewDiscussionUseCase(store, profiles), store, profiles
}

func TestVoteToggle(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newDiscussionFixture()

	user := uuid.New()
	courseID := uuid.New()
	topic, err := uc.CreateTopic(ctx, user, courseID, nil, "Вопрос", "Текст")
	require.NoError(t, err)

	// первый голос создает запись
	require.NoError(t, uc.VoteTopic(ctx, user, topic.ID, 1))
	assert.Len(t, store.votes, 1)
	assert.Equal(t, 1, store.votes[0].VoteType)

	// повторный такой же — снимает
	require.NoError(t, uc.VoteTopic(ctx, user, topic.ID, 1))
	assert.Empty(t, store.votes)

	// противоположный — меняет знак без дублей
	require.NoError(t, uc.VoteTopic(ctx, user, topic.ID, 1))
	require.NoError(t, uc.VoteTopic(ctx, user, topic.ID, -1))
	assert.Len(t, store.votes, 1)
	assert.Equal(t, -1, store.votes[0].VoteType)
}

func TestVoteValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newDiscussionFixture()

	err := uc.VoteTopic(ctx, uuid.New(), uuid.New(), 5)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = uc.VoteComment(ctx, uuid.Nil, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTopicOwnership(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newDiscussionFixture()

	owner := uuid.New()
	stranger := uuid.New()
	topic, err := uc.CreateTopic(ctx, owner, uuid.New(), nil, "Моя тема", "Контент")
	require.NoError(t, err)

	// чужую тему не отредактировать и не удалить
	err = uc.UpdateTopic(ctx, stranger, topic.ID, "Взлом", "Взлом")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Equal(t, "Моя тема", store.topics[topic.ID].Title)

	err = uc.DeleteTopic(ctx, stranger, topic.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Contains(t, store.topics, topic.ID)

	// владельцу можно
	require.NoError(t, uc.UpdateTopic(ctx, owner, topic.ID, "Новый заголовок", "Новый текст"))
	assert.Equal(t, "Новый заголовок", store.topics[topic.ID].Title)
	require.NoError(t, uc.DeleteTopic(ctx, owner, topic.ID))
	assert.NotContains(t, store.topics, topic.ID)
}

func TestCreateTopicValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newDiscussionFixture()

	_, err := uc.CreateTopic(ctx, uuid.Nil, uuid.New(), nil, "Заголовок", "Текст")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.CreateTopic(ctx, uuid.New(), uuid.New(), nil, "   ", "Текст")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.CreateTopic(ctx, uuid.New(), uuid.New(), nil, "Заголовок", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCommentOnMissingTopic(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newDiscussionFixture()

	_, err := uc.CreateComment(ctx, uuid.New(), uuid.New(), "Сирота")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkCommentSolution(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newDiscussionFixture()

	owner := uuid.New()
	helper := uuid.New()
	topic, err := uc.CreateTopic(ctx, owner, uuid.New(), nil, "Как починить?", "Не работает")
	require.NoError(t, err)
	comment, err := uc.CreateComment(ctx, helper, topic.ID, "Перезагрузи")
	require.NoError(t, err)

	// не владелец темы — нельзя, даже автору комментария
	err = uc.MarkCommentSolution(ctx, helper, comment.ID, topic.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.False(t, store.topics[topic.ID].Solved)

	// владелец отмечает — тема каскадно становится решенной
	require.NoError(t, uc.MarkCommentSolution(ctx, owner, comment.ID, topic.ID, true))
	assert.True(t, store.comments[comment.ID].IsSolution)
	assert.True(t, store.topics[topic.ID].Solved)

	// снятие отметки решение с комментария убирает, но тему обратно не переводит
	require.NoError(t, uc.MarkCommentSolution(ctx, owner, comment.ID, topic.ID, false))
	assert.False(t, store.comments[comment.ID].IsSolution)
	assert.True(t, store.topics[topic.ID].Solved)
}

func TestDiscussionFlow(t *testing.T) {
	ctx := context.Background()
	uc, _, profiles := newDiscussionFixture()

	asker := uuid.New()
	helper := uuid.New()
	profiles.profiles[asker] = domain.Profile{ID: asker, Username: "asker"}
	profiles.profiles[helper] = domain.Profile{ID: helper, Username: "helper"}

	courseID := uuid.New()
	topic, err := uc.CreateTopic(ctx, asker, courseID, nil, "Не собирается проект", "Падает на линковке")
	require.NoError(t, err)

	comment, err := uc.CreateComment(ctx, helper, topic.ID, "Почисти кэш сборки")
	require.NoError(t, err)

	require.NoError(t, uc.VoteTopic(ctx, helper, topic.ID, 1))
	require.NoError(t, uc.VoteComment(ctx, asker, comment.ID, 1))

	views, err := uc.ListTopics(ctx, helper, courseID, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].CommentCount)
	assert.Equal(t, 1, views[0].VoteCount)
	assert.Equal(t, 1, views[0].UserVote)
	assert.Equal(t, "asker", views[0].Author.Username)

	require.NoError(t, uc.MarkCommentSolution(ctx, asker, comment.ID, topic.ID, true))

	topicView, commentViews, err := uc.GetTopic(ctx, asker, topic.ID)
	require.NoError(t, err)
	assert.True(t, topicView.Solved)
	require.Len(t, commentViews, 1)
	assert.True(t, commentViews[0].IsSolution)
	assert.Equal(t, 1, commentViews[0].UserVote)
	assert.Equal(t, "helper", commentViews[0].Author.Username)
}
