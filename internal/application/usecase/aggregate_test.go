package usecase

import (
	"testing"
	"time"

	"learnhub/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAggregateTopics(t *testing.T) {
	topicID := uuid.New()
	author := uuid.New()
	voterA := uuid.New()
	voterB := uuid.New()
	voterC := uuid.New()

	topics := []domain.Topic{
		{ID: topicID, UserID: author, Title: "Как настроить окружение?"},
	}
	votes := []domain.Vote{
		{UserID: voterA, TopicID: &topicID, VoteType: 1},
		{UserID: voterB, TopicID: &topicID, VoteType: 1},
		{UserID: voterC, TopicID: &topicID, VoteType: -1},
	}
	counts := map[uuid.UUID]int{topicID: 4}
	profiles := map[uuid.UUID]domain.Profile{
		author: {ID: author, Username: "ivan", AvatarURL: "http://cdn/a.png"},
	}

	views := AggregateTopics(topics, votes, counts, profiles, voterC)

	assert.Len(t, views, 1)
	assert.Equal(t, 1, views[0].VoteCount) // +1 +1 -1
	assert.Equal(t, -1, views[0].UserVote)
	assert.Equal(t, 4, views[0].CommentCount)
	assert.Equal(t, "ivan", views[0].Author.Username)
}

func TestAggregateTopicsAnonymousViewer(t *testing.T) {
	topicID := uuid.New()
	voter := uuid.New()
	topics := []domain.Topic{{ID: topicID, UserID: uuid.New()}}
	votes := []domain.Vote{{UserID: voter, TopicID: &topicID, VoteType: 1}}

	views := AggregateTopics(topics, votes, nil, nil, uuid.Nil)

	assert.Equal(t, 1, views[0].VoteCount)
	assert.Equal(t, 0, views[0].UserVote)
	// профиль автора не доехал — подставляем заглушку, не падаем
	assert.Equal(t, "Anonymous", views[0].Author.Username)
}

func TestAggregateTopicsOrder(t *testing.T) {
	now := time.Now()
	old := domain.Topic{ID: uuid.New(), Title: "старая", CreatedAt: now.Add(-2 * time.Hour)}
	fresh := domain.Topic{ID: uuid.New(), Title: "свежая", CreatedAt: now}
	pinned := domain.Topic{ID: uuid.New(), Title: "закреп", Pinned: true, CreatedAt: now.Add(-24 * time.Hour)}

	views := AggregateTopics([]domain.Topic{old, fresh, pinned}, nil, nil, nil, uuid.Nil)

	assert.Equal(t, "закреп", views[0].Title)
	assert.Equal(t, "свежая", views[1].Title)
	assert.Equal(t, "старая", views[2].Title)
}

func TestAggregateComments(t *testing.T) {
	now := time.Now()
	first := domain.Comment{ID: uuid.New(), Content: "первый", CreatedAt: now.Add(-time.Hour)}
	second := domain.Comment{ID: uuid.New(), Content: "второй", CreatedAt: now}
	solution := domain.Comment{ID: uuid.New(), Content: "решение", IsSolution: true, CreatedAt: now.Add(-time.Minute)}

	me := uuid.New()
	votes := []domain.Vote{
		{UserID: me, CommentID: &solution.ID, VoteType: 1},
		{UserID: uuid.New(), CommentID: &solution.ID, VoteType: 1},
	}

	views := AggregateComments([]domain.Comment{first, second, solution}, votes, nil, me)

	// решение всегда наверху, остальные по времени создания
	assert.Equal(t, "решение", views[0].Content)
	assert.Equal(t, 2, views[0].VoteCount)
	assert.Equal(t, 1, views[0].UserVote)
	assert.Equal(t, "первый", views[1].Content)
	assert.Equal(t, "второй", views[2].Content)
}
