package usecase

import (
	"sort"

	"learnhub/internal/domain"

	"github.com/google/uuid"
)

// Обогащенные представления для выдачи наружу. vote_count, user_vote и
// comment_count в базе не хранятся — считаются здесь из сырых строк.

type AuthorView struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type TopicView struct {
	domain.Topic
	VoteCount    int        `json:"vote_count"`
	UserVote     int        `json:"user_vote"`
	CommentCount int        `json:"comment_count"`
	Author       AuthorView `json:"user_profile"`
}

type CommentView struct {
	domain.Comment
	VoteCount int        `json:"vote_count"`
	UserVote  int        `json:"user_vote"`
	Author    AuthorView `json:"user_profile"`
}

// Автор по умолчанию, когда профиль не нашелся (удален или не доехал) —
// отсутствие побочных данных не должно валить выдачу
func authorView(profiles map[uuid.UUID]domain.Profile, userID uuid.UUID) AuthorView {
	if p, ok := profiles[userID]; ok {
		return AuthorView{Username: p.Username, AvatarURL: p.AvatarURL}
	}
	return AuthorView{Username: "Anonymous"}
}

// AggregateTopics собирает представления тем: сумма голосов по теме, голос
// текущего пользователя (0 для анонима), количество комментариев, автор.
// Чистая функция, никогда не возвращает ошибку.
func AggregateTopics(
	topics []domain.Topic,
	votes []domain.Vote,
	commentCounts map[uuid.UUID]int,
	profiles map[uuid.UUID]domain.Profile,
	currentUser uuid.UUID,
) []TopicView {
	sums := make(map[uuid.UUID]int)
	own := make(map[uuid.UUID]int)
	for _, v := range votes {
		if v.TopicID == nil {
			continue
		}
		sums[*v.TopicID] += v.VoteType
		if currentUser != uuid.Nil && v.UserID == currentUser {
			own[*v.TopicID] = v.VoteType
		}
	}

	views := make([]TopicView, 0, len(topics))
	for _, t := range topics {
		views = append(views, TopicView{
			Topic:        t,
			VoteCount:    sums[t.ID],
			UserVote:     own[t.ID],
			CommentCount: commentCounts[t.ID],
			Author:       authorView(profiles, t.UserID),
		})
	}

	// Закрепленные сверху, дальше свежие
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Pinned != views[j].Pinned {
			return views[i].Pinned
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

// AggregateComments — то же для комментариев: решение наверху, потом по времени.
func AggregateComments(
	comments []domain.Comment,
	votes []domain.Vote,
	profiles map[uuid.UUID]domain.Profile,
	currentUser uuid.UUID,
) []CommentView {
	sums := make(map[uuid.UUID]int)
	own := make(map[uuid.UUID]int)
	for _, v := range votes {
		if v.CommentID == nil {
			continue
		}
		sums[*v.CommentID] += v.VoteType
		if currentUser != uuid.Nil && v.UserID == currentUser {
			own[*v.CommentID] = v.VoteType
		}
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			Comment:   c,
			VoteCount: sums[c.ID],
			UserVote:  own[c.ID],
			Author:    authorView(profiles, c.UserID),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsSolution != views[j].IsSolution {
			return views[i].IsSolution
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}
