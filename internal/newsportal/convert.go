package newsportal

import (
	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/db"
)

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func NewCategory(c db.Category) Category {
	return Category{Category: c}
}

func NewAd(a db.Ad) Ad {
	return Ad{Ad: a}
}

func NewUser(u db.User) User {
	return User{User: u}
}

func NewComment(c db.Comment) Comment {
	return Comment{Comment: c}
}

// NewPost converts a stored post and attaches a summary of summaryLength runes.
// The author's password hash is dropped.
func NewPost(p db.Post, summaryLength int) Post {
	if p.Author != nil {
		author := *p.Author
		author.PasswordHash = ""
		p.Author = &author
	}

	return Post{
		Post:    p,
		Summary: archive.Summary(p.Article, summaryLength),
	}
}

func NewPosts(list []db.Post, summaryLength int) []Post {
	return Map(list, func(p db.Post) Post { return NewPost(p, summaryLength) })
}

func postIDs(list []Post) []int {
	ids := make([]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

// threadComments links accepted comments to their replies and returns the comments
// that are not themselves replies, in their original order.
func threadComments(list []db.Comment) []Comment {
	nodes := Map(list, NewComment)
	index := make(map[int]*Comment, len(nodes))
	for i := range nodes {
		index[nodes[i].ID] = &nodes[i]
	}

	replies := make(map[int]struct{})
	for i := range nodes {
		if nodes[i].ReplyID == nil {
			continue
		}
		if reply, ok := index[*nodes[i].ReplyID]; ok {
			nodes[i].Reply = reply
			replies[reply.ID] = struct{}{}
		}
	}

	thread := make([]Comment, 0, len(nodes)-len(replies))
	for i := range nodes {
		if _, ok := replies[nodes[i].ID]; !ok {
			thread = append(thread, nodes[i])
		}
	}

	return thread
}
