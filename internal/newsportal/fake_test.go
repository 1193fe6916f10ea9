package newsportal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/db"
)

// memRepo is an in-memory Repository used by manager tests.
type memRepo struct {
	posts      []db.Post
	categories []db.Category
	links      []db.PostCategory
	comments   []db.Comment
	ads        []db.Ad
	users      []db.User

	failWith error
	// writeErr fails post writes only
	writeErr error
}

var _ Repository = (*memRepo)(nil)

func (r *memRepo) matches(p db.Post, f db.ArchiveFilter) bool {
	if p.PublishDate.Before(f.Start) || p.PublishDate.After(f.End) {
		return false
	}

	search := strings.ToLower(f.Search)
	if !strings.Contains(strings.ToLower(p.Title), search) && !strings.Contains(strings.ToLower(p.Article), search) {
		return false
	}

	if f.CategoryID != nil {
		for _, l := range r.links {
			if l.PostID == p.ID && l.CategoryID == *f.CategoryID {
				return true
			}
		}
		return false
	}

	return true
}

func (r *memRepo) acceptedCount(postID int) int {
	n := 0
	for _, c := range r.comments {
		if c.PostID == postID && c.IsAccepted {
			n++
		}
	}
	return n
}

func (r *memRepo) filter(f db.ArchiveFilter) []db.Post {
	var list []db.Post
	for _, p := range r.posts {
		if r.matches(p, f) {
			list = append(list, p)
		}
	}

	key := func(p db.Post) int64 {
		switch f.Order.Field {
		case archive.FieldVisits:
			return int64(p.Visits)
		case archive.FieldImportance:
			return int64(p.Importance)
		case archive.FieldAcceptedComments:
			return int64(r.acceptedCount(p.ID))
		default:
			return p.PublishDate.UnixNano()
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := key(list[i]), key(list[j])
		if a == b {
			a, b = int64(list[i].ID), int64(list[j].ID)
		}
		if f.Order.Desc {
			return a > b
		}
		return a < b
	})

	return list
}

func (r *memRepo) ArchivePosts(_ context.Context, f db.ArchiveFilter, limit, offset int) ([]db.Post, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("bad limit %d or offset %d", limit, offset)
	}

	list := r.filter(f)
	if offset >= len(list) {
		return []db.Post{}, nil
	}

	return list[offset:min(offset+limit, len(list))], nil
}

func (r *memRepo) ArchiveCount(_ context.Context, f db.ArchiveFilter) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	return len(r.filter(f)), nil
}

func (r *memRepo) AcceptedCommentCounts(_ context.Context, postIDs []int) (map[int]int, error) {
	counts := make(map[int]int)
	for _, id := range postIDs {
		if n := r.acceptedCount(id); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (r *memRepo) Categories(context.Context) ([]db.Category, error) {
	list := append([]db.Category{}, r.categories...)
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *memRepo) CategoryBySlug(_ context.Context, slug string) (*db.Category, error) {
	for _, c := range r.categories {
		if c.URLName == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memRepo) CategoriesByIDs(_ context.Context, ids []int) ([]db.Category, error) {
	list := []db.Category{}
	for _, c := range r.categories {
		for _, id := range ids {
			if c.ID == id {
				list = append(list, c)
				break
			}
		}
	}
	return list, nil
}

func (r *memRepo) PostCategories(_ context.Context, postIDs []int) ([]db.PostCategory, error) {
	list := []db.PostCategory{}
	for _, l := range r.links {
		for _, id := range postIDs {
			if l.PostID == id {
				list = append(list, l)
			}
		}
	}
	return list, nil
}

func (r *memRepo) RandomAds(_ context.Context, limit int) ([]db.Ad, error) {
	return r.ads[:min(limit, len(r.ads))], nil
}

func (r *memRepo) sorted(exclude []int, less func(a, b db.Post) bool) []db.Post {
	var list []db.Post
outer:
	for _, p := range r.posts {
		for _, id := range exclude {
			if p.ID == id {
				continue outer
			}
		}
		p.Author = r.user(p.AuthorID)
		list = append(list, p)
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}

func head(list []db.Post, limit int) []db.Post {
	return list[:min(limit, len(list))]
}

func (r *memRepo) ImportantPosts(_ context.Context, limit int) ([]db.Post, error) {
	return head(r.sorted(nil, func(a, b db.Post) bool {
		ad, bd := a.PublishDate.Truncate(24*time.Hour), b.PublishDate.Truncate(24*time.Hour)
		if !ad.Equal(bd) {
			return ad.After(bd)
		}
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		return a.Visits > b.Visits
	}), limit), nil
}

func (r *memRepo) MostVisitedPost(_ context.Context, from, to time.Time, exclude []int) (*db.Post, error) {
	for _, p := range r.sorted(exclude, func(a, b db.Post) bool { return a.Visits > b.Visits }) {
		if !p.PublishDate.Before(from) && p.PublishDate.Before(to) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memRepo) PopularPosts(_ context.Context, exclude []int, limit int) ([]db.Post, error) {
	return head(r.sorted(exclude, func(a, b db.Post) bool { return a.Visits > b.Visits }), limit), nil
}

func (r *memRepo) LatestPosts(_ context.Context, categoryID *int, exclude []int, limit int) ([]db.Post, error) {
	list := r.sorted(exclude, func(a, b db.Post) bool { return a.PublishDate.After(b.PublishDate) })
	if categoryID != nil {
		var filtered []db.Post
		for _, p := range list {
			if r.matches(p, db.ArchiveFilter{End: p.PublishDate, Start: p.PublishDate, CategoryID: categoryID}) {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}
	return head(list, limit), nil
}

func (r *memRepo) PostsByAuthor(_ context.Context, authorID, limit int) ([]db.Post, error) {
	var list []db.Post
	for _, p := range r.posts {
		if p.AuthorID != nil && *p.AuthorID == authorID {
			list = append(list, p)
		}
	}
	return head(list, limit), nil
}

func (r *memRepo) user(id *int) *db.User {
	if id == nil {
		return nil
	}
	for _, u := range r.users {
		if u.ID == *id {
			return &u
		}
	}
	return nil
}

func (r *memRepo) PostByID(_ context.Context, postID int) (*db.Post, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, p := range r.posts {
		if p.ID == postID {
			p.Author = r.user(p.AuthorID)
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memRepo) IncrementVisits(_ context.Context, postID int) (int, error) {
	for i := range r.posts {
		if r.posts[i].ID == postID {
			r.posts[i].Visits++
			return r.posts[i].Visits, nil
		}
	}
	return 0, errors.New("no rows")
}

func (r *memRepo) setLinks(postID int, categoryIDs []int) {
	kept := r.links[:0]
	for _, l := range r.links {
		if l.PostID != postID {
			kept = append(kept, l)
		}
	}
	r.links = kept
	for _, id := range categoryIDs {
		r.links = append(r.links, db.PostCategory{PostID: postID, CategoryID: id})
	}
}

func (r *memRepo) CreatePost(_ context.Context, post *db.Post, categoryIDs []int) error {
	post.ID = len(r.posts) + 100
	r.posts = append(r.posts, *post)
	r.setLinks(post.ID, categoryIDs)
	return nil
}

func (r *memRepo) UpdatePost(_ context.Context, post *db.Post, categoryIDs []int) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	for i := range r.posts {
		if r.posts[i].ID == post.ID {
			r.posts[i] = *post
			r.setLinks(post.ID, categoryIDs)
			return nil
		}
	}
	return errors.New("no rows")
}

func (r *memRepo) DeletePost(_ context.Context, postID int) error {
	for i := range r.posts {
		if r.posts[i].ID == postID {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memRepo) AcceptedComments(_ context.Context, postID int) ([]db.Comment, error) {
	list := []db.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID && c.IsAccepted {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *memRepo) CommentByID(ctx context.Context, commentID int) (*db.Comment, error) {
	for _, c := range r.comments {
		if c.ID == commentID {
			c.Post, _ = r.PostByID(ctx, c.PostID)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memRepo) CreateComment(_ context.Context, comment *db.Comment, repliedOn *int) error {
	target := -1
	if repliedOn != nil {
		for i, c := range r.comments {
			if c.ID == *repliedOn && c.PostID == comment.PostID && c.ReplyID == nil {
				target = i
			}
		}
		if target < 0 {
			return db.ErrReplyTaken
		}
	}

	comment.ID = len(r.comments) + 1
	r.comments = append(r.comments, *comment)
	if target >= 0 {
		r.comments[target].ReplyID = &comment.ID
	}
	return nil
}

func (r *memRepo) AcceptComment(_ context.Context, commentID int) (bool, error) {
	for i := range r.comments {
		if r.comments[i].ID == commentID {
			r.comments[i].IsAccepted = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) PendingComments(_ context.Context, authorID, limit int) ([]db.Comment, error) {
	list := []db.Comment{}
	for _, c := range r.comments {
		if c.IsAccepted {
			continue
		}
		for _, p := range r.posts {
			if p.ID == c.PostID && p.AuthorID != nil && *p.AuthorID == authorID {
				list = append(list, c)
			}
		}
	}
	return list[:min(limit, len(list))], nil
}

func (r *memRepo) UserByID(_ context.Context, userID int) (*db.User, error) {
	return r.user(&userID), nil
}

// memCache keeps JSON values like the redis cache does.
type memCache struct {
	values map[string][]byte
	gets   int
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, v any) (bool, error) {
	c.gets++
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

type memImages struct {
	saved   []string
	deleted []string
}

func (s *memImages) Save(content io.Reader, filename string, _ int64) (string, error) {
	if _, err := io.ReadAll(content); err != nil {
		return "", err
	}
	ref := fmt.Sprintf("img-%d-%s", len(s.saved)+1, filename)
	s.saved = append(s.saved, ref)
	return ref, nil
}

func (s *memImages) Delete(ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

type notice struct {
	to        string
	postID    int
	commentID int
}

type memNotifier struct {
	sent []notice
}

func (n *memNotifier) CommentAwaitingModeration(_ context.Context, author db.User, post db.Post, comment db.Comment) error {
	n.sent = append(n.sent, notice{to: author.Email, postID: post.ID, commentID: comment.ID})
	return nil
}

var (
	testNow    = time.Date(2023, time.January, 31, 18, 0, 0, 0, time.UTC)
	authorID   = 1
	strangerID = 2
)

// newTestManager builds a manager over 31 January posts: post N is published on
// January N with N visits and importance N%3. Odd posts are in sport, even in tech.
func newTestManager() (*Manager, *memRepo, *memCache, *memImages, *memNotifier) {
	repo := &memRepo{
		categories: []db.Category{
			{ID: 1, Name: "Sport", URLName: "sport"},
			{ID: 2, Name: "Tech", URLName: "tech"},
		},
		users: []db.User{
			{ID: authorID, Username: "editor", Email: "editor@example.com", PasswordHash: "$2a$10$editorhash"},
			{ID: strangerID, Username: "reader", Email: "reader@example.com"},
		},
		ads: []db.Ad{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}, {ID: 3, Title: "c"}, {ID: 4, Title: "d"}},
	}

	for day := 1; day <= 31; day++ {
		repo.posts = append(repo.posts, db.Post{
			ID:          day,
			Title:       fmt.Sprintf("Post %d", day),
			Importance:  day % 3,
			PublishDate: time.Date(2023, time.January, day, 9, 0, 0, 0, time.UTC),
			Image:       fmt.Sprintf("post-%d.jpg", day),
			Article:     fmt.Sprintf("<p>Body of <b>post</b> %d.</p>", day),
			Visits:      day,
			AuthorID:    &authorID,
		})
		repo.links = append(repo.links, db.PostCategory{PostID: day, CategoryID: 2 - day%2})
	}

	cache := newMemCache()
	images := &memImages{}
	notifier := &memNotifier{}

	m := NewManager(repo, cache, images, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.now = func() time.Time { return testNow }

	return m, repo, cache, images, notifier
}
