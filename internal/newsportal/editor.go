package newsportal

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/db"
)

const (
	MaxTitleLength = 100
	minImportance  = -32768
	maxImportance  = 32767

	ProfilePostsCount    = 20
	ProfileCommentsCount = 20
)

// validate trims the input and checks it against the post constraints.
func (in *PostInput) validate(requireImage bool) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be 1..%d characters", ErrInvalidInput, MaxTitleLength)
	}

	if strings.TrimSpace(in.Article) == "" {
		return fmt.Errorf("%w: article is required", ErrInvalidInput)
	}

	if in.Importance < minImportance || in.Importance > maxImportance {
		return fmt.Errorf("%w: importance out of range", ErrInvalidInput)
	}

	if requireImage && in.Image == nil {
		return fmt.Errorf("%w: image is required", ErrInvalidInput)
	}

	return nil
}

func (m *Manager) checkCategories(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	unique := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	list, err := m.repo.CategoriesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("db get categories by ids: %w", err)
	}

	if len(list) != len(unique) {
		return fmt.Errorf("%w: unknown category", ErrInvalidInput)
	}

	return nil
}

// CreatePost publishes a new post written by authorID.
func (m *Manager) CreatePost(ctx context.Context, authorID int, in PostInput) (*Post, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	if err := m.checkCategories(ctx, in.CategoryIDs); err != nil {
		return nil, err
	}

	ref, err := m.images.Save(in.Image.Content, in.Image.Filename, in.Image.Size)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	post := &db.Post{
		Title:       in.Title,
		Importance:  in.Importance,
		PublishDate: m.now(),
		Image:       ref,
		Article:     in.Article,
		AuthorID:    &authorID,
	}

	if err := m.repo.CreatePost(ctx, post, in.CategoryIDs); err != nil {
		if derr := m.images.Delete(ref); derr != nil {
			m.log.WarnContext(ctx, "failed to remove orphan image", "image", ref, "error", derr)
		}
		return nil, fmt.Errorf("db create post: %w", err)
	}

	m.invalidateIndex(ctx)

	return m.post(ctx, *post)
}

// UpdatePost edits a post. Only its author may do so; the image is replaced when a new one is given.
func (m *Manager) UpdatePost(ctx context.Context, userID, postID int, in PostInput) (*Post, error) {
	post, err := m.ownPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if err := in.validate(false); err != nil {
		return nil, err
	}

	if err := m.checkCategories(ctx, in.CategoryIDs); err != nil {
		return nil, err
	}

	oldImage := post.Image
	if in.Image != nil {
		ref, err := m.images.Save(in.Image.Content, in.Image.Filename, in.Image.Size)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		post.Image = ref
	}

	post.Title = in.Title
	post.Importance = in.Importance
	post.Article = in.Article

	if err := m.repo.UpdatePost(ctx, post, in.CategoryIDs); err != nil {
		if post.Image != oldImage {
			m.removeImage(ctx, post.Image)
		}
		return nil, fmt.Errorf("db update post: %w", err)
	}

	if post.Image != oldImage {
		m.removeImage(ctx, oldImage)
	}

	m.invalidateIndex(ctx)

	return m.post(ctx, *post)
}

// DeletePost removes a post of userID together with its image.
func (m *Manager) DeletePost(ctx context.Context, userID, postID int) error {
	post, err := m.ownPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	if err := m.repo.DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("db delete post: %w", err)
	}

	m.removeImage(ctx, post.Image)
	m.invalidateIndex(ctx)

	return nil
}

// Profile returns the user with their latest posts and comments waiting for moderation.
func (m *Manager) Profile(ctx context.Context, userID int) (*Profile, error) {
	user, err := m.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if user == nil {
		return nil, ErrNotFound
	}

	list, err := m.repo.PostsByAuthor(ctx, userID, ProfilePostsCount)
	if err != nil {
		return nil, fmt.Errorf("db get author posts: %w", err)
	}

	posts, err := m.decorate(ctx, NewPosts(list, listSummaryLength))
	if err != nil {
		return nil, err
	}

	comments, err := m.repo.PendingComments(ctx, userID, ProfileCommentsCount)
	if err != nil {
		return nil, fmt.Errorf("db get pending comments: %w", err)
	}

	return &Profile{
		User:            NewUser(*user),
		Posts:           posts,
		PendingComments: Map(comments, NewComment),
	}, nil
}

func (m *Manager) ownPost(ctx context.Context, userID, postID int) (*db.Post, error) {
	post, err := m.repo.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get post: %w", err)
	} else if post == nil {
		return nil, ErrNotFound
	}

	if post.AuthorID == nil || *post.AuthorID != userID {
		return nil, ErrForbidden
	}

	return post, nil
}

func (m *Manager) post(ctx context.Context, p db.Post) (*Post, error) {
	posts, err := m.decorate(ctx, []Post{NewPost(p, archive.SummaryLength)})
	if err != nil {
		return nil, err
	}

	return &posts[0], nil
}

func (m *Manager) removeImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}

	if err := m.images.Delete(ref); err != nil {
		m.log.WarnContext(ctx, "failed to remove image", "image", ref, "error", err)
	}
}

func (m *Manager) invalidateIndex(ctx context.Context) {
	if m.cache == nil {
		return
	}

	if err := m.cache.Delete(ctx, HomepageCacheKey); err != nil {
		m.log.WarnContext(ctx, "failed to invalidate homepage cache", "error", err)
	}
}
