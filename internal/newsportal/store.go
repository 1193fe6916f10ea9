package newsportal

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/daniilsolovey/newsroom/internal/db"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository is the persistent store used by Manager. It is implemented by *db.Repository.
type Repository interface {
	ArchivePosts(ctx context.Context, f db.ArchiveFilter, limit, offset int) ([]db.Post, error)
	ArchiveCount(ctx context.Context, f db.ArchiveFilter) (int, error)
	AcceptedCommentCounts(ctx context.Context, postIDs []int) (map[int]int, error)

	Categories(ctx context.Context) ([]db.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*db.Category, error)
	CategoriesByIDs(ctx context.Context, ids []int) ([]db.Category, error)
	PostCategories(ctx context.Context, postIDs []int) ([]db.PostCategory, error)
	RandomAds(ctx context.Context, limit int) ([]db.Ad, error)

	ImportantPosts(ctx context.Context, limit int) ([]db.Post, error)
	MostVisitedPost(ctx context.Context, from, to time.Time, exclude []int) (*db.Post, error)
	PopularPosts(ctx context.Context, exclude []int, limit int) ([]db.Post, error)
	LatestPosts(ctx context.Context, categoryID *int, exclude []int, limit int) ([]db.Post, error)
	PostsByAuthor(ctx context.Context, authorID, limit int) ([]db.Post, error)
	PostByID(ctx context.Context, postID int) (*db.Post, error)
	IncrementVisits(ctx context.Context, postID int) (int, error)
	CreatePost(ctx context.Context, post *db.Post, categoryIDs []int) error
	UpdatePost(ctx context.Context, post *db.Post, categoryIDs []int) error
	DeletePost(ctx context.Context, postID int) error

	AcceptedComments(ctx context.Context, postID int) ([]db.Comment, error)
	CommentByID(ctx context.Context, commentID int) (*db.Comment, error)
	CreateComment(ctx context.Context, comment *db.Comment, repliedOn *int) error
	AcceptComment(ctx context.Context, commentID int) (bool, error)
	PendingComments(ctx context.Context, authorID, limit int) ([]db.Comment, error)

	UserByID(ctx context.Context, userID int) (*db.User, error)
}

// Cache stores JSON-encodable values for a limited time.
type Cache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ImageStore keeps uploaded post images and returns a public reference to each.
type ImageStore interface {
	Save(content io.Reader, filename string, size int64) (string, error)
	Delete(ref string) error
}

// Notifier tells post authors about comments awaiting moderation.
type Notifier interface {
	CommentAwaitingModeration(ctx context.Context, author db.User, post db.Post, comment db.Comment) error
}
