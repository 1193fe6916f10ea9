package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pg/pg/v10"

	"github.com/daniilsolovey/newsroom/internal/archive"
)

const acceptedCommentsExpr = `(SELECT count(*) FROM "comments" AS "c" WHERE "c"."postId" = "t"."postId" AND "c"."isAccepted")`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ArchiveFilter is a resolved archive request: the category, if any, is known to exist.
type ArchiveFilter struct {
	Start      time.Time
	End        time.Time
	Search     string
	CategoryID *int
	Order      archive.Order
}

func (f ArchiveFilter) apply(q *pg.Query) *pg.Query {
	pattern := "%" + likeEscaper.Replace(f.Search) + "%"
	q = q.
		Where(`"t"."publishDate" >= ?`, f.Start).
		Where(`"t"."publishDate" <= ?`, f.End).
		Where(`("t"."title" ILIKE ? OR "t"."article" ILIKE ?)`, pattern, pattern)

	if f.CategoryID != nil {
		q = q.Where(`EXISTS (SELECT 1 FROM "postCategories" AS "pc" WHERE "pc"."postId" = "t"."postId" AND "pc"."categoryId" = ?)`, *f.CategoryID)
	}

	return q
}

// orderExprs maps an archive order onto SQL. Ties are broken by post id in the same direction.
func orderExprs(o archive.Order) []string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}

	var key string
	switch o.Field {
	case archive.FieldAcceptedComments:
		key = acceptedCommentsExpr
	case archive.FieldVisits:
		key = `"t"."visits"`
	case archive.FieldImportance:
		key = `"t"."importance"`
	default:
		key = `"t"."publishDate"`
	}

	return []string{key + " " + dir, `"t"."postId" ` + dir}
}

// ArchivePosts returns one page of posts matching the filter, with authors loaded.
func (r *Repository) ArchivePosts(ctx context.Context, f ArchiveFilter, limit, offset int) ([]Post, error) {
	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf(
			"limit must be greater than 0 and offset not negative: limit=%d, offset=%d",
			limit, offset,
		)
	}

	posts := []Post{}
	query := f.apply(r.db.ModelContext(ctx, &posts).Relation("Author"))
	for _, expr := range orderExprs(f.Order) {
		query = query.OrderExpr(expr)
	}

	err := query.
		Limit(limit).
		Offset(offset).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	return posts, nil
}

func (r *Repository) ArchiveCount(ctx context.Context, f ArchiveFilter) (int, error) {
	count, err := f.apply(r.db.ModelContext(ctx, (*Post)(nil))).Count()
	if err != nil {
		return 0, fmt.Errorf("failed to get archive count: %w", err)
	}

	return count, nil
}

type acceptedCount struct {
	PostID           int `pg:"postId"`
	AcceptedComments int `pg:"acceptedComments"`
}

// AcceptedCommentCounts returns the number of accepted comments per post. Posts without
// accepted comments are absent from the map.
func (r *Repository) AcceptedCommentCounts(ctx context.Context, postIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []acceptedCount
	err := r.db.ModelContext(ctx, (*Comment)(nil)).
		ColumnExpr(`"t"."postId"`).
		ColumnExpr(`count(*) AS "acceptedComments"`).
		Where(`"t"."isAccepted"`).
		Where(`"t"."postId" IN (?)`, pg.In(postIDs)).
		GroupExpr(`"t"."postId"`).
		Select(&rows)

	if err != nil {
		return nil, fmt.Errorf("failed to count accepted comments: %w", err)
	}

	for _, row := range rows {
		counts[row.PostID] = row.AcceptedComments
	}

	return counts, nil
}

// ImportantPosts ranks posts by publish day, then importance, then visits.
// The day is the whole calendar date (date_trunc), not the day of the month, so
// today's posts always outrank posts from the same day number of earlier months.
func (r *Repository) ImportantPosts(ctx context.Context, limit int) ([]Post, error) {
	posts := []Post{}
	err := r.db.ModelContext(ctx, &posts).
		Relation("Author").
		OrderExpr(`date_trunc('day', "t"."publishDate") DESC`).
		OrderExpr(`"t"."importance" DESC`).
		OrderExpr(`"t"."visits" DESC`).
		Limit(limit).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query important posts: %w", err)
	}

	return posts, nil
}

// MostVisitedPost returns the most visited post published in [from, to), or nil.
func (r *Repository) MostVisitedPost(ctx context.Context, from, to time.Time, exclude []int) (*Post, error) {
	post := &Post{}
	err := excludeIDs(r.db.ModelContext(ctx, post).Relation("Author"), exclude).
		Where(`"t"."publishDate" >= ?`, from).
		Where(`"t"."publishDate" < ?`, to).
		OrderExpr(`"t"."visits" DESC`).
		OrderExpr(`"t"."postId" DESC`).
		Limit(1).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get most visited post: %w", err)
	}

	return post, nil
}

func (r *Repository) PopularPosts(ctx context.Context, exclude []int, limit int) ([]Post, error) {
	posts := []Post{}
	err := excludeIDs(r.db.ModelContext(ctx, &posts).Relation("Author"), exclude).
		OrderExpr(`"t"."visits" DESC`).
		OrderExpr(`"t"."postId" DESC`).
		Limit(limit).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query popular posts: %w", err)
	}

	return posts, nil
}

// LatestPosts lists the newest posts, optionally restricted to one category.
func (r *Repository) LatestPosts(ctx context.Context, categoryID *int, exclude []int, limit int) ([]Post, error) {
	posts := []Post{}
	query := excludeIDs(r.db.ModelContext(ctx, &posts).Relation("Author"), exclude)
	if categoryID != nil {
		query = query.Where(`EXISTS (SELECT 1 FROM "postCategories" AS "pc" WHERE "pc"."postId" = "t"."postId" AND "pc"."categoryId" = ?)`, *categoryID)
	}

	err := query.
		OrderExpr(`"t"."publishDate" DESC`).
		OrderExpr(`"t"."postId" DESC`).
		Limit(limit).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query latest posts: %w", err)
	}

	return posts, nil
}

func (r *Repository) PostsByAuthor(ctx context.Context, authorID, limit int) ([]Post, error) {
	posts := []Post{}
	err := r.db.ModelContext(ctx, &posts).
		Where(`"t"."authorId" = ?`, authorID).
		OrderExpr(`"t"."publishDate" DESC`).
		Limit(limit).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query author posts: %w", err)
	}

	return posts, nil
}

func (r *Repository) PostByID(ctx context.Context, postID int) (*Post, error) {
	post := &Post{}
	err := r.db.ModelContext(ctx, post).
		Relation("Author").
		Where(`"t"."postId" = ?`, postID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// IncrementVisits bumps the visit counter and returns the new value.
// It returns pg.ErrNoRows when the post does not exist.
func (r *Repository) IncrementVisits(ctx context.Context, postID int) (int, error) {
	var visits int
	_, err := r.db.QueryOneContext(ctx, pg.Scan(&visits),
		`UPDATE "posts" SET "visits" = "visits" + 1 WHERE "postId" = ? RETURNING "visits"`, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment visits: %w", err)
	}

	return visits, nil
}

// CreatePost inserts the post and links it to the given categories.
func (r *Repository) CreatePost(ctx context.Context, post *Post, categoryIDs []int) error {
	return r.inTx(ctx, func(tx *pg.Tx) error {
		if _, err := tx.ModelContext(ctx, post).Insert(); err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		return linkCategories(ctx, tx, post.ID, categoryIDs)
	})
}

// UpdatePost saves the editable fields of the post and replaces its categories.
func (r *Repository) UpdatePost(ctx context.Context, post *Post, categoryIDs []int) error {
	return r.inTx(ctx, func(tx *pg.Tx) error {
		_, err := tx.ModelContext(ctx, post).
			Column(Columns.Post.Title, Columns.Post.Importance, Columns.Post.Image, Columns.Post.Article).
			WherePK().
			Update()
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		_, err = tx.ModelContext(ctx, (*PostCategory)(nil)).
			Where(`"t"."postId" = ?`, post.ID).
			Delete()
		if err != nil {
			return fmt.Errorf("failed to unlink post categories: %w", err)
		}

		return linkCategories(ctx, tx, post.ID, categoryIDs)
	})
}

func (r *Repository) DeletePost(ctx context.Context, postID int) error {
	_, err := r.db.ModelContext(ctx, (*Post)(nil)).
		Where(`"t"."postId" = ?`, postID).
		Delete()
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func linkCategories(ctx context.Context, tx *pg.Tx, postID int, categoryIDs []int) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	links := make([]PostCategory, 0, len(categoryIDs))
	seen := make(map[int]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, PostCategory{PostID: postID, CategoryID: id})
	}

	if _, err := tx.ModelContext(ctx, &links).Insert(); err != nil {
		return fmt.Errorf("failed to link post categories: %w", err)
	}

	return nil
}

func excludeIDs(q *pg.Query, ids []int) *pg.Query {
	if len(ids) == 0 {
		return q
	}

	return q.Where(`"t"."postId" NOT IN (?)`, pg.In(ids))
}
