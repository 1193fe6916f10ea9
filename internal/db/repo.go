package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
)

var (
	ErrUserExists = errors.New("username already taken")
	ErrReplyTaken = errors.New("replied comment is missing or already has a reply")
)

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// inTx runs fn in a transaction, joining the current one when the repository is
// already bound to a transaction.
func (r *Repository) inTx(ctx context.Context, fn func(tx *pg.Tx) error) error {
	if tx, ok := r.db.(*pg.Tx); ok {
		return fn(tx)
	}

	return r.db.RunInTransaction(ctx, fn)
}

func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.ModelContext(ctx, &categories).
		OrderExpr(`"t"."name" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	return categories, nil
}

// CategoryBySlug returns nil, nil when no category has the given url name.
func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	category := &Category{}
	err := r.db.ModelContext(ctx, category).
		Where(`"t"."urlName" = ?`, slug).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return category, nil
}

func (r *Repository) CategoriesByIDs(ctx context.Context, ids []int) ([]Category, error) {
	if len(ids) == 0 {
		return []Category{}, nil
	}

	categories := []Category{}
	err := r.db.ModelContext(ctx, &categories).
		Where(`"t"."categoryId" IN (?)`, pg.In(ids)).
		OrderExpr(`"t"."name" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query categories by ids: %w", err)
	}

	return categories, nil
}

// PostCategories returns the category links of the given posts.
func (r *Repository) PostCategories(ctx context.Context, postIDs []int) ([]PostCategory, error) {
	if len(postIDs) == 0 {
		return []PostCategory{}, nil
	}

	links := []PostCategory{}
	err := r.db.ModelContext(ctx, &links).
		Where(`"t"."postId" IN (?)`, pg.In(postIDs)).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query post categories: %w", err)
	}

	return links, nil
}

// RandomAds samples up to limit ads in random order.
func (r *Repository) RandomAds(ctx context.Context, limit int) ([]Ad, error) {
	ads := []Ad{}
	err := r.db.ModelContext(ctx, &ads).
		OrderExpr(`random()`).
		Limit(limit).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query ads: %w", err)
	}

	return ads, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.db.ModelContext(ctx, user).Insert()

	var pgErr pg.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		return ErrUserExists
	} else if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).
		Where(`"t"."username" = ?`, username).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *Repository) UserByID(ctx context.Context, userID int) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).
		Where(`"t"."userId" = ?`, userID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}
