package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
)

// AcceptedComments returns the accepted comments of a post, oldest first.
func (r *Repository) AcceptedComments(ctx context.Context, postID int) ([]Comment, error) {
	comments := []Comment{}
	err := r.db.ModelContext(ctx, &comments).
		Where(`"t"."postId" = ?`, postID).
		Where(`"t"."isAccepted"`).
		OrderExpr(`"t"."date" ASC`).
		OrderExpr(`"t"."commentId" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query accepted comments: %w", err)
	}

	return comments, nil
}

func (r *Repository) CommentByID(ctx context.Context, commentID int) (*Comment, error) {
	comment := &Comment{}
	err := r.db.ModelContext(ctx, comment).
		Relation("Post").
		Where(`"t"."commentId" = ?`, commentID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}

	return comment, nil
}

// CreateComment stores a comment. When repliedOn is set the new comment becomes the
// reply of that comment, which must belong to the same post and have no reply yet.
func (r *Repository) CreateComment(ctx context.Context, comment *Comment, repliedOn *int) error {
	return r.inTx(ctx, func(tx *pg.Tx) error {
		if repliedOn != nil {
			target := &Comment{}
			err := tx.ModelContext(ctx, target).
				Column(Columns.Comment.ID).
				Where(`"t"."commentId" = ?`, *repliedOn).
				Where(`"t"."postId" = ?`, comment.PostID).
				Where(`"t"."replyId" IS NULL`).
				For("UPDATE").
				Select()
			if errors.Is(err, pg.ErrNoRows) {
				return ErrReplyTaken
			} else if err != nil {
				return fmt.Errorf("failed to lock replied comment: %w", err)
			}
		}

		if _, err := tx.ModelContext(ctx, comment).Insert(); err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		if repliedOn == nil {
			return nil
		}

		_, err := tx.ModelContext(ctx, (*Comment)(nil)).
			Set(`"replyId" = ?`, comment.ID).
			Where(`"t"."commentId" = ?`, *repliedOn).
			Update()
		if err != nil {
			return fmt.Errorf("failed to link reply: %w", err)
		}

		return nil
	})
}

// AcceptComment marks a comment as accepted. It reports whether a row was changed.
func (r *Repository) AcceptComment(ctx context.Context, commentID int) (bool, error) {
	res, err := r.db.ModelContext(ctx, (*Comment)(nil)).
		Set(`"isAccepted" = TRUE`).
		Where(`"t"."commentId" = ?`, commentID).
		Update()
	if err != nil {
		return false, fmt.Errorf("failed to accept comment: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

// PendingComments lists comments awaiting acceptance on posts written by authorID, newest first.
func (r *Repository) PendingComments(ctx context.Context, authorID, limit int) ([]Comment, error) {
	comments := []Comment{}
	err := r.db.ModelContext(ctx, &comments).
		Relation("Post").
		Where(`"post"."authorId" = ?`, authorID).
		Where(`NOT "t"."isAccepted"`).
		OrderExpr(`"t"."date" DESC`).
		Limit(limit).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query pending comments: %w", err)
	}

	return comments, nil
}
