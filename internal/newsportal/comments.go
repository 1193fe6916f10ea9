package newsportal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/daniilsolovey/newsroom/internal/db"
)

const (
	DefaultWriter    = "Anonymous"
	MaxWriterLength  = 50
	MaxCommentLength = 2000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (in *CommentInput) validate() error {
	in.Writer = strings.TrimSpace(in.Writer)
	if in.Writer == "" {
		in.Writer = DefaultWriter
	}
	if utf8.RuneCountInString(in.Writer) > MaxWriterLength {
		return fmt.Errorf("%w: writer must be at most %d characters", ErrInvalidInput, MaxWriterLength)
	}

	in.Email = strings.TrimSpace(in.Email)
	if !emailRegex.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" || utf8.RuneCountInString(in.Text) > MaxCommentLength {
		return fmt.Errorf("%w: text must be 1..%d characters", ErrInvalidInput, MaxCommentLength)
	}

	return nil
}

// AddComment stores a new unaccepted comment and lets the post author know about it.
func (m *Manager) AddComment(ctx context.Context, in CommentInput) (*Comment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	post, err := m.repo.PostByID(ctx, in.PostID)
	if err != nil {
		return nil, fmt.Errorf("db get post: %w", err)
	} else if post == nil {
		return nil, ErrNotFound
	}

	comment := &db.Comment{
		PostID: in.PostID,
		Writer: in.Writer,
		Email:  in.Email,
		Date:   m.now(),
		Text:   in.Text,
	}

	err = m.repo.CreateComment(ctx, comment, in.RepliedOn)
	if errors.Is(err, db.ErrReplyTaken) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	} else if err != nil {
		return nil, fmt.Errorf("db create comment: %w", err)
	}

	m.notifyAuthor(ctx, *post, *comment)

	c := NewComment(*comment)
	return &c, nil
}

func (m *Manager) notifyAuthor(ctx context.Context, post db.Post, comment db.Comment) {
	if m.notifier == nil || post.Author == nil || post.Author.Email == "" {
		return
	}

	if err := m.notifier.CommentAwaitingModeration(ctx, *post.Author, post, comment); err != nil {
		m.log.ErrorContext(ctx, "failed to notify author", "postId", post.ID, "commentId", comment.ID, "error", err)
	}
}

// AcceptComment publishes a comment. Only the author of the commented post may accept it.
func (m *Manager) AcceptComment(ctx context.Context, userID, commentID int) error {
	comment, err := m.repo.CommentByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("db get comment: %w", err)
	} else if comment == nil {
		return ErrNotFound
	}

	if comment.Post == nil || comment.Post.AuthorID == nil || *comment.Post.AuthorID != userID {
		return ErrForbidden
	}

	ok, err := m.repo.AcceptComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("db accept comment: %w", err)
	} else if !ok {
		return ErrNotFound
	}

	return nil
}
