package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/daniilsolovey/newsroom/internal/db"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func TestNotifier_CommentAwaitingModeration(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(Config{Host: "smtp.example.com", Port: 587, User: "robot@example.com"})
	n.sender = sender

	author := db.User{Username: "editor", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}
	post := db.Post{ID: 7, Title: "Budget"}
	comment := db.Comment{ID: 3, Writer: "Bob", Text: "Nice"}

	require.NoError(t, n.CommentAwaitingModeration(context.Background(), author, post, comment))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"robot@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ann@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"New comment on Budget"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hello Ann Lee")
	assert.Contains(t, buf.String(), "Nice")
}

func TestNotifier_SendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := NewNotifier(Config{Host: "smtp.example.com", Port: 587, From: "news@example.com"})
	n.sender = sender

	err := n.CommentAwaitingModeration(context.Background(), db.User{Username: "x", Email: "x@example.com"}, db.Post{}, db.Comment{})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, []string{"news@example.com"}, sender.sent[0].GetHeader("From"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "editor", displayName(db.User{Username: "editor"}))
	assert.Equal(t, "Ann", displayName(db.User{Username: "editor", FirstName: "Ann"}))
}
