package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/daniilsolovey/newsroom/internal/db"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	SiteURL  string
}

// Sender delivers a composed message.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier emails post authors when a comment waits for moderation.
type Notifier struct {
	cfg    Config
	sender Sender
}

func NewNotifier(cfg Config) *Notifier {
	return &Notifier{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (n *Notifier) CommentAwaitingModeration(_ context.Context, author db.User, post db.Post, comment db.Comment) error {
	m := n.message(author, post, comment)
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send moderation mail to %s: %w", author.Email, err)
	}

	return nil
}

func (n *Notifier) message(author db.User, post db.Post, comment db.Comment) *gomail.Message {
	from := n.cfg.From
	if from == "" {
		from = n.cfg.User
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", displayName(author))
	fmt.Fprintf(&body, "%s left a comment on \"%s\":\n\n%s\n\n", comment.Writer, post.Title, comment.Text)
	body.WriteString("The comment is hidden until you accept it")
	if n.cfg.SiteURL != "" {
		fmt.Fprintf(&body, " at %s/api/v1/profile", strings.TrimSuffix(n.cfg.SiteURL, "/"))
	}
	body.WriteString(".\n")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", author.Email)
	m.SetHeader("Subject", "New comment on "+post.Title)
	m.SetBody("text/plain", body.String())

	return m
}

func displayName(u db.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}

	return u.Username
}
