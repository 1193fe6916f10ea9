package newsportal

import (
	"io"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/db"
)

type Category struct {
	db.Category
}

type Ad struct {
	db.Ad
}

type User struct {
	db.User
}

type Post struct {
	db.Post
	Summary          string
	AcceptedComments int
	Categories       []Category
}

type Comment struct {
	db.Comment
	Reply *Comment
}

// ArchivePage is one page of the filtered archive listing.
type ArchivePage struct {
	Query      archive.Query
	Page       archive.Page
	Posts      []Post
	Categories []Category
	Filters    string
	PageLinks  map[int]string
	Ads        []Ad
}

type Homepage struct {
	Important   []Post
	MostPopular *Post
	Popular     []Post
	Latest      []Post
	Ads         []Ad
}

type FullNews struct {
	Post       Post
	Category   *Category
	OtherPosts []Post
	Comments   []Comment
	Ads        []Ad
}

type Profile struct {
	User            User
	Posts           []Post
	PendingComments []Comment
}

// PostInput holds the editable fields of a post.
type PostInput struct {
	Title       string
	Importance  int
	Article     string
	CategoryIDs []int
	Image       *Image
}

// Image is an uploaded file waiting to be stored.
type Image struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type CommentInput struct {
	PostID    int
	Writer    string
	Email     string
	Text      string
	RepliedOn *int
}
