// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	Ad struct {
		ID, Title, Image, Link string
	}
	Category struct {
		ID, Name, URLName string
	}
	Comment struct {
		ID, PostID, Writer, Email, Date, Text, IsAccepted, ReplyID string

		Post string
	}
	Post struct {
		ID, Title, Importance, PublishDate, Image, Article, Visits, AuthorID string

		Author string
	}
	PostCategory struct {
		PostID, CategoryID string
	}
	User struct {
		ID, Username, PasswordHash, FirstName, LastName, Email, CreatedAt string
	}
}{
	Ad: struct {
		ID, Title, Image, Link string
	}{
		ID:    "adId",
		Title: "title",
		Image: "image",
		Link:  "link",
	},
	Category: struct {
		ID, Name, URLName string
	}{
		ID:      "categoryId",
		Name:    "name",
		URLName: "urlName",
	},
	Comment: struct {
		ID, PostID, Writer, Email, Date, Text, IsAccepted, ReplyID string

		Post string
	}{
		ID:         "commentId",
		PostID:     "postId",
		Writer:     "writer",
		Email:      "email",
		Date:       "date",
		Text:       "text",
		IsAccepted: "isAccepted",
		ReplyID:    "replyId",

		Post: "Post",
	},
	Post: struct {
		ID, Title, Importance, PublishDate, Image, Article, Visits, AuthorID string

		Author string
	}{
		ID:          "postId",
		Title:       "title",
		Importance:  "importance",
		PublishDate: "publishDate",
		Image:       "image",
		Article:     "article",
		Visits:      "visits",
		AuthorID:    "authorId",

		Author: "Author",
	},
	PostCategory: struct {
		PostID, CategoryID string
	}{
		PostID:     "postId",
		CategoryID: "categoryId",
	},
	User: struct {
		ID, Username, PasswordHash, FirstName, LastName, Email, CreatedAt string
	}{
		ID:           "userId",
		Username:     "username",
		PasswordHash: "passwordHash",
		FirstName:    "firstName",
		LastName:     "lastName",
		Email:        "email",
		CreatedAt:    "createdAt",
	},
}

var Tables = struct {
	Ad struct {
		Name, Alias string
	}
	Category struct {
		Name, Alias string
	}
	Comment struct {
		Name, Alias string
	}
	Post struct {
		Name, Alias string
	}
	PostCategory struct {
		Name, Alias string
	}
	User struct {
		Name, Alias string
	}
}{
	Ad: struct {
		Name, Alias string
	}{
		Name:  "ads",
		Alias: "t",
	},
	Category: struct {
		Name, Alias string
	}{
		Name:  "categories",
		Alias: "t",
	},
	Comment: struct {
		Name, Alias string
	}{
		Name:  "comments",
		Alias: "t",
	},
	Post: struct {
		Name, Alias string
	}{
		Name:  "posts",
		Alias: "t",
	},
	PostCategory: struct {
		Name, Alias string
	}{
		Name:  "postCategories",
		Alias: "t",
	},
	User: struct {
		Name, Alias string
	}{
		Name:  "users",
		Alias: "t",
	},
}

type Ad struct {
	tableName struct{} `pg:"ads,alias:t,discard_unknown_columns"`

	ID    int    `pg:"adId,pk"`
	Title string `pg:"title,use_zero"`
	Image string `pg:"image,use_zero"`
	Link  string `pg:"link,use_zero"`
}

type Category struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID      int    `pg:"categoryId,pk"`
	Name    string `pg:"name,use_zero"`
	URLName string `pg:"urlName,use_zero"`
}

type Comment struct {
	tableName struct{} `pg:"comments,alias:t,discard_unknown_columns"`

	ID         int       `pg:"commentId,pk"`
	PostID     int       `pg:"postId,use_zero"`
	Writer     string    `pg:"writer,use_zero"`
	Email      string    `pg:"email,use_zero"`
	Date       time.Time `pg:"date,use_zero"`
	Text       string    `pg:"text,use_zero"`
	IsAccepted bool      `pg:"isAccepted,use_zero"`
	ReplyID    *int      `pg:"replyId"`

	Post *Post `pg:"fk:postId,rel:has-one"`
}

type Post struct {
	tableName struct{} `pg:"posts,alias:t,discard_unknown_columns"`

	ID          int       `pg:"postId,pk"`
	Title       string    `pg:"title,use_zero"`
	Importance  int       `pg:"importance,use_zero"`
	PublishDate time.Time `pg:"publishDate,use_zero"`
	Image       string    `pg:"image,use_zero"`
	Article     string    `pg:"article,use_zero"`
	Visits      int       `pg:"visits,use_zero"`
	AuthorID    *int      `pg:"authorId"`

	Author *User `pg:"fk:authorId,rel:has-one"`
}

type PostCategory struct {
	tableName struct{} `pg:"postCategories,alias:t,discard_unknown_columns"`

	PostID     int `pg:"postId,pk"`
	CategoryID int `pg:"categoryId,pk"`
}

type User struct {
	tableName struct{} `pg:"users,alias:t,discard_unknown_columns"`

	ID           int       `pg:"userId,pk"`
	Username     string    `pg:"username,use_zero"`
	PasswordHash string    `pg:"passwordHash,use_zero"`
	FirstName    string    `pg:"firstName,use_zero"`
	LastName     string    `pg:"lastName,use_zero"`
	Email        string    `pg:"email,use_zero"`
	CreatedAt    time.Time `pg:"createdAt,use_zero"`
}
