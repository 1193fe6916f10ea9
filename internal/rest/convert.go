package rest

import (
	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/db"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
)

const dateLayout = "2006-01-02"

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func NewCategory(c newsportal.Category) Category {
	return Category{
		CategoryID: c.ID,
		Name:       c.Name,
		URLName:    c.URLName,
	}
}

func NewAd(a newsportal.Ad) Ad {
	return Ad{
		AdID:  a.ID,
		Title: a.Title,
		Image: a.Image,
		Link:  a.Link,
	}
}

func newAuthor(u *db.User) *Author {
	if u == nil {
		return nil
	}

	return &Author{
		UserID:    u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func NewUser(u newsportal.User) User {
	return User{
		Author:    *newAuthor(&u.User),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewPostSummary(p newsportal.Post) PostSummary {
	return PostSummary{
		PostID:           p.ID,
		Title:            p.Title,
		Importance:       p.Importance,
		PublishDate:      p.PublishDate,
		Image:            p.Image,
		Summary:          p.Summary,
		Visits:           p.Visits,
		AcceptedComments: p.AcceptedComments,
		Author:           newAuthor(p.Author),
		Categories:       Map(p.Categories, NewCategory),
	}
}

func NewPost(p newsportal.Post) Post {
	return Post{
		PostSummary: NewPostSummary(p),
		Article:     p.Article,
	}
}

func NewComment(c newsportal.Comment) Comment {
	comment := Comment{
		CommentID:  c.ID,
		PostID:     c.PostID,
		Writer:     c.Writer,
		Date:       c.Date,
		Text:       c.Text,
		IsAccepted: c.IsAccepted,
	}

	if c.Reply != nil {
		reply := NewComment(*c.Reply)
		comment.Reply = &reply
	}

	return comment
}

func NewArchive(p newsportal.ArchivePage) Archive {
	links := make([]PageLink, 0, len(p.PageLinks))
	for _, n := range p.Page.Window(archive.PaginationCount) {
		links = append(links, PageLink{Page: n, Query: p.PageLinks[n], Current: n == p.Page.Number})
	}

	return Archive{
		Query: ArchiveQuery{
			StartDate: p.Query.Start.Format(dateLayout),
			EndDate:   p.Query.End.Format(dateLayout),
			Category:  p.Query.Category,
			Search:    p.Query.Search,
			Order:     p.Query.Order.String(),
		},
		Posts: Map(p.Posts, NewPostSummary),
		Pagination: Pagination{
			Page:        p.Page.Number,
			NumPages:    p.Page.NumPages,
			Count:       p.Page.Count,
			PerPage:     p.Page.PerPage,
			HasPrevious: p.Page.HasPrevious(),
			HasNext:     p.Page.HasNext(),
			StartIndex:  p.Page.StartIndex(),
			EndIndex:    p.Page.EndIndex(),
			Links:       links,
		},
		Filters:    p.Filters,
		Orders:     Map(archive.Orders(), archive.Order.String),
		Categories: Map(p.Categories, NewCategory),
		Ads:        Map(p.Ads, NewAd),
	}
}

func NewHomepage(h newsportal.Homepage) Homepage {
	home := Homepage{
		Important: Map(h.Important, NewPostSummary),
		Popular:   Map(h.Popular, NewPostSummary),
		Latest:    Map(h.Latest, NewPostSummary),
		Ads:       Map(h.Ads, NewAd),
	}

	if h.MostPopular != nil {
		p := NewPostSummary(*h.MostPopular)
		home.MostPopular = &p
	}

	return home
}

func NewFullNews(n newsportal.FullNews) FullNews {
	news := FullNews{
		Post:       NewPost(n.Post),
		OtherPosts: Map(n.OtherPosts, NewPostSummary),
		Comments:   Map(n.Comments, NewComment),
		Ads:        Map(n.Ads, NewAd),
	}

	if n.Category != nil {
		c := NewCategory(*n.Category)
		news.Category = &c
	}

	return news
}

func NewProfile(p newsportal.Profile) Profile {
	return Profile{
		User:            NewUser(p.User),
		Posts:           Map(p.Posts, NewPostSummary),
		PendingComments: Map(p.PendingComments, NewComment),
	}
}
