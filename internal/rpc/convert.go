package rpc

import (
	"strconv"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
)

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func (f ArchiveFilter) ToModel() archive.Params {
	p := archive.Params{
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Category:  f.Category,
		Search:    f.Search,
		Order:     f.Order,
	}
	if f.Page != 0 {
		p.Page = strconv.Itoa(f.Page)
	}

	return p
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

func NewPostSummary(p newsportal.Post) PostSummary {
	summary := PostSummary{
		PostID:           p.ID,
		Title:            p.Title,
		Importance:       p.Importance,
		PublishDate:      p.PublishDate,
		Image:            p.Image,
		Summary:          p.Summary,
		Visits:           p.Visits,
		AcceptedComments: p.AcceptedComments,
		Categories:       Map(p.Categories, NewCategory),
	}
	if p.Author != nil {
		summary.Author = p.Author.Username
	}

	return summary
}

func NewComment(c newsportal.Comment) Comment {
	comment := Comment{
		CommentID: c.ID,
		Writer:    c.Writer,
		Date:      c.Date,
		Text:      c.Text,
	}
	if c.Reply != nil {
		reply := NewComment(*c.Reply)
		comment.Reply = &reply
	}

	return comment
}

func NewArchive(p newsportal.ArchivePage) Archive {
	return Archive{
		Posts:    Map(p.Posts, NewPostSummary),
		Page:     p.Page.Number,
		NumPages: p.Page.NumPages,
		Count:    p.Page.Count,
		Filters:  p.Filters,
		Pages:    p.Page.Window(archive.PaginationCount),
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
		Post:       Post{PostSummary: NewPostSummary(n.Post), Article: n.Post.Article},
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
