package rpc

import "time"

type ArchiveFilter struct {
	//startDate YYYY-MM-DD, earliest date by default
	StartDate string `json:"startDate,omitempty"`
	//endDate YYYY-MM-DD, today by default
	EndDate string `json:"endDate,omitempty"`
	//category category url name
	Category string `json:"category,omitempty"`
	//search title or article substring
	Search string `json:"search,omitempty"`
	//order=-publish_date sort key, prefixed with - for descending
	Order string `json:"order,omitempty"`
	//page=1 page number (1-based)
	Page int `json:"page,omitempty"`
}

type Category struct {
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
	URLName    string `json:"urlName"`
}

type Ad struct {
	AdID  int    `json:"adId"`
	Title string `json:"title"`
	Image string `json:"image"`
	Link  string `json:"link"`
}

type PostSummary struct {
	PostID           int        `json:"postId"`
	Title            string     `json:"title"`
	Importance       int        `json:"importance"`
	PublishDate      time.Time  `json:"publishDate"`
	Image            string     `json:"image"`
	Summary          string     `json:"summary"`
	Visits           int        `json:"visits"`
	AcceptedComments int        `json:"acceptedComments"`
	Author           string     `json:"author"`
	Categories       []Category `json:"categories"`
}

type Post struct {
	PostSummary
	Article string `json:"article"`
}

type Comment struct {
	CommentID int       `json:"commentId"`
	Writer    string    `json:"writer"`
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	Reply     *Comment  `json:"reply,omitempty"`
}

type Archive struct {
	Posts    []PostSummary `json:"posts"`
	Page     int           `json:"page"`
	NumPages int           `json:"numPages"`
	Count    int           `json:"count"`
	Filters  string        `json:"filters"`
	Pages    []int         `json:"pages"`
}

type Homepage struct {
	Important   []PostSummary `json:"important"`
	MostPopular *PostSummary  `json:"mostPopular"`
	Popular     []PostSummary `json:"popular"`
	Latest      []PostSummary `json:"latest"`
	Ads         []Ad          `json:"ads"`
}

type FullNews struct {
	Post       Post          `json:"post"`
	Category   *Category     `json:"category"`
	OtherPosts []PostSummary `json:"otherPosts"`
	Comments   []Comment     `json:"comments"`
	Ads        []Ad          `json:"ads"`
}
