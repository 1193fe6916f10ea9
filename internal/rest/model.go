package rest

import "time"

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

type Author struct {
	UserID    int    `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type User struct {
	Author
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
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
	Author           *Author    `json:"author,omitempty"`
	Categories       []Category `json:"categories"`
}

type Post struct {
	PostSummary
	Article string `json:"article"`
}

type Comment struct {
	CommentID  int       `json:"commentId"`
	PostID     int       `json:"postId"`
	Writer     string    `json:"writer"`
	Date       time.Time `json:"date"`
	Text       string    `json:"text"`
	IsAccepted bool      `json:"isAccepted"`
	Reply      *Comment  `json:"reply,omitempty"`
}

type PageLink struct {
	Page    int    `json:"page"`
	Query   string `json:"query"`
	Current bool   `json:"current"`
}

type Pagination struct {
	Page        int        `json:"page"`
	NumPages    int        `json:"numPages"`
	Count       int        `json:"count"`
	PerPage     int        `json:"perPage"`
	HasPrevious bool       `json:"hasPrevious"`
	HasNext     bool       `json:"hasNext"`
	StartIndex  int        `json:"startIndex"`
	EndIndex    int        `json:"endIndex"`
	Links       []PageLink `json:"links"`
}

// ArchiveQuery echoes the validated archive parameters.
type ArchiveQuery struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	Search    string `json:"search"`
	Order     string `json:"order"`
}

type Archive struct {
	Query      ArchiveQuery  `json:"query"`
	Posts      []PostSummary `json:"posts"`
	Pagination Pagination    `json:"pagination"`
	Filters    string        `json:"filters"`
	Orders     []string      `json:"orders"`
	Categories []Category    `json:"categories"`
	Ads        []Ad          `json:"ads"`
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

type Profile struct {
	User            User          `json:"user"`
	Posts           []PostSummary `json:"posts"`
	PendingComments []Comment     `json:"pendingComments"`
}

type SignUpRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CommentRequest struct {
	Writer    string `json:"writer"`
	Email     string `json:"email"`
	Text      string `json:"text"`
	RepliedOn *int   `json:"repliedOn"`
}
