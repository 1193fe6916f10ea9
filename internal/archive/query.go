package archive

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pg/urlstruct"
)

const (
	PageSize        = 12
	SummaryLength   = 250
	PaginationCount = 7

	dateLayout  = "2006-01-02"
	// month and day may come without zero padding
	inputLayout = "2006-1-2"
)

var (
	// MinDate is the lower bound used when no start date is given.
	MinDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxDate is the latest end date that still fits a four digit year.
	MaxDate = time.Date(9999, time.December, 31, 23, 59, 59, 999999000, time.UTC)
)

// Params holds raw archive request parameters as they arrive in the query string.
type Params struct {
	StartDate string `urlstruct:"start_date"`
	EndDate   string `urlstruct:"end_date"`
	Category  string `urlstruct:"category"`
	Search    string `urlstruct:"search"`
	Order     string `urlstruct:"order"`
	Page      string `urlstruct:"page"`
}

// DecodeParams reads archive parameters from url values. Unknown keys are ignored.
func DecodeParams(ctx context.Context, values url.Values) (Params, error) {
	var p Params
	if err := urlstruct.Unmarshal(ctx, values, &p); err != nil {
		return Params{}, fmt.Errorf("decode archive params: %w", err)
	}

	return p, nil
}

// Query is a validated archive request. Every field holds a usable value.
type Query struct {
	Start    time.Time
	End      time.Time
	Category string
	Search   string
	Order    Order
	Page     int
}

// ParseParams validates raw parameters. Malformed values fall back to defaults:
// start to MinDate, end to the end of today, order to -publish_date, page to 1.
// Dates are read in now's location and kept within [MinDate, MaxDate].
func ParseParams(p Params, now time.Time) Query {
	start := clampDate(parseDate(p.StartDate, MinDate, now.Location()))
	end := clampDate(endOfDay(parseDate(p.EndDate, now, now.Location())))

	return Query{
		Start:    start,
		End:      end,
		Category: p.Category,
		Search:   p.Search,
		Order:    ParseOrder(p.Order),
		Page:     parsePage(p.Page),
	}
}

// Filters returns the canonical filter string used to build pagination links.
// Parameters equal to their defaults are omitted.
func (q Query) Filters(now time.Time) string {
	var parts []string
	if q.Order != DefaultOrder {
		parts = append(parts, "order="+url.QueryEscape(q.Order.String()))
	}
	if !q.Start.Equal(MinDate) {
		parts = append(parts, "start_date="+q.Start.Format(dateLayout))
	}
	if !sameDay(q.End, now) {
		parts = append(parts, "end_date="+q.End.Format(dateLayout))
	}
	if q.Category != "" {
		parts = append(parts, "category="+url.QueryEscape(q.Category))
	}
	if q.Search != "" {
		parts = append(parts, "search="+url.QueryEscape(q.Search))
	}

	return strings.Join(parts, "&")
}

// PageLink returns the query string for page n with the current filters applied.
func (q Query) PageLink(n int, now time.Time) string {
	link := "page=" + strconv.Itoa(n)
	if filters := q.Filters(now); filters != "" {
		link += "&" + filters
	}

	return link
}

func parseDate(s string, fallback time.Time, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(inputLayout, s, loc)
	if err != nil {
		return fallback
	}

	return t
}

func clampDate(t time.Time) time.Time {
	switch {
	case t.Before(MinDate):
		return MinDate
	case t.After(MaxDate):
		return MaxDate
	}

	return t
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func parsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}

	return n
}
