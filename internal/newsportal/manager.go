package newsportal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/db"
)

const (
	ImportantNewsCount = 3
	LatestNewsCount    = 10
	PopularNewsCount   = 10
	OtherPostsCount    = 10
	AdsCount           = 3

	importantSummaryLength   = 75
	mostPopularSummaryLength = 100
	listSummaryLength        = 50

	HomepageCacheKey = "newsportal:homepage"
	HomepageCacheTTL = time.Minute
)

type Manager struct {
	repo     Repository
	cache    Cache
	images   ImageStore
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewManager creates a Manager. cache and notifier may be nil.
func NewManager(repo Repository, cache Cache, images ImageStore, notifier Notifier, logger *slog.Logger) *Manager {
	return &Manager{
		repo:     repo,
		cache:    cache,
		images:   images,
		notifier: notifier,
		log:      logger,
		now:      time.Now,
	}
}

// Archive runs the archive pipeline: validate params, resolve the category, count,
// clamp the page, load it and build the canonical filter string.
func (m *Manager) Archive(ctx context.Context, params archive.Params) (*ArchivePage, error) {
	now := m.now()
	q := archive.ParseParams(params, now)

	filter := db.ArchiveFilter{
		Start:  q.Start,
		End:    q.End,
		Search: q.Search,
		Order:  q.Order,
	}

	if q.Category != "" {
		category, err := m.repo.CategoryBySlug(ctx, q.Category)
		if err != nil {
			return nil, fmt.Errorf("db get category: %w", err)
		}
		if category != nil {
			filter.CategoryID = &category.ID
		}
	}

	count, err := m.repo.ArchiveCount(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("db get archive count: %w", err)
	}

	page := archive.NewPaginator(count, archive.PageSize).Page(q.Page)

	var dbPosts []db.Post
	if count > 0 {
		dbPosts, err = m.repo.ArchivePosts(ctx, filter, page.Limit(), page.Offset())
		if err != nil {
			return nil, fmt.Errorf("db get archive posts: %w", err)
		}
	}

	posts, err := m.decorate(ctx, NewPosts(dbPosts, archive.SummaryLength))
	if err != nil {
		return nil, err
	}

	categories, err := m.Categories(ctx)
	if err != nil {
		return nil, err
	}

	ads, err := m.Ads(ctx)
	if err != nil {
		return nil, err
	}

	links := make(map[int]string)
	for _, n := range page.Window(archive.PaginationCount) {
		links[n] = q.PageLink(n, now)
	}

	return &ArchivePage{
		Query:      q,
		Page:       page,
		Posts:      posts,
		Categories: categories,
		Filters:    q.Filters(now),
		PageLinks:  links,
		Ads:        ads,
	}, nil
}

// Index returns the homepage, from cache when possible. Ads are sampled on every call.
func (m *Manager) Index(ctx context.Context) (*Homepage, error) {
	if m.cache != nil {
		var cached Homepage
		ok, err := m.cache.Get(ctx, HomepageCacheKey, &cached)
		if err != nil {
			m.log.WarnContext(ctx, "homepage cache read failed", "error", err)
		} else if ok {
			if cached.Ads, err = m.Ads(ctx); err != nil {
				return nil, err
			}
			return &cached, nil
		}
	}

	return m.WarmIndex(ctx)
}

// WarmIndex builds the homepage and stores it in the cache.
func (m *Manager) WarmIndex(ctx context.Context) (*Homepage, error) {
	home, err := m.buildIndex(ctx)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, HomepageCacheKey, home, HomepageCacheTTL); err != nil {
			m.log.WarnContext(ctx, "homepage cache write failed", "error", err)
		}
	}

	return home, nil
}

func (m *Manager) buildIndex(ctx context.Context) (*Homepage, error) {
	list, err := m.repo.ImportantPosts(ctx, ImportantNewsCount)
	if err != nil {
		return nil, fmt.Errorf("db get important posts: %w", err)
	}
	important := NewPosts(list, importantSummaryLength)
	exclude := postIDs(important)

	now := m.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	best, err := m.repo.MostVisitedPost(ctx, monthStart, monthStart.AddDate(0, 1, 0), exclude)
	if err != nil {
		return nil, fmt.Errorf("db get most visited post: %w", err)
	}

	var mostPopular *Post
	if best != nil {
		p := NewPost(*best, mostPopularSummaryLength)
		mostPopular = &p
		exclude = append(exclude, best.ID)
	}

	list, err = m.repo.PopularPosts(ctx, exclude, PopularNewsCount)
	if err != nil {
		return nil, fmt.Errorf("db get popular posts: %w", err)
	}
	popular := NewPosts(list, listSummaryLength)
	exclude = append(exclude, postIDs(popular)...)

	list, err = m.repo.LatestPosts(ctx, nil, exclude, LatestNewsCount)
	if err != nil {
		return nil, fmt.Errorf("db get latest posts: %w", err)
	}
	latest := NewPosts(list, listSummaryLength)

	home := &Homepage{MostPopular: mostPopular}
	if home.Important, err = m.decorate(ctx, important); err != nil {
		return nil, err
	}
	if home.Popular, err = m.decorate(ctx, popular); err != nil {
		return nil, err
	}
	if home.Latest, err = m.decorate(ctx, latest); err != nil {
		return nil, err
	}
	if mostPopular != nil {
		decorated, err := m.decorate(ctx, []Post{*mostPopular})
		if err != nil {
			return nil, err
		}
		home.MostPopular = &decorated[0]
	}

	if home.Ads, err = m.Ads(ctx); err != nil {
		return nil, err
	}

	return home, nil
}

// FullNews returns a post with its surroundings and counts the visit.
func (m *Manager) FullNews(ctx context.Context, postID int) (*FullNews, error) {
	dbPost, err := m.repo.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get post: %w", err)
	} else if dbPost == nil {
		return nil, ErrNotFound
	}

	visits, err := m.repo.IncrementVisits(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db increment visits: %w", err)
	}
	dbPost.Visits = visits

	posts, err := m.decorate(ctx, []Post{NewPost(*dbPost, 0)})
	if err != nil {
		return nil, err
	}
	post := posts[0]

	var category *Category
	if len(post.Categories) > 0 {
		category = &post.Categories[0]
	}

	var categoryID *int
	if category != nil {
		categoryID = &category.ID
	}

	others, err := m.repo.LatestPosts(ctx, categoryID, []int{postID}, OtherPostsCount)
	if err != nil {
		return nil, fmt.Errorf("db get other posts: %w", err)
	}

	comments, err := m.repo.AcceptedComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get comments: %w", err)
	}

	ads, err := m.Ads(ctx)
	if err != nil {
		return nil, err
	}

	return &FullNews{
		Post:       post,
		Category:   category,
		OtherPosts: NewPosts(others, listSummaryLength),
		Comments:   threadComments(comments),
		Ads:        ads,
	}, nil
}

func (m *Manager) Categories(ctx context.Context) ([]Category, error) {
	list, err := m.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get categories: %w", err)
	}

	return Map(list, NewCategory), nil
}

// Ads samples AdsCount ads at random.
func (m *Manager) Ads(ctx context.Context) ([]Ad, error) {
	list, err := m.repo.RandomAds(ctx, AdsCount)
	if err != nil {
		return nil, fmt.Errorf("db get ads: %w", err)
	}

	return Map(list, NewAd), nil
}

// decorate attaches categories and accepted comment counts to posts.
func (m *Manager) decorate(ctx context.Context, posts []Post) ([]Post, error) {
	if len(posts) == 0 {
		return []Post{}, nil
	}

	ids := postIDs(posts)

	counts, err := m.repo.AcceptedCommentCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("db get accepted comment counts: %w", err)
	}

	links, err := m.repo.PostCategories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("db get post categories: %w", err)
	}

	categoryIDs := make([]int, 0, len(links))
	seen := make(map[int]struct{}, len(links))
	for _, l := range links {
		if _, ok := seen[l.CategoryID]; !ok {
			seen[l.CategoryID] = struct{}{}
			categoryIDs = append(categoryIDs, l.CategoryID)
		}
	}
	sort.Ints(categoryIDs)

	categories, err := m.repo.CategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("db get categories by ids: %w", err)
	}

	index := make(map[int]Category, len(categories))
	for _, c := range categories {
		index[c.ID] = NewCategory(c)
	}

	byPost := make(map[int][]Category, len(posts))
	for _, l := range links {
		if c, ok := index[l.CategoryID]; ok {
			byPost[l.PostID] = append(byPost[l.PostID], c)
		}
	}

	for i := range posts {
		posts[i].AcceptedComments = counts[posts[i].ID]
		cats := byPost[posts[i].ID]
		sort.Slice(cats, func(a, b int) bool { return cats[a].Name < cats[b].Name })
		posts[i].Categories = cats
	}

	return posts, nil
}
