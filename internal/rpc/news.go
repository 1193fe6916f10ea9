package rpc

import (
	"context"
	"errors"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
)

//go:generate zenrpc

// Reader is the read side of the news site, implemented by *newsportal.Manager.
type Reader interface {
	Archive(ctx context.Context, params archive.Params) (*newsportal.ArchivePage, error)
	Index(ctx context.Context) (*newsportal.Homepage, error)
	FullNews(ctx context.Context, postID int) (*newsportal.FullNews, error)
	Categories(ctx context.Context) ([]newsportal.Category, error)
}

// NewsService provides RPC methods for reading the news site.
type NewsService struct {
	zenrpc.Service
	manager Reader
}

func NewNewsService(manager Reader) *NewsService {
	return &NewsService{manager: manager}
}

// Archive returns one page of the filtered archive. Malformed values fall back to defaults.
//
//zenrpc:filter archive filter
//zenrpc:return archive page
//zenrpc:500 internal server error
func (s *NewsService) Archive(ctx context.Context, filter ArchiveFilter) (*Archive, error) {
	page, err := s.manager.Archive(ctx, filter.ToModel())
	if err != nil {
		return nil, err
	}

	result := NewArchive(*page)
	return &result, nil
}

// Index returns the homepage.
//
//zenrpc:return homepage sections
//zenrpc:500 internal server error
func (s *NewsService) Index(ctx context.Context) (*Homepage, error) {
	home, err := s.manager.Index(ctx)
	if err != nil {
		return nil, err
	}

	result := NewHomepage(*home)
	return &result, nil
}

// ByID returns a post with its comments and counts the visit.
//
//zenrpc:id post numeric ID
//zenrpc:return full news
//zenrpc:400 id must be positive
//zenrpc:404 news not found
//zenrpc:500 internal server error
func (s *NewsService) ByID(ctx context.Context, id int) (*FullNews, error) {
	if id <= 0 {
		return nil, zenrpc.NewStringError(400, "id must be positive")
	}

	news, err := s.manager.FullNews(ctx, id)
	if errors.Is(err, newsportal.ErrNotFound) {
		return nil, zenrpc.NewStringError(404, "news not found")
	} else if err != nil {
		return nil, err
	}

	result := NewFullNews(*news)
	return &result, nil
}

// Categories retrieves all categories ordered by name.
//
//zenrpc:return list of categories
//zenrpc:500 internal server error
func (s *NewsService) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.manager.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return Map(categories, NewCategory), nil
}
