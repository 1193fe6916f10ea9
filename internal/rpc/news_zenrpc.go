// Hand-maintained in the zenrpc generator layout; keep in sync with the method comments in news.go.

package rpc

import (
	"context"
	"encoding/json"

	"github.com/vmkteam/zenrpc/v2"
	"github.com/vmkteam/zenrpc/v2/smd"
)

var RPC = struct {
	NewsService struct{ Archive, Index, ByID, Categories string }
}{
	NewsService: struct{ Archive, Index, ByID, Categories string }{
		Archive:    "archive",
		Index:      "index",
		ByID:       "byid",
		Categories: "categories",
	},
}

func (NewsService) SMD() smd.ServiceInfo {
	return smd.ServiceInfo{
		Methods: map[string]smd.Service{
			"Archive": {
				Description: `Archive returns one page of the filtered archive. Malformed values fall back to defaults.`,
				Parameters: []smd.JSONSchema{
					{
						Name:        "filter",
						Optional:    true,
						Description: `archive filter`,
						Type:        smd.Object,
					},
				},
				Returns: smd.JSONSchema{
					Description: `archive page`,
					Optional:    true,
					Type:        smd.Object,
				},
				Errors: map[int]string{
					500: "internal server error",
				},
			},
			"Index": {
				Description: `Index returns the homepage.`,
				Parameters:  []smd.JSONSchema{},
				Returns: smd.JSONSchema{
					Description: `homepage sections`,
					Optional:    true,
					Type:        smd.Object,
				},
				Errors: map[int]string{
					500: "internal server error",
				},
			},
			"ByID": {
				Description: `ByID returns a post with its comments and counts the visit.`,
				Parameters: []smd.JSONSchema{
					{
						Name:        "id",
						Description: `post numeric ID`,
						Type:        smd.Integer,
					},
				},
				Returns: smd.JSONSchema{
					Description: `full news`,
					Optional:    true,
					Type:        smd.Object,
				},
				Errors: map[int]string{
					400: "id must be positive",
					404: "news not found",
					500: "internal server error",
				},
			},
			"Categories": {
				Description: `Categories retrieves all categories ordered by name.`,
				Parameters:  []smd.JSONSchema{},
				Returns: smd.JSONSchema{
					Description: `list of categories`,
					Type:        smd.Array,
				},
				Errors: map[int]string{
					500: "internal server error",
				},
			},
		},
	}
}

// Invoke is as generated code from zenrpc cmd
func (s NewsService) Invoke(ctx context.Context, method string, params json.RawMessage) zenrpc.Response {
	resp := zenrpc.Response{}
	var err error

	switch method {
	case RPC.NewsService.Archive:
		var args = struct {
			Filter ArchiveFilter `json:"filter"`
		}{}

		if zenrpc.IsArray(params) {
			if params, err = zenrpc.ConvertToObject([]string{"filter"}, params); err != nil {
				return zenrpc.NewResponseError(nil, zenrpc.InvalidParams, "", err.Error())
			}
		}

		if len(params) > 0 {
			if err := json.Unmarshal(params, &args); err != nil {
				return zenrpc.NewResponseError(nil, zenrpc.InvalidParams, "", err.Error())
			}
		}

		resp.Set(s.Archive(ctx, args.Filter))

	case RPC.NewsService.Index:
		resp.Set(s.Index(ctx))

	case RPC.NewsService.ByID:
		var args = struct {
			ID int `json:"id"`
		}{}

		if zenrpc.IsArray(params) {
			if params, err = zenrpc.ConvertToObject([]string{"id"}, params); err != nil {
				return zenrpc.NewResponseError(nil, zenrpc.InvalidParams, "", err.Error())
			}
		}

		if len(params) > 0 {
			if err := json.Unmarshal(params, &args); err != nil {
				return zenrpc.NewResponseError(nil, zenrpc.InvalidParams, "", err.Error())
			}
		}

		resp.Set(s.ByID(ctx, args.ID))

	case RPC.NewsService.Categories:
		resp.Set(s.Categories(ctx))

	default:
		resp = zenrpc.NewResponseError(nil, zenrpc.MethodNotFound, "", nil)
	}

	return resp
}
