package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"
)

const namespaceNews = "news"

// New returns a JSON-RPC 2.0 server exposing the read side of the site.
func New(logger *slog.Logger, reader Reader) *zenrpc.Server {
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true, AllowCORS: true})
	rpcServer.Register(namespaceNews, NewNewsService(reader))
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "newsroom", nil))

	return rpcServer
}
