// Package websocket serves the line protocol over a websocket byte
// stream.
package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/ident.go/pkg/framework"
	"github.com/robotalks/ident.go/pkg/protocol"
)

// Handler returns an http.Handler bridging websocket frames to the
// console byte stream.
func Handler(station protocol.Station) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.TextFrame
		if err := protocol.Serve(conn.Request().Context(), conn, station); err != nil {
			glog.Errorf("console ws: %v", err)
		}
	})
}

// Server exposes the console at ws://addr/.
type Server struct {
	Addr    string
	Station protocol.Station
}

// Name implements Named.
func (s *Server) Name() string { return "console-ws" }

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: Handler(s.Station)}
	return fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
}
