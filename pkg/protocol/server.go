package protocol

import (
	"context"
	"net"

	"github.com/golang/glog"

	fx "github.com/robotalks/ident.go/pkg/framework"
)

// Server serves the line protocol to TCP clients. Each connection
// gets its own scanner; the station serializes mutations internally.
type Server struct {
	Listener net.Listener
	Station  Station
}

// NewServer listens on addr.
func NewServer(addr string, station Station) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{Listener: ln, Station: station}, nil
}

// Name implements Named.
func (s *Server) Name() string { return "console-tcp" }

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.Listener, func() error {
		for {
			conn, err := s.Listener.Accept()
			if err != nil {
				return err
			}
			glog.V(2).Infof("console connect %s", conn.RemoteAddr())
			go func(conn net.Conn) {
				defer conn.Close()
				if err := Serve(ctx, conn, s.Station); err != nil && err != context.Canceled {
					glog.Errorf("console %s: %v", conn.RemoteAddr(), err)
				}
			}(conn)
		}
	})
}
