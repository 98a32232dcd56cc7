package protocol

import (
	"context"
	"io"

	"github.com/golang/glog"
)

// Serve reads bytes from rw until EOF or error, dispatching completed
// lines against station and writing replies back. It returns nil on
// EOF.
func Serve(ctx context.Context, rw io.ReadWriter, station Station) error {
	h := &Handler{Station: station}
	var sc Scanner
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := rw.Read(buf)
		for _, b := range buf[:n] {
			if line, ok := sc.Feed(b); ok {
				glog.V(3).Infof("command %q", line)
				if herr := h.HandleLine(line, rw); herr != nil {
					return herr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
