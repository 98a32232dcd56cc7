// Package serialport serves the line protocol over a physical serial
// port.
package serialport

import (
	"context"
	"time"

	"github.com/goburrow/serial"
	"github.com/golang/glog"

	"github.com/robotalks/ident.go/pkg/protocol"
)

// Console polls the port byte-wise with a short idle slice. Read
// timeouts are the idle path, not errors.
type Console struct {
	Port    serial.Port
	Station protocol.Station
}

// Open opens the serial device for console service.
func Open(device string, baud int, station protocol.Station) (*Console, error) {
	port, err := serial.Open(&serial.Config{
		Address:  device,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  10 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return &Console{Port: port, Station: station}, nil
}

// Name implements Named.
func (c *Console) Name() string { return "console-serial" }

// Run implements Runnable.
func (c *Console) Run(ctx context.Context) error {
	h := &protocol.Handler{Station: c.Station}
	var sc protocol.Scanner
	buf := make([]byte, 1)
	defer c.Port.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := c.Port.Read(buf)
		if err == serial.ErrTimeout {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if line, ok := sc.Feed(buf[0]); ok {
			glog.V(3).Infof("command %q", line)
			if err := h.HandleLine(line, c.Port); err != nil {
				return err
			}
		}
	}
}
