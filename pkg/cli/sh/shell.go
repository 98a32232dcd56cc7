// Package sh provides the ishell backed interactive console client.
package sh

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/goburrow/serial"

	"github.com/robotalks/ident.go/pkg/protocol"
)

// Shell wraps ishell with a console protocol connection.
type Shell struct {
	Interactive bool

	Shell  *ishell.Shell
	Client *protocol.Client

	conn io.Closer
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	tcpAddr    string
	serialDev  string
	serialBaud = 115200

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&tcpAddr, "addr", tcpAddr, "Console TCP address.")
	flag.StringVar(&serialDev, "dev", serialDev, "Console serial device.")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Client == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// ConnectTCP connects the console over TCP.
func (s *Shell) ConnectTCP(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	s.attach(conn, addr)
	return nil
}

// ConnectSerial connects the console over a serial device.
func (s *Shell) ConnectSerial(device string, baud int) error {
	port, err := serial.Open(&serial.Config{
		Address:  device,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  time.Second,
	})
	if err != nil {
		return err
	}
	s.attach(port, device)
	return nil
}

func (s *Shell) attach(conn io.ReadWriteCloser, name string) {
	s.Disconnect()
	s.conn = conn
	s.Client = protocol.NewClient(conn)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
}

// Disconnect closes the current connection.
func (s *Shell) Disconnect() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.Client = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

func (s *Shell) autoConnect() error {
	switch {
	case tcpAddr != "":
		return s.ConnectTCP(tcpAddr)
	case serialDev != "":
		return s.ConnectSerial(serialDev, serialBaud)
	}
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if err := s.autoConnect(); err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects the console.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "ADDR",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDR required"))
				return
			}
			if err := ShellFrom(c).ConnectTCP(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the console.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
