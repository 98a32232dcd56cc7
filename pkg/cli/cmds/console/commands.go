// Package console provides the commands for identity fields and the
// pulse counter.
package console

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ident.go/pkg/cli/sh"
	"github.com/robotalks/ident.go/pkg/ident"
)

func client(c *ishell.Context) func(fn func() error) {
	return func(fn func() error) {
		if err := fn(); err != nil {
			c.Err(err)
		}
	}
}

var (
	// GetCmd queries one field, or all fields without arguments.
	GetCmd = ishell.Cmd{
		Name:    "get",
		Aliases: []string{"g"},
		Help:    "[KEY]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			keys := c.Args
			if len(keys) == 0 {
				keys = ident.FieldKeys()
			}
			for _, key := range keys {
				key = strings.ToUpper(key)
				v, err := s.Client.GetField(key)
				if err != nil {
					c.Err(err)
					return
				}
				if len(c.Args) == 1 {
					c.Println(v)
				} else if v != "" {
					c.Printf("%s=%s\n", key, v)
				}
			}
		}),
	}

	// SetCmd assigns a field.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "KEY VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("KEY and VALUE required"))
				return
			}
			s := sh.ShellFrom(c)
			key := strings.ToUpper(c.Args[0])
			value := strings.Join(c.Args[1:], " ")
			client(c)(func() error { return s.Client.SetField(key, value) })
		}),
	}

	// ClearCmd erases all fields.
	ClearCmd = ishell.Cmd{
		Name: "clear",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			client(c)(func() error { return s.Client.Clear() })
		}),
	}

	// CheckCmd verifies the stored checksum.
	CheckCmd = ishell.Cmd{
		Name: "check",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			ok, err := s.Client.Check()
			if err != nil {
				c.Err(err)
				return
			}
			if ok {
				c.Println("OK")
			} else {
				c.Println("ERR")
			}
		}),
	}

	// SerialCmd queries the board serial number.
	SerialCmd = ishell.Cmd{
		Name: "serial",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			serial, err := s.Client.Serial()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(serial)
		}),
	}

	// CountCmd queries the pulse count.
	CountCmd = ishell.Cmd{
		Name:    "count",
		Aliases: []string{"n"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			count, err := s.Client.EdgeCount()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(count)
		}),
	}

	// ResetCountCmd zeroes the pulse counter.
	ResetCountCmd = ishell.Cmd{
		Name: "resetcount",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			client(c)(func() error { return s.Client.ResetCount() })
		}),
	}

	// RawCmd sends a raw protocol line.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "LINE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LINE required"))
				return
			}
			s := sh.ShellFrom(c)
			line := strings.Join(c.Args, " ")
			if strings.HasSuffix(line, "?") {
				reply, err := s.Client.Query(line)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(reply)
				return
			}
			client(c)(func() error { return s.Client.Send(line) })
		}),
	}
)

func init() {
	sh.AddCmds(
		&GetCmd,
		&SetCmd,
		&ClearCmd,
		&CheckCmd,
		&SerialCmd,
		&CountCmd,
		&ResetCountCmd,
		&RawCmd,
	)
}
