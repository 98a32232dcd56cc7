package protocol

import (
	"bufio"
	"io"
	"strings"
)

// Client speaks the console protocol from the host side, over any
// byte stream (TCP connection or serial port).
type Client struct {
	rw io.ReadWriter
	br *bufio.Reader
}

// NewClient creates a Client over rw.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{rw: rw, br: bufio.NewReader(rw)}
}

// Send submits a command that produces no reply.
func (c *Client) Send(line string) error {
	_, err := io.WriteString(c.rw, line+"\r")
	return err
}

// Query submits a query and reads the single reply line.
func (c *Client) Query(line string) (string, error) {
	if err := c.Send(line); err != nil {
		return "", err
	}
	reply, err := c.br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(reply, "\n"), nil
}

// GetField queries a field value.
func (c *Client) GetField(key string) (string, error) {
	return c.Query(key + "?")
}

// SetField assigns a field value.
func (c *Client) SetField(key, value string) error {
	return c.Send(key + "=" + value)
}

// Serial queries the board serial number.
func (c *Client) Serial() (string, error) {
	return c.Query("SERIAL?")
}

// Check reports whether the stored checksum is consistent.
func (c *Client) Check() (bool, error) {
	reply, err := c.Query("CHECK?")
	if err != nil {
		return false, err
	}
	return reply == "OK", nil
}

// EdgeCount queries the pulse count.
func (c *Client) EdgeCount() (string, error) {
	return c.Query("EDGECOUNT?")
}

// Clear erases all identity fields.
func (c *Client) Clear() error {
	return c.Send("CLEAR")
}

// ResetCount zeroes the pulse counter.
func (c *Client) ResetCount() error {
	return c.Send("RESETCOUNT")
}
