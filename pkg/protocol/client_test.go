package protocol

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func startClient(t *testing.T, s Station) *Client {
	server, client := net.Pipe()
	go Serve(context.Background(), server, s)
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewClient(client)
}

func TestClientQueries(t *testing.T) {
	s := newFakeStation()
	c := startClient(t, s)

	v, err := c.GetField("MFG")
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", v)

	serial, err := c.Serial()
	require.NoError(t, err)
	require.Equal(t, "E66038B713", serial)

	ok, err := c.Check()
	require.NoError(t, err)
	require.True(t, ok)

	count, err := c.EdgeCount()
	require.NoError(t, err)
	require.Equal(t, "7", count)
}

func TestClientCommands(t *testing.T) {
	s := newFakeStation()
	c := startClient(t, s)

	require.NoError(t, c.SetField("MFG", "Bloomy"))
	require.NoError(t, c.ResetCount())

	// queries are ordered after the preceding commands on the same
	// stream
	v, err := c.GetField("MFG")
	require.NoError(t, err)
	require.Equal(t, "Bloomy", v)
	count, err := c.EdgeCount()
	require.NoError(t, err)
	require.Equal(t, "0", count)
}
