package protocol

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeStation records mutations and serves canned values.
type fakeStation struct {
	fields  map[string]string
	locked  bool
	serial  string
	count   uint32
	checked bool
	cleared int
	resets  int
	failSet error
}

func newFakeStation() *fakeStation {
	return &fakeStation{
		fields:  map[string]string{"MFG": "Acme Corp", "NAME": ""},
		serial:  "E66038B713",
		count:   7,
		checked: true,
	}
}

func (s *fakeStation) Field(key string) (string, bool) {
	v, ok := s.fields[key]
	return v, ok
}

func (s *fakeStation) SetField(key, value string) error {
	if s.failSet != nil {
		return s.failSet
	}
	if s.locked {
		return nil
	}
	if _, ok := s.fields[key]; ok {
		s.fields[key] = value
	}
	return nil
}

func (s *fakeStation) Clear() error {
	if !s.locked {
		s.cleared++
		for k := range s.fields {
			s.fields[k] = ""
		}
	}
	return nil
}

func (s *fakeStation) Check() bool         { return s.checked }
func (s *fakeStation) BoardSerial() string { return s.serial }
func (s *fakeStation) PulseCount() uint32  { return s.count }

func (s *fakeStation) ResetCount() error {
	if !s.locked {
		s.resets++
		s.count = 0
	}
	return nil
}

func handle(t *testing.T, s Station, line string) string {
	var out bytes.Buffer
	h := &Handler{Station: s}
	require.NoError(t, h.HandleLine(line, &out))
	return out.String()
}

func TestQueryField(t *testing.T) {
	s := newFakeStation()
	require.Equal(t, "Acme Corp\n", handle(t, s, "MFG?"))
	require.Equal(t, "\n", handle(t, s, "NAME?"))
}

func TestQueryUnknownIsSilent(t *testing.T) {
	s := newFakeStation()
	require.Equal(t, "", handle(t, s, "BOGUS?"))
	require.Equal(t, "", handle(t, s, ""))
	require.Equal(t, "", handle(t, s, "MFG"))
	require.Equal(t, "", handle(t, s, "NOTACOMMAND"))
}

func TestAssignField(t *testing.T) {
	s := newFakeStation()
	require.Equal(t, "", handle(t, s, "MFG=Bloomy"))
	require.Equal(t, "Bloomy", s.fields["MFG"])

	// value may itself contain the separators
	require.Equal(t, "", handle(t, s, "NAME=a=b?c"))
	require.Equal(t, "a=b?c", s.fields["NAME"])
}

func TestAssignRejectsNonPrintable(t *testing.T) {
	s := newFakeStation()
	handle(t, s, "MFG=bad\x01value")
	require.Equal(t, "Acme Corp", s.fields["MFG"])
}

func TestBuiltinQueries(t *testing.T) {
	s := newFakeStation()
	require.Equal(t, "E66038B713\n", handle(t, s, "SERIAL?"))
	require.Equal(t, "OK\n", handle(t, s, "CHECK?"))
	s.checked = false
	require.Equal(t, "ERR\n", handle(t, s, "CHECK?"))
	require.Equal(t, "7\n", handle(t, s, "EDGECOUNT?"))
}

func TestCommands(t *testing.T) {
	s := newFakeStation()
	require.Equal(t, "", handle(t, s, "CLEAR"))
	require.Equal(t, 1, s.cleared)
	require.Equal(t, "", handle(t, s, "RESETCOUNT"))
	require.Equal(t, 1, s.resets)
	require.Equal(t, "0\n", handle(t, s, "EDGECOUNT?"))
}

func TestStoreFailurePropagates(t *testing.T) {
	s := newFakeStation()
	s.failSet = io.ErrClosedPipe
	h := &Handler{Station: s}
	var out bytes.Buffer
	require.Equal(t, io.ErrClosedPipe, h.HandleLine("MFG=x", &out))
}

// rwBuf pairs a reader with a reply buffer for Serve tests.
type rwBuf struct {
	io.Reader
	out bytes.Buffer
}

func (b *rwBuf) Write(p []byte) (int, error) { return b.out.Write(p) }

func TestServeEndToEnd(t *testing.T) {
	s := newFakeStation()
	rw := &rwBuf{Reader: strings.NewReader("MFG=Bloomy\rMFG?\rEDGECOUNT?\r")}
	require.NoError(t, Serve(context.Background(), rw, s))
	require.Equal(t, "Bloomy\n7\n", rw.out.String())
}

func TestServeLockedMutationsNoOp(t *testing.T) {
	s := newFakeStation()
	s.locked = true
	rw := &rwBuf{Reader: strings.NewReader("CLEAR\rMFG?\r")}
	require.NoError(t, Serve(context.Background(), rw, s))
	require.Equal(t, "Acme Corp\n", rw.out.String())
	require.Equal(t, 0, s.cleared)
}
