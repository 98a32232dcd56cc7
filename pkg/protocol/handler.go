package protocol

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Handler dispatches complete command lines against a Station.
type Handler struct {
	Station Station
}

func allPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if !printable(s[i]) {
			return false
		}
	}
	return true
}

func reply(w io.Writer, s string) error {
	_, err := fmt.Fprintf(w, "%s\n", s)
	return err
}

// HandleLine processes one line and writes any reply to w. Unknown
// or malformed input is silently ignored. A non-nil error is either
// a reply write failure or a failed durable store.
func (h *Handler) HandleLine(line string, w io.Writer) error {
	if line == "" {
		return nil
	}

	idx := strings.IndexAny(line, "=?")
	if idx < 0 {
		// no punctuation: the line is a command
		switch line {
		case "CLEAR":
			return h.Station.Clear()
		case "RESETCOUNT":
			return h.Station.ResetCount()
		}
		return nil
	}

	header := line[:idx]
	if line[idx] == '=' {
		value := line[idx+1:]
		if !allPrintable(value) {
			return nil
		}
		return h.Station.SetField(header, value)
	}

	// query
	if value, ok := h.Station.Field(header); ok {
		return reply(w, value)
	}
	switch header {
	case "SERIAL":
		return reply(w, h.Station.BoardSerial())
	case "CHECK":
		if h.Station.Check() {
			return reply(w, "OK")
		}
		return reply(w, "ERR")
	case "EDGECOUNT":
		return reply(w, strconv.FormatUint(uint64(h.Station.PulseCount()), 10))
	}
	return nil
}
