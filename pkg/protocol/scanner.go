package protocol

// MaxLine bounds the accumulated command line.
const MaxLine = 512

// Scanner accumulates printable bytes into lines. A carriage return
// completes the line; non-printable bytes are dropped; an overlong
// line wraps around the buffer.
type Scanner struct {
	buf [MaxLine]byte
	n   int
}

func printable(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

// Feed consumes one byte. ok reports that a complete line is returned.
func (s *Scanner) Feed(b byte) (line string, ok bool) {
	if b == '\r' {
		line, ok = string(s.buf[:s.n]), true
		s.n = 0
		return
	}
	if printable(b) {
		s.buf[s.n] = b
		s.n = (s.n + 1) % MaxLine
	}
	return
}
