package token

import (
	"io"
)

// EOFByte is the sentinel returned by Peek once the underlying reader is
// exhausted. Reading past true end-of-file yields it forever after.
const EOFByte = 0

const sourceChunkSize = 4096

// maxEmptyReads bounds consecutive (0, nil) reads before the source
// gives up and reports end of input, as bufio does.
const maxEmptyReads = 100

// Source is a buffered byte source for the lexer. It reads fixed-size
// chunks from an io.Reader with blocking reads and exposes a
// peek/advance/at-end surface, keeping the refill policy out of the
// scanning logic.
type Source struct {
	r     io.Reader
	chunk []byte // fixed-size read buffer
	buf   []byte // filled prefix of chunk
	pos   int    // cursor within buf
	eof   bool

	off  int // absolute offset of buf[pos]
	line int // 1-based
	col  int // 1-based, reset by newline
}

// NewSource creates a Source reading from r in 4 KiB chunks.
func NewSource(r io.Reader) *Source {
	return &Source{r: r, line: 1, col: 1}
}

// Peek returns the current byte without consuming it, or EOFByte at end
// of input.
func (s *Source) Peek() byte {
	if s.pos >= len(s.buf) {
		s.fill()
		if s.pos >= len(s.buf) {
			return EOFByte
		}
	}
	return s.buf[s.pos]
}

// Advance consumes one byte, updating offset and line/column tracking.
// Advancing at end of input is a no-op.
func (s *Source) Advance() {
	c := s.Peek()
	if s.AtEnd() {
		return
	}
	s.pos++
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

// AtEnd reports whether the input is exhausted.
func (s *Source) AtEnd() bool {
	if s.pos < len(s.buf) {
		return false
	}
	s.fill()
	return s.pos >= len(s.buf)
}

// Offset returns the absolute byte offset of the cursor.
func (s *Source) Offset() int { return s.off }

// Line returns the 1-based line of the cursor.
func (s *Source) Line() int { return s.line }

// Col returns the 1-based column of the cursor.
func (s *Source) Col() int { return s.col }

// fill refills the chunk buffer with a blocking read. Once the reader
// reports EOF the source stays at end permanently.
func (s *Source) fill() {
	if s.eof {
		return
	}
	if s.pos < len(s.buf) {
		return
	}
	if s.chunk == nil {
		s.chunk = make([]byte, sourceChunkSize)
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := s.r.Read(s.chunk)
		if n > 0 {
			s.buf = s.chunk[:n]
			s.pos = 0
			return
		}
		if err != nil {
			break
		}
	}
	s.eof = true
	s.buf = nil
	s.pos = 0
}
