package token

import (
	"strings"
	"testing"
	"testing/iotest"
)

func TestSourceWalk(t *testing.T) {
	s := NewSource(strings.NewReader("ab\ncd"))
	wantBytes := "ab\ncd"
	for i := 0; i < len(wantBytes); i++ {
		if got := s.Peek(); got != wantBytes[i] {
			t.Fatalf("byte %d: got %q want %q", i, got, wantBytes[i])
		}
		if s.Offset() != i {
			t.Fatalf("byte %d: offset %d", i, s.Offset())
		}
		s.Advance()
	}
	if !s.AtEnd() {
		t.Fatal("expected end of input")
	}
	for i := 0; i < 3; i++ {
		if got := s.Peek(); got != EOFByte {
			t.Fatalf("past end: got %q want sentinel", got)
		}
		s.Advance()
	}
	if s.Offset() != len(wantBytes) {
		t.Fatalf("offset moved past end: %d", s.Offset())
	}
}

func TestSourceLineCol(t *testing.T) {
	s := NewSource(strings.NewReader("a\nbc\n"))
	type lc struct{ line, col int }
	want := []lc{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {2, 3}}
	for i, w := range want {
		if s.Line() != w.line || s.Col() != w.col {
			t.Fatalf("byte %d: at %d:%d, want %d:%d", i, s.Line(), s.Col(), w.line, w.col)
		}
		s.Advance()
	}
	if s.Line() != 3 || s.Col() != 1 {
		t.Fatalf("after trailing newline: %d:%d", s.Line(), s.Col())
	}
}

func TestSourceChunkBoundary(t *testing.T) {
	var sb strings.Builder
	for sb.Len() < sourceChunkSize*2+100 {
		sb.WriteString("0123456789")
	}
	in := sb.String()
	s := NewSource(strings.NewReader(in))
	for i := 0; i < len(in); i++ {
		if got := s.Peek(); got != in[i] {
			t.Fatalf("byte %d: got %q want %q", i, got, in[i])
		}
		s.Advance()
	}
	if !s.AtEnd() {
		t.Fatal("expected end of input")
	}
}

func TestSourceShortReads(t *testing.T) {
	in := "hello\nworld"
	s := NewSource(iotest.OneByteReader(strings.NewReader(in)))
	var out []byte
	for !s.AtEnd() {
		out = append(out, s.Peek())
		s.Advance()
	}
	if string(out) != in {
		t.Fatalf("got %q want %q", out, in)
	}
}

// noProgressReader returns (0, nil) forever.
type noProgressReader struct{}

func (noProgressReader) Read(p []byte) (int, error) { return 0, nil }

func TestSourceStoppedReader(t *testing.T) {
	s := NewSource(noProgressReader{})
	if !s.AtEnd() {
		t.Fatal("a reader that never progresses should count as end of input")
	}
	if got := s.Peek(); got != EOFByte {
		t.Fatalf("Peek = %#x, want EOF sentinel", got)
	}
}
