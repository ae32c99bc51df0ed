package token

import (
	"fmt"
	"io"
	"os"

	"github.com/anvil-build/anvil/debug"
	"github.com/anvil-build/anvil/diag"
)

const (
	maxNumberLen = 64
	maxKeyLen    = 512
)

// pending marks an anchor/alias prefix character that was consumed
// invisibly; the name that follows is lexed like a key and then tagged.
type pending int

const (
	pendingNone pending = iota
	pendingAnchor
	pendingAlias
)

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
)

// Lexer converts a byte stream into tokens. It holds a single active
// token: Peek returns it without consuming, Next replaces it.
type Lexer struct {
	src   *Source
	arena *Arena

	tok    Token
	primed bool

	// stash holds a colon token that terminated a bare key; the colon
	// is consumed while deciding the key boundary and emitted on the
	// following scan.
	stash *Token

	scratch []byte // reused while collecting multi-byte token text
}

// NewLexer creates a Lexer over r. Token text is appended into arena;
// the arena must outlive every token the caller still holds.
func NewLexer(r io.Reader, arena *Arena) *Lexer {
	return &Lexer{src: NewSource(r), arena: arena}
}

// Peek returns the current token without consuming it.
func (lx *Lexer) Peek() (Token, error) {
	if !lx.primed {
		tok, err := lx.scan()
		if err != nil {
			return Token{}, err
		}
		lx.tok = tok
		lx.primed = true
	}
	return lx.tok, nil
}

// Next consumes and returns the current token.
func (lx *Lexer) Next() (Token, error) {
	tok, err := lx.Peek()
	if err != nil {
		return Token{}, err
	}
	lx.primed = false
	if debug.Tokens() {
		fmt.Fprintf(os.Stderr, "token %s %q at %d:%d\n",
			tok.Kind.Name(), tok.Text(), tok.Pos.Line, tok.Pos.Col)
	}
	return tok, nil
}

func (lx *Lexer) pos() diag.Pos {
	return diag.Pos{
		Offset: lx.src.Offset(),
		Line:   lx.src.Line(),
		Col:    lx.src.Col(),
		Len:    1,
	}
}

func (lx *Lexer) tokenPos(start diag.Pos) Pos {
	return Pos{
		Offset: start.Offset,
		Line:   start.Line,
		Col:    start.Col,
		Len:    lx.src.Offset() - start.Offset,
	}
}

// skipSpaces consumes spaces. A tab encountered while leading
// whitespace is being skipped is a hard error.
func (lx *Lexer) skipSpaces() *diag.Error {
	for lx.src.Peek() == ' ' {
		lx.src.Advance()
	}
	if lx.src.Peek() == '\t' {
		return diag.New(diag.TabIndentation, lx.pos(), "", "")
	}
	return nil
}

// scan is the core dispatch: it skips inter-token space, collapses
// newline runs, strips comments, consumes anchor/alias prefixes
// invisibly, and emits the next token.
func (lx *Lexer) scan() (Token, error) {
	if lx.stash != nil {
		tok := *lx.stash
		lx.stash = nil
		return tok, nil
	}
	mark := pendingNone
	for {
		if err := lx.skipSpaces(); err != nil {
			return Token{}, err
		}
		c := lx.src.Peek()
		start := lx.pos()

		switch {
		case lx.src.AtEnd():
			return Token{Kind: EOF, Pos: lx.tokenPos(start)}, nil

		case c == '\n':
			for lx.src.Peek() == '\n' {
				lx.src.Advance()
			}
			continue

		case c == '#':
			for lx.src.Peek() != '\n' && !lx.src.AtEnd() {
				lx.src.Advance()
			}
			continue

		case c == '&':
			mark = pendingAnchor
			lx.src.Advance()
			continue

		case c == '*':
			mark = pendingAlias
			lx.src.Advance()
			continue

		case c == ':':
			lx.src.Advance()
			return Token{Kind: Colon, Pos: lx.tokenPos(start)}, nil

		case c == ',':
			lx.src.Advance()
			return Token{Kind: Comma, Pos: lx.tokenPos(start)}, nil

		case c == '{':
			lx.src.Advance()
			return Token{Kind: OpenMap, Pos: lx.tokenPos(start)}, nil

		case c == '}':
			lx.src.Advance()
			return Token{Kind: CloseMap, Pos: lx.tokenPos(start)}, nil

		case c == '[':
			lx.src.Advance()
			return Token{Kind: OpenSeq, Pos: lx.tokenPos(start)}, nil

		case c == ']':
			lx.src.Advance()
			return Token{Kind: CloseSeq, Pos: lx.tokenPos(start)}, nil

		case c == '"':
			return lx.scanDoubleQuoted(start)

		case c == '\'':
			return lx.scanSingleQuoted(start)

		case c >= '0' && c <= '9', c == '.', c == '-', c == '+':
			return lx.scanNumber(start, mark)

		case c == 't' || c == 'f':
			return lx.scanBoolOrKey(start, mark)

		default:
			return lx.scanKey(start, mark)
		}
	}
}

// scanDoubleQuoted lexes a "..." string, resolving backslash escapes
// during the scan.
func (lx *Lexer) scanDoubleQuoted(start diag.Pos) (Token, error) {
	lx.src.Advance() // opening quote
	lx.scratch = lx.scratch[:0]
	for {
		c := lx.src.Peek()
		switch {
		case lx.src.AtEnd():
			return Token{}, diag.New(diag.UnclosedQuote, start, "", "EOF")
		case c == '\n':
			return Token{}, diag.New(diag.UnclosedQuote, start, "", "NEWLINE")
		case c == '"':
			lx.src.Advance()
			return Token{
				Kind:  String,
				Bytes: lx.arena.Append(lx.scratch),
				Pos:   lx.tokenPos(start),
			}, nil
		case c == '\\':
			lx.src.Advance()
			if lx.src.AtEnd() {
				return Token{}, diag.New(diag.UnclosedQuote, start, "", "EOF")
			}
			lx.scratch = append(lx.scratch, unescape(lx.src.Peek()))
			lx.src.Advance()
		default:
			lx.scratch = append(lx.scratch, c)
			lx.src.Advance()
		}
	}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		// \" \\ \' and unrecognized escapes keep the character itself.
		return c
	}
}

// scanSingleQuoted lexes a '...' literal. A doubled '' is a single
// literal quote and the token continues; no other escape processing.
func (lx *Lexer) scanSingleQuoted(start diag.Pos) (Token, error) {
	lx.src.Advance() // opening quote
	lx.scratch = lx.scratch[:0]
	for {
		c := lx.src.Peek()
		switch {
		case lx.src.AtEnd():
			return Token{}, diag.New(diag.UnclosedQuote, start, "", "EOF")
		case c == '\n':
			return Token{}, diag.New(diag.UnclosedQuote, start, "", "NEWLINE")
		case c == '\'':
			lx.src.Advance()
			if lx.src.Peek() == '\'' {
				lx.scratch = append(lx.scratch, '\'')
				lx.src.Advance()
				continue
			}
			return Token{
				Kind:  StringLit,
				Bytes: lx.arena.Append(lx.scratch),
				Pos:   lx.tokenPos(start),
			}, nil
		default:
			lx.scratch = append(lx.scratch, c)
			lx.src.Advance()
		}
	}
}

// isDelimiter reports whether c may legally follow a number or boolean.
func (lx *Lexer) isDelimiter(c byte) bool {
	switch c {
	case ' ', '\n', ',', '}', ']':
		return true
	}
	return lx.src.AtEnd()
}

func isNumberByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '+' || c == '_' || c == 'e' || c == 'E':
		return true
	}
	return false
}

// scanNumber attempts a number; when the scan runs into a byte that is
// neither numeric nor a delimiter, the input is re-interpreted as a key.
func (lx *Lexer) scanNumber(start diag.Pos, mark pending) (Token, error) {
	lx.scratch = lx.scratch[:0]
	for isNumberByte(lx.src.Peek()) && !lx.src.AtEnd() {
		lx.scratch = append(lx.scratch, lx.src.Peek())
		lx.src.Advance()
		if len(lx.scratch) > maxNumberLen {
			return Token{}, diag.New(diag.NumberTooLong, start, "", "")
		}
	}
	if !lx.isDelimiter(lx.src.Peek()) || mark != pendingNone {
		return lx.continueKey(start, mark)
	}
	return Token{
		Kind:  Number,
		Bytes: lx.arena.Append(lx.scratch),
		Pos:   lx.tokenPos(start),
	}, nil
}

// scanBoolOrKey matches the literals true/false followed by a
// delimiter, falling back to key lexing on mismatch.
func (lx *Lexer) scanBoolOrKey(start diag.Pos, mark pending) (Token, error) {
	want := trueBytes
	if lx.src.Peek() == 'f' {
		want = falseBytes
	}
	lx.scratch = lx.scratch[:0]
	for i := 0; i < len(want); i++ {
		if lx.src.Peek() != want[i] || lx.src.AtEnd() {
			return lx.continueKey(start, mark)
		}
		lx.scratch = append(lx.scratch, lx.src.Peek())
		lx.src.Advance()
	}
	if !lx.isDelimiter(lx.src.Peek()) || mark != pendingNone {
		return lx.continueKey(start, mark)
	}
	return Token{
		Kind:  Boolean,
		Bytes: lx.arena.Append(lx.scratch),
		Pos:   lx.tokenPos(start),
	}, nil
}

// scanKey lexes a bare key from the current position.
func (lx *Lexer) scanKey(start diag.Pos, mark pending) (Token, error) {
	lx.scratch = lx.scratch[:0]
	return lx.continueKey(start, mark)
}

// continueKey extends lx.scratch with key bytes. An embedded ':' is
// permitted inside the key unless immediately followed by a space,
// newline or EOF, in which case it terminates the key and is not
// included in it.
func (lx *Lexer) continueKey(start diag.Pos, mark pending) (Token, error) {
	for {
		c := lx.src.Peek()
		if lx.src.AtEnd() {
			break
		}
		if c == ' ' || c == '\n' || c == ',' || c == '{' || c == '}' || c == '[' || c == ']' || c == '#' || c == '\t' {
			break
		}
		if c == ':' {
			colonPos := lx.pos()
			lx.src.Advance()
			next := lx.src.Peek()
			if lx.src.AtEnd() || next == ' ' || next == '\n' {
				lx.stash = &Token{Kind: Colon, Pos: Pos{
					Offset: colonPos.Offset,
					Line:   colonPos.Line,
					Col:    colonPos.Col,
					Len:    1,
				}}
				break
			}
			lx.scratch = append(lx.scratch, ':')
		} else {
			lx.scratch = append(lx.scratch, c)
			lx.src.Advance()
		}
		if len(lx.scratch) > maxKeyLen {
			return Token{}, diag.New(diag.KeyTooLong, start, "", "")
		}
	}
	kind := Key
	switch mark {
	case pendingAnchor:
		kind = Anchor
	case pendingAlias:
		kind = Alias
	}
	pos := lx.tokenPos(start)
	if lx.stash != nil {
		pos.Len-- // the consumed colon is not part of the key
	}
	return Token{
		Kind:  kind,
		Bytes: lx.arena.Append(lx.scratch),
		Pos:   pos,
	}, nil
}
