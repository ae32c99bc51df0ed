package token

// Kind identifies the lexical class of a token.
type Kind int

const (
	Unknown Kind = iota
	Key
	String
	StringLit
	Number
	Boolean
	Colon
	Comma
	Anchor
	Alias
	OpenMap
	CloseMap
	OpenSeq
	CloseSeq
	EOF
)

var kindNames = [...]string{
	Unknown:   "UNKNOWN",
	Key:       "a key",
	String:    "a string",
	StringLit: "a string literal",
	Number:    "a number",
	Boolean:   "a boolean",
	Colon:     "':'",
	Comma:     "','",
	Anchor:    "an anchor",
	Alias:     "an alias",
	OpenMap:   "'{'",
	CloseMap:  "'}'",
	OpenSeq:   "'['",
	CloseSeq:  "']'",
	EOF:       "end of input",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

var kindIdents = [...]string{
	Unknown:   "UNKNOWN",
	Key:       "KEY",
	String:    "STRING",
	StringLit: "STRING_LIT",
	Number:    "NUMBER",
	Boolean:   "BOOLEAN",
	Colon:     "COLON",
	Comma:     "COMMA",
	Anchor:    "ANCHOR",
	Alias:     "ALIAS",
	OpenMap:   "OPEN_MAP",
	CloseMap:  "CLOSE_MAP",
	OpenSeq:   "OPEN_SEQ",
	CloseSeq:  "CLOSE_SEQ",
	EOF:       "EOF",
}

// Name returns the compact identifier used in token dumps; String
// returns the phrasing used in diagnostics.
func (k Kind) Name() string {
	if k < 0 || int(k) >= len(kindIdents) {
		return kindIdents[Unknown]
	}
	return kindIdents[k]
}

// Pos locates a token in the source stream.
type Pos struct {
	Offset int // absolute byte offset of the first byte
	Line   int // 1-based
	Col    int // 1-based
	Len    int // byte length of the token in the source
}

// Token is the unit handed from the lexer to the parser. Bytes is a
// slice into the lexer's arena (or into static literal storage), never
// an independent copy; it is used once and discarded after the parser
// consumes the token.
type Token struct {
	Kind  Kind
	Bytes []byte
	Pos   Pos
}

// Text returns the token bytes as a string.
func (t Token) Text() string {
	return string(t.Bytes)
}
