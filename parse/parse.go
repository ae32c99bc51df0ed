// Package parse builds ir trees from the flow config dialect.
package parse

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anvil-build/anvil/debug"
	"github.com/anvil-build/anvil/diag"
	"github.com/anvil-build/anvil/ir"
	"github.com/anvil-build/anvil/token"
)

// mergeKey inherits entries from a map value into the enclosing map.
const mergeKey = "<<"

// maxDepth bounds flow nesting so cyclic or adversarial inputs cannot
// exhaust the goroutine stack.
const maxDepth = 256

// Parser consumes one token stream and produces one document tree.
// The anchor table lives for the duration of a single Parse call and
// holds no ownership of the nodes it names.
type Parser struct {
	lx      *token.Lexer
	anchors map[string]*ir.Node
	depth   int
}

// File parses the config at path. The path must name a non-empty
// regular file.
func File(path string) (*ir.Node, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Reader(f)
}

// Reader parses one document from r. On malformed input the returned
// error is a *diag.Error carrying the offending position.
func Reader(r io.Reader) (*ir.Node, error) {
	p := &Parser{
		lx:      token.NewLexer(r, &token.Arena{}),
		anchors: map[string]*ir.Node{},
	}
	root := ir.NewMap()
	if err := p.mapBody(root, false); err != nil {
		root.Release()
		return nil, err
	}
	if debug.Parse() {
		debug.LogAny(root)
	}
	return root, nil
}

// String parses one document from an in-memory source.
func String(s string) (*ir.Node, error) {
	return Reader(strings.NewReader(s))
}

func dpos(p token.Pos) diag.Pos {
	return diag.Pos{Offset: p.Offset, Line: p.Line, Col: p.Col, Len: p.Len}
}

// mapBody reads key/value pairs into dst until the map closes. At the
// top level pairs are newline separated and the map closes at end of
// input; inside braces pairs are comma separated and the map closes
// at '}'.
func (p *Parser) mapBody(dst *ir.Node, flow bool) error {
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.EOF:
			if flow {
				return diag.New(diag.UnexpectedToken, dpos(tok.Pos), "'}'", tok.Kind.String())
			}
			p.lx.Next()
			return nil
		case token.CloseMap:
			if !flow {
				return diag.New(diag.UnexpectedToken, dpos(tok.Pos), "a key", tok.Kind.String())
			}
			p.lx.Next()
			return nil
		case token.Key:
			// fall through to the pair below
		default:
			return diag.New(diag.UnexpectedToken, dpos(tok.Pos), "a key", tok.Kind.String())
		}
		if err := p.pair(dst, tok); err != nil {
			return err
		}

		if !flow {
			continue
		}
		sep, err := p.lx.Peek()
		if err != nil {
			return err
		}
		switch sep.Kind {
		case token.Comma:
			p.lx.Next()
		case token.CloseMap:
			// closed on the next iteration
		case token.Key:
			return diag.New(diag.MissingComma, dpos(sep.Pos), "", sep.Text())
		default:
			return diag.New(diag.UnexpectedToken, dpos(sep.Pos), "',' or '}'", sep.Kind.String())
		}
	}
}

// pair consumes one key, its colon and its value. keyTok has already
// been peeked by the caller.
func (p *Parser) pair(dst *ir.Node, keyTok token.Token) error {
	key := keyTok.Text()
	keyPos := keyTok.Pos
	p.lx.Next()

	colon, err := p.lx.Peek()
	if err != nil {
		return err
	}
	if colon.Kind != token.Colon {
		return diag.New(diag.UnexpectedToken, dpos(colon.Pos), "':'", colon.Kind.String())
	}
	p.lx.Next()

	next, err := p.lx.Peek()
	if err != nil {
		return err
	}
	switch next.Kind {
	case token.Key, token.Comma, token.CloseMap, token.EOF:
		return diag.New(diag.MissingValue, dpos(keyPos), "", key)
	}

	val, err := p.value()
	if err != nil {
		return err
	}
	if key == mergeKey {
		if val.Kind != ir.MapKind {
			pos := dpos(next.Pos)
			val.Release()
			return diag.New(diag.UnexpectedToken, pos, "a map", val.Kind.String())
		}
		p.merge(dst, val)
		return nil
	}
	dst.Add(key, val)
	return nil
}

// merge moves or copies the entries of src into dst. A shared source
// keeps its entries alive for its other owners, so each inherited
// value gains a reference and only the alias-acquired reference on the
// source itself is dropped. A uniquely owned source is consumed whole:
// its entries move and the empty shell is discarded.
func (p *Parser) merge(dst, src *ir.Node) {
	if src.Refs() > 0 {
		for _, e := range src.Entries {
			e.Val.Retain()
			if debug.Refs() {
				fmt.Fprintf(os.Stderr, "refs: merge retain %q -> %d\n", e.Key, e.Val.Refs())
			}
			dst.Add(e.Key, e.Val)
		}
		src.Release()
		return
	}
	for _, e := range src.Entries {
		dst.Add(e.Key, e.Val)
	}
	src.DiscardShallow()
}

// listBody reads comma separated elements into dst until ']'. A
// trailing comma before the closing bracket is tolerated.
func (p *Parser) listBody(dst *ir.Node) error {
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.CloseSeq:
			p.lx.Next()
			return nil
		case token.EOF:
			return diag.New(diag.UnexpectedToken, dpos(tok.Pos), "']'", tok.Kind.String())
		}
		v, err := p.value()
		if err != nil {
			return err
		}
		dst.Append(v)

		sep, err := p.lx.Peek()
		if err != nil {
			return err
		}
		switch sep.Kind {
		case token.Comma:
			p.lx.Next()
		case token.CloseSeq:
			// closed on the next iteration
		case token.EOF:
			return diag.New(diag.UnexpectedToken, dpos(sep.Pos), "']'", sep.Kind.String())
		default:
			return diag.New(diag.MissingComma, dpos(sep.Pos), "", sep.Text())
		}
	}
}

// value parses one value of any kind.
func (p *Parser) value() (*ir.Node, error) {
	tok, err := p.lx.Peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.String, token.StringLit:
		p.lx.Next()
		return ir.FromString(tok.Text()), nil
	case token.Number:
		p.lx.Next()
		return p.number(tok)
	case token.Boolean:
		p.lx.Next()
		return ir.FromBool(tok.Text() == "true"), nil
	case token.Anchor:
		p.lx.Next()
		return p.anchor(tok)
	case token.Alias:
		p.lx.Next()
		return p.alias(tok)
	case token.OpenMap:
		if p.depth >= maxDepth {
			return nil, diag.New(diag.UnexpectedToken, dpos(tok.Pos),
				"nesting shallower than "+strconv.Itoa(maxDepth)+" levels", tok.Kind.String())
		}
		p.lx.Next()
		n := ir.NewMap()
		p.depth++
		err := p.mapBody(n, true)
		p.depth--
		if err != nil {
			n.Release()
			return nil, err
		}
		return n, nil
	case token.OpenSeq:
		if p.depth >= maxDepth {
			return nil, diag.New(diag.UnexpectedToken, dpos(tok.Pos),
				"nesting shallower than "+strconv.Itoa(maxDepth)+" levels", tok.Kind.String())
		}
		p.lx.Next()
		n := ir.NewList()
		p.depth++
		err := p.listBody(n)
		p.depth--
		if err != nil {
			n.Release()
			return nil, err
		}
		return n, nil
	}
	return nil, diag.New(diag.UnexpectedToken, dpos(tok.Pos), "a value", tok.Kind.String())
}

// number converts the raw literal to a float64. Underscore group
// separators are stripped before conversion.
func (p *Parser) number(tok token.Token) (*ir.Node, error) {
	lit := tok.Text()
	if strings.ContainsRune(lit, '_') {
		lit = strings.ReplaceAll(lit, "_", "")
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, diag.New(diag.UnexpectedToken, dpos(tok.Pos), "a number", tok.Text())
	}
	return ir.FromNumber(f), nil
}

// anchor binds a name to the value that follows it. The binding does
// not count as an owner; only later aliases do.
func (p *Parser) anchor(tok token.Token) (*ir.Node, error) {
	name := tok.Text()
	if _, ok := p.anchors[name]; ok {
		return nil, diag.New(diag.RedefinedAlias, dpos(tok.Pos), "", name)
	}
	val, err := p.value()
	if err != nil {
		return nil, err
	}
	p.anchors[name] = val
	return val, nil
}

// alias resolves a name to its bound node and takes a reference for
// the new owner.
func (p *Parser) alias(tok token.Token) (*ir.Node, error) {
	name := tok.Text()
	n, ok := p.anchors[name]
	if !ok {
		return nil, diag.New(diag.UndefinedAlias, dpos(tok.Pos), "", name)
	}
	n.Retain()
	if debug.Refs() {
		fmt.Fprintf(os.Stderr, "refs: alias %q -> %d\n", name, n.Refs())
	}
	return n, nil
}
