package encode

import (
	"fmt"
	"io"
	"strconv"

	"github.com/anvil-build/anvil/ir"
)

// Encode writes an indented view of n to w without colors.
func Encode(n *ir.Node, w io.Writer) error {
	e := &encoder{w: w, colors: noColors()}
	return e.node(n, 0)
}

// EncodeColor writes an indented view of n to w using colors.
func EncodeColor(n *ir.Node, w io.Writer, colors *Colors) error {
	e := &encoder{w: w, colors: colors}
	return e.node(n, 0)
}

type encoder struct {
	w      io.Writer
	colors *Colors
}

const indentStep = "  "

func (e *encoder) node(n *ir.Node, depth int) error {
	switch n.Kind {
	case ir.MapKind:
		return e.mapNode(n, depth)
	case ir.ListKind:
		return e.listNode(n, depth)
	}
	_, err := io.WriteString(e.w, e.leaf(n)+"\n")
	return err
}

func (e *encoder) mapNode(n *ir.Node, depth int) error {
	if len(n.Entries) == 0 {
		_, err := io.WriteString(e.w, e.colors.Sep("{}")+"\n")
		return err
	}
	for _, entry := range n.Entries {
		if err := e.indent(depth); err != nil {
			return err
		}
		key := e.colors.Field(entry.Key) + e.colors.Sep(":")
		switch entry.Val.Kind {
		case ir.MapKind, ir.ListKind:
			if empty(entry.Val) {
				if _, err := fmt.Fprintf(e.w, "%s %s", key, e.leaf(entry.Val)); err != nil {
					return err
				}
				if _, err := io.WriteString(e.w, "\n"); err != nil {
					return err
				}
				continue
			}
			if _, err := io.WriteString(e.w, key+e.shared(entry.Val)+"\n"); err != nil {
				return err
			}
			if err := e.node(entry.Val, depth+1); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(e.w, "%s %s%s\n", key, e.leaf(entry.Val), e.shared(entry.Val)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *encoder) listNode(n *ir.Node, depth int) error {
	if len(n.Items) == 0 {
		_, err := io.WriteString(e.w, e.colors.Sep("[]")+"\n")
		return err
	}
	for _, item := range n.Items {
		if err := e.indent(depth); err != nil {
			return err
		}
		dash := e.colors.Sep("-") + " "
		switch item.Kind {
		case ir.MapKind, ir.ListKind:
			if empty(item) {
				if _, err := io.WriteString(e.w, dash+e.leaf(item)+"\n"); err != nil {
					return err
				}
				continue
			}
			if _, err := io.WriteString(e.w, dash+e.shared(item)+"\n"); err != nil {
				return err
			}
			if err := e.node(item, depth+1); err != nil {
				return err
			}
		default:
			if _, err := io.WriteString(e.w, dash+e.leaf(item)+e.shared(item)+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *encoder) indent(depth int) error {
	for i := 0; i < depth; i++ {
		if _, err := io.WriteString(e.w, indentStep); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) leaf(n *ir.Node) string {
	switch n.Kind {
	case ir.StringKind:
		return e.colors.Value(ir.StringKind, strconv.Quote(n.Str))
	case ir.NumberKind:
		return e.colors.Value(ir.NumberKind, strconv.FormatFloat(n.Num, 'g', -1, 64))
	case ir.BoolKind:
		return e.colors.Value(ir.BoolKind, strconv.FormatBool(n.Bool))
	case ir.MapKind:
		return e.colors.Sep("{}")
	case ir.ListKind:
		return e.colors.Sep("[]")
	}
	return "?"
}

// shared annotates nodes with extra owners so aliasing is visible in
// the dump.
func (e *encoder) shared(n *ir.Node) string {
	if n.Refs() == 0 {
		return ""
	}
	return e.colors.Shared(fmt.Sprintf("  # shared x%d", n.Refs()+1))
}

func empty(n *ir.Node) bool {
	switch n.Kind {
	case ir.MapKind:
		return len(n.Entries) == 0
	case ir.ListKind:
		return len(n.Items) == 0
	}
	return false
}
