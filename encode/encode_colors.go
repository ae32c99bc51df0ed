package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/anvil-build/anvil/ir"
)

// Colors maps tree elements to sprint functions. The zero value is
// not usable; construct with NewColors or noColors.
type Colors struct {
	field  func(string, ...any) string
	sep    func(string, ...any) string
	shared func(string, ...any) string
	value  map[ir.Kind]func(string, ...any) string
	def    func(string, ...any) string
}

// NewColors builds the default palette.
func NewColors() *Colors {
	c := &Colors{
		field:  color.RGB(196, 96, 16).SprintfFunc(),
		sep:    color.RGB(255, 0, 196).SprintfFunc(),
		shared: color.RGB(96, 96, 96).SprintfFunc(),
		def:    colorDefault,
		value: map[ir.Kind]func(string, ...any) string{
			ir.StringKind: color.RGB(8, 196, 16).SprintfFunc(),
			ir.NumberKind: color.RGB(128, 216, 236).SprintfFunc(),
			ir.BoolKind:   color.CyanString,
		},
	}
	c.field = escaped(c.field)
	c.sep = escaped(c.sep)
	c.shared = escaped(c.shared)
	for k, f := range c.value {
		c.value[k] = escaped(f)
	}
	return c
}

func noColors() *Colors {
	return &Colors{
		field:  colorDefault,
		sep:    colorDefault,
		shared: colorDefault,
		def:    colorDefault,
		value:  map[ir.Kind]func(string, ...any) string{},
	}
}

func colorDefault(v string, _ ...any) string { return v }

// escaped guards literal percent signs in the colored text.
func escaped(f func(string, ...any) string) func(string, ...any) string {
	return func(v string, _ ...any) string {
		return f(strings.Replace(v, "%", "%%", -1))
	}
}

func (c *Colors) Field(s string) string  { return c.field(s) }
func (c *Colors) Sep(s string) string    { return c.sep(s) }
func (c *Colors) Shared(s string) string { return c.shared(s) }

func (c *Colors) Value(k ir.Kind, s string) string {
	f := c.value[k]
	if f == nil {
		return c.def(s)
	}
	return f(s)
}
