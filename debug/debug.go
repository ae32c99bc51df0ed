package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Tokens bool
	Parse  bool
	Refs   bool
	Build  bool
	Hooks  bool
	Watch  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tokens = boolEnv("ANVIL_DEBUG_TOKENS")
	d.Parse = boolEnv("ANVIL_DEBUG_PARSE")
	d.Refs = boolEnv("ANVIL_DEBUG_REFS")
	d.Build = boolEnv("ANVIL_DEBUG_BUILD")
	d.Hooks = boolEnv("ANVIL_DEBUG_HOOKS")
	d.Watch = boolEnv("ANVIL_DEBUG_WATCH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tokens() bool {
	return d.Tokens
}
func Parse() bool {
	return d.Parse
}
func Refs() bool {
	return d.Refs
}
func Build() bool {
	return d.Build
}
func Hooks() bool {
	return d.Hooks
}
func Watch() bool {
	return d.Watch
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
