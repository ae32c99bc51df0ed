package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/anvil-build/anvil/config"
	"github.com/anvil-build/anvil/token"
)

// runTokens dumps the raw token stream, one token per line.
func runTokens(cfg *TokensConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tokens.Parse(cc, args)
	if err != nil {
		return err
	}
	path := config.FileName
	if len(args) != 0 {
		path = args[0]
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	lx := token.NewLexer(f, &token.Arena{})
	for {
		tok, err := lx.Next()
		if err != nil {
			return bail(path, err)
		}
		fmt.Fprintf(cc.Out, "%d:%d\t%s\t%q\n", tok.Pos.Line, tok.Pos.Col, tok.Kind.Name(), tok.Text())
		if tok.Kind == token.EOF {
			return nil
		}
	}
}
