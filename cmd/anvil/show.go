package main

import (
	"github.com/scott-cotton/cli"

	"github.com/anvil-build/anvil/config"
	"github.com/anvil-build/anvil/encode"
	"github.com/anvil-build/anvil/parse"
)

func runShow(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		return err
	}
	path := config.FileName
	if len(args) != 0 {
		path = args[0]
	}
	root, err := parse.File(path)
	if err != nil {
		return bail(path, err)
	}
	defer root.Release()
	if colors := cfg.colors(cc.Out); colors != nil {
		return encode.EncodeColor(root, cc.Out, colors)
	}
	return encode.Encode(root, cc.Out)
}
