package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/anvil-build/anvil/config"
)

// runExport projects a config file into its typed form and emits it
// in a standard interchange format.
func runExport(cfg *ExportConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Export.Parse(cc, args)
	if err != nil {
		return err
	}
	path := config.FileName
	if len(args) != 0 {
		path = args[0]
	}
	c, err := config.Load(path)
	if err != nil {
		return bail(path, err)
	}
	if cfg.J {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cc.Out, "%s\n", data)
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(data)
	return err
}
