package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/anvil-build/anvil/encode"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force colored output'"`
	NoColor bool `cli:"name=nocolor desc='disable colored output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// colors picks the palette for w, honoring the color flags and
// falling back to tty detection.
func (cfg *MainConfig) colors(w any) *encode.Colors {
	if cfg.NoColor {
		return nil
	}
	if cfg.Color {
		return encode.NewColors()
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return encode.NewColors()
	}
	return nil
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

type BuildConfig struct {
	*MainConfig

	List    bool   `cli:"name=l aliases=list desc='list targets'"`
	Profile string `cli:"name=p aliases=profile desc='profile to build with'"`
	Target  string `cli:"name=t aliases=target desc='build only the named target'"`
	Force   bool   `cli:"name=f aliases=force desc='rebuild even when up to date'"`
	DryRun  bool   `cli:"name=n aliases=dry desc='print commands without running them'"`

	Build *cli.Command
}

type ShowConfig struct {
	*MainConfig

	Show *cli.Command
}

type ExportConfig struct {
	*MainConfig

	J bool `cli:"name=j aliases=json desc='emit JSON instead of YAML'"`

	Export *cli.Command
}

type WatchConfig struct {
	*MainConfig

	Profile string `cli:"name=p aliases=profile desc='profile to build with'"`
	Target  string `cli:"name=t aliases=target desc='build only the named target'"`

	Watch *cli.Command
}

type TokensConfig struct {
	*MainConfig

	Tokens *cli.Command
}
