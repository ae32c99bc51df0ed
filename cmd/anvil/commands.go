package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "anvil").
		WithSynopsis("anvil [opts] command [opts]").
		WithDescription("anvil builds native projects described by an anvil.yaml file.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return anvilMain(cfg, cc, args)
		}).
		WithSubs(
			BuildCommand(cfg),
			ShowCommand(cfg),
			ExportCommand(cfg),
			WatchCommand(cfg),
			TokensCommand(cfg))
}

func anvilMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func BuildCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BuildConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Build, "build").
		WithAliases("b").
		WithSynopsis("build [-l] [-p profile] [-t target] [-f] [-n] [dir]").
		WithDescription("compile the targets of the project in dir (default current directory)").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runBuild(cfg, cc, args)
		})
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Show, "show").
		WithAliases("s").
		WithSynopsis("show [file]").
		WithDescription("parse a config file and print its document tree").
		WithRun(func(cc *cli.Context, args []string) error {
			return runShow(cfg, cc, args)
		})
}

func ExportCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExportConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Export, "export").
		WithAliases("e", "ex").
		WithSynopsis("export [-j] [file]").
		WithDescription("project a config file and emit it as YAML or JSON").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runExport(cfg, cc, args)
		})
}

func WatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Watch, "watch").
		WithAliases("w").
		WithSynopsis("watch [-p profile] [-t target] [dir]").
		WithDescription("rebuild on every source change in dir").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runWatch(cfg, cc, args)
		})
}

func TokensCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TokensConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Tokens, "tokens").
		WithSynopsis("tokens [file]").
		WithDescription("dump the token stream of a config file").
		WithRun(func(cc *cli.Context, args []string) error {
			return runTokens(cfg, cc, args)
		})
}
