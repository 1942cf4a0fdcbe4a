package main

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

// setupLogging installs a glog handler writing to stderr, colored when
// stderr is a terminal.
func setupLogging(ctx *cli.Context) error {
	var (
		output   io.Writer = os.Stderr
		usecolor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	glogger := log.NewGlogHandler(log.StreamHandler(output, log.TerminalFormat(usecolor)))
	glogger.Verbosity(log.Lvl(ctx.GlobalInt(verbosityFlag.Name)))
	if vmodule := ctx.GlobalString(vmoduleFlag.Name); vmodule != "" {
		if err := glogger.Vmodule(vmodule); err != nil {
			return err
		}
	}
	log.Root().SetHandler(glogger)
	return nil
}
