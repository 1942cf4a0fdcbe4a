package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/khanghh/crowdfund/cmd/crowdfund/commands"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"gopkg.in/urfave/cli.v1"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app *cli.App
)

func init() {
	app = cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "Crowdfunding contract client"
	app.Version = fmt.Sprintf("%s - %s ", gitCommit, gitDate)
	app.Flags = []cli.Flag{
		configFileFlag,
		rpcUrlFlag,
		contractFlag,
		abiFileFlag,
		keyFileFlag,
		keystoreFlag,
		accountFlag,
		passwordFileFlag,
		discordTokenFlag,
		discordChannelFlag,
		pollIntervalFlag,
		metricsEnabledFlag,
		metricsAddrFlag,
		verbosityFlag,
		vmoduleFlag,
	}
	app.Commands = []cli.Command{
		clientCommand("status", false),
		clientCommand("contribute", true),
		clientCommand("refund", true),
		clientCommand("start", true),
		clientCommand("campaigns", false),
		clientCommand("account", true),
		{
			Name:   "console",
			Usage:  "Start an interactive console",
			Action: runConsole,
		},
		{
			Name:   "serve",
			Usage:  "Keep the campaign state refreshed and serve the discord bot until interrupted",
			Action: serve,
		},
		{
			Name:   "abi",
			Usage:  "Print the contract ABI in use",
			Action: printABI,
		},
		{
			Name:      "dumpconfig",
			Usage:     "Show configuration values",
			ArgsUsage: "[file]",
			Action:    dumpConfig,
		},
	}
	app.Before = setupLogging
}

// clientCommand exposes a console command as a one-shot subcommand.
func clientCommand(name string, needSigner bool) cli.Command {
	cmd, _ := commands.Lookup(name)
	return cli.Command{
		Name:      name,
		Usage:     cmd.Description,
		ArgsUsage: strings.TrimSpace(strings.TrimPrefix(cmd.Usage, name)),
		Action: func(ctx *cli.Context) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := s.connect(runCtx, needSigner); err != nil {
				return err
			}
			_, err = commands.Execute(runCtx, s.client, name, ctx.Args())
			return commandError(err)
		},
	}
}

// commandError hides errors the view has already shown.
func commandError(err error) error {
	if err == nil || commands.IsUsageError(err) {
		return err
	}
	return cli.NewExitError("", 1)
}

func printABI(ctx *cli.Context) error {
	config, err := makeAppConfig(ctx)
	if err != nil {
		return err
	}
	handle, err := contract.LoadHandle(config.Contract)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(handle.Interface(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
