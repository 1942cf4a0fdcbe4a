package main

import "gopkg.in/urfave/cli.v1"

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	rpcUrlFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "Ethereum node RPC url (http, ws or IPC path)",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "Address of the crowdfunding contract",
	}
	abiFileFlag = cli.StringFlag{
		Name:  "abi",
		Usage: "Contract ABI file, JSON ABI or a list of method signatures. If not specified the built-in ABI is used",
	}
	keyFileFlag = cli.StringFlag{
		Name:  "key",
		Usage: "File holding the hex encoded private key of the signer",
	}
	keystoreFlag = cli.StringFlag{
		Name:  "keystore",
		Usage: "Directory of the encrypted signer keystore",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "Address of the signer account, first available account if not specified",
	}
	passwordFileFlag = cli.StringFlag{
		Name:  "password",
		Usage: "Password file used to unlock the keystore account",
	}
	discordTokenFlag = cli.StringFlag{
		Name:  "discord.token",
		Usage: "Discord bot token, enables the discord bot in serve mode",
	}
	discordChannelFlag = cli.StringFlag{
		Name:  "discord.channel",
		Usage: "Discord channel id receiving campaign updates",
	}
	pollIntervalFlag = cli.DurationFlag{
		Name:  "poll",
		Usage: "Campaign refresh interval in serve mode",
	}
	metricsEnabledFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Serve Prometheus metrics in serve mode",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics.addr",
		Usage: "Listen address of the metrics endpoint",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	vmoduleFlag = cli.StringFlag{
		Name:  "vmodule",
		Usage: "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. syncer/*=5)",
	}
)
