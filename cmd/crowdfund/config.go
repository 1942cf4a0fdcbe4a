package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/discordbot"
	"github.com/khanghh/crowdfund/cmd/crowdfund/metrics"
	"github.com/khanghh/crowdfund/cmd/crowdfund/provider"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type appConfig struct {
	Provider provider.Config
	Contract contract.Config
	Client   syncer.Config
	Discord  discordbot.Config
	Metrics  metrics.Config
}

func defaultConfig() appConfig {
	return appConfig{
		Provider: provider.DefaultConfig,
		Contract: contract.DefaultConfig,
		Client:   syncer.DefaultConfig,
		Discord:  discordbot.DefaultConfig,
		Metrics:  metrics.DefaultConfig,
	}
}

func loadTOMLConfig(filename string, config *appConfig) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(config)
	// Add file name to errors that have a line number.
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(filename + ", " + err.Error())
	}
	return err
}

// makeAppConfig reads the TOML configuration file if one is given, then
// applies the command line flags on top of it.
func makeAppConfig(ctx *cli.Context) (*appConfig, error) {
	config := defaultConfig()
	if configFile := ctx.GlobalString(configFileFlag.Name); configFile != "" {
		if err := loadTOMLConfig(configFile, &config); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", configFile, err)
		}
	}
	setString := func(flag cli.StringFlag, dst *string) {
		if ctx.GlobalIsSet(flag.Name) {
			*dst = ctx.GlobalString(flag.Name)
		}
	}
	setString(rpcUrlFlag, &config.Provider.RPCURL)
	setString(keyFileFlag, &config.Provider.KeyFile)
	setString(keystoreFlag, &config.Provider.KeystoreDir)
	setString(accountFlag, &config.Provider.Account)
	setString(passwordFileFlag, &config.Provider.PasswordFile)
	setString(contractFlag, &config.Contract.Address)
	setString(abiFileFlag, &config.Contract.ABIFile)
	setString(discordTokenFlag, &config.Discord.BotToken)
	setString(discordChannelFlag, &config.Discord.ChannelId)
	setString(metricsAddrFlag, &config.Metrics.Addr)
	if ctx.GlobalIsSet(metricsEnabledFlag.Name) {
		config.Metrics.Enabled = ctx.GlobalBool(metricsEnabledFlag.Name)
	}
	if ctx.GlobalIsSet(pollIntervalFlag.Name) {
		config.Client.PollInterval = ctx.GlobalDuration(pollIntervalFlag.Name)
	}
	return &config, nil
}

func dumpConfig(ctx *cli.Context) error {
	config, err := makeAppConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(config)
	if err != nil {
		return err
	}
	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
