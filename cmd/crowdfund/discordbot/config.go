package discordbot

import (
	"errors"
	"time"
)

type Config struct {
	BotToken       string        `toml:",omitempty"`
	CmdPrefix      string        // Command prefix, "!" by default
	ChannelId      string        // Channel receiving campaign updates
	AllowedRoles   []string      `toml:",omitempty"` // Roles allowed to run commands, anyone if empty
	CommandTimeout time.Duration // Timeout of a single command including transaction mining
}

var DefaultConfig = Config{
	CmdPrefix:      "!",
	CommandTimeout: 10 * time.Minute,
}

// Enabled reports whether a bot token is configured.
func (cfg *Config) Enabled() bool {
	return cfg.BotToken != ""
}

func (cfg *Config) sanitize() error {
	if cfg.CmdPrefix == "" {
		cfg.CmdPrefix = DefaultConfig.CmdPrefix
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultConfig.CommandTimeout
	}
	if cfg.BotToken == "" {
		return errors.New("bot token not provided")
	}
	return nil
}
