package discordbot

import "errors"

var (
	ErrBotRunning = errors.New("discord bot already running")
	ErrBotStopped = errors.New("discord bot not running")
	ErrNotAllowed = errors.New("you are not allowed to run this command")
)
