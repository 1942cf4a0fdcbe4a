// Package discordbot runs a Discord front end for the crowdfunding client:
// chat commands mapped onto client operations and client output posted to
// an update channel.
package discordbot

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/log"
	"github.com/khanghh/crowdfund/cmd/crowdfund/commands"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/lus/dgc"
)

const (
	botStopped = iota
	botRunning
)

type Bot struct {
	Session   *discordgo.Session
	CmdRouter *dgc.Router
	Commands  map[string]*dgc.Command

	config   Config
	client   *syncer.Client
	state    int32
	initOnce sync.Once
}

func (bot *Bot) rebuildRouter() {
	commands := make([]*dgc.Command, 0, len(bot.Commands))
	for _, cmd := range bot.Commands {
		commands = append(commands, cmd)
	}
	bot.CmdRouter.Commands = commands
}

func (bot *Bot) RegisterCommand(cmds ...dgc.Command) {
	if len(cmds) > 0 {
		for i := range cmds {
			cmd := cmds[i]
			bot.Commands[cmd.Name] = &cmd
		}
		bot.rebuildRouter()
	}
}

// execute runs a chat command and renders its outcome as a reply.
func (bot *Bot) execute(name string, rawArgs string) *discordgo.MessageSend {
	ctx, cancel := context.WithTimeout(context.Background(), bot.config.CommandTimeout)
	defer cancel()

	result, err := commands.Execute(ctx, bot.client, name, strings.Fields(rawArgs))
	if err != nil {
		log.Debug("Discord command failed", "cmd", name, "args", rawArgs, "error", err)
		return renderError(err)
	}
	return renderResult(result)
}

// allowed reports whether member may run cmd. With no allowed roles
// configured only read commands are open; otherwise every command needs
// one of the roles.
func (bot *Bot) allowed(member *discordgo.Member, cmd *commands.Command) bool {
	if len(bot.config.AllowedRoles) == 0 {
		return !cmd.Mutating
	}
	if member == nil {
		return false
	}
	for _, role := range member.Roles {
		for _, allowed := range bot.config.AllowedRoles {
			if role == allowed {
				return true
			}
		}
	}
	return false
}

func (bot *Bot) commandHandler(cmd *commands.Command) dgc.ExecutionHandler {
	return func(ctx *dgc.Ctx) {
		msg := renderError(ErrNotAllowed)
		if bot.allowed(ctx.Event.Member, cmd) {
			msg = bot.execute(cmd.Name, ctx.Arguments.Raw())
		} else {
			log.Debug("Rejected discord command", "cmd", cmd.Name, "author", ctx.Event.Author.ID)
		}
		if msg == nil {
			return
		}
		if _, err := ctx.Session.ChannelMessageSendComplex(ctx.Event.ChannelID, msg); err != nil {
			log.Error("Could not reply to discord command", "cmd", cmd.Name, "error", err)
		}
	}
}

func (bot *Bot) registerBotCommands() {
	cmds := make([]dgc.Command, 0)
	for _, cmd := range commands.List() {
		cmds = append(cmds, dgc.Command{
			Name:        cmd.Name,
			Description: cmd.Description,
			Usage:       cmd.Usage,
			Handler:     bot.commandHandler(cmd),
		})
	}
	bot.RegisterCommand(cmds...)
}

// initRouter adds the help command and hooks the router into the session.
// Both happen once however often the bot is restarted.
func (bot *Bot) initRouter() {
	bot.initOnce.Do(func() {
		bot.CmdRouter.RegisterDefaultHelpCommand(bot.Session, nil)
		bot.CmdRouter.Initialize(bot.Session)
	})
}

// Start opens the gateway session and starts serving commands.
func (bot *Bot) Start() error {
	if !atomic.CompareAndSwapInt32(&bot.state, botStopped, botRunning) {
		return ErrBotRunning
	}
	if err := bot.Session.Open(); err != nil {
		atomic.StoreInt32(&bot.state, botStopped)
		return err
	}
	bot.initRouter()
	if len(bot.config.AllowedRoles) == 0 && bot.client.State() == syncer.StateConnected {
		log.Warn("No allowed roles configured, transaction commands are disabled on discord")
	}
	log.Info("Started discord bot", "prefix", bot.config.CmdPrefix, "channel", bot.config.ChannelId)
	return nil
}

func (bot *Bot) Stop() error {
	if !atomic.CompareAndSwapInt32(&bot.state, botRunning, botStopped) {
		return ErrBotStopped
	}
	log.Info("Stopped discord bot")
	return bot.Session.Close()
}

// NewSession creates the Discord session shared by the bot and its
// channel view.
func NewSession(config Config) (*discordgo.Session, error) {
	if err := config.sanitize(); err != nil {
		return nil, err
	}
	return discordgo.New("Bot " + config.BotToken)
}

func NewBot(config Config, session *discordgo.Session, client *syncer.Client) (*Bot, error) {
	if err := config.sanitize(); err != nil {
		return nil, err
	}
	return newBot(config, client, session), nil
}

func newBot(config Config, client *syncer.Client, session *discordgo.Session) *Bot {
	bot := &Bot{
		Session: session,
		CmdRouter: &dgc.Router{
			Prefixes: []string{config.CmdPrefix},
			Storage:  make(map[string]*dgc.ObjectsMap),
		},
		Commands: make(map[string]*dgc.Command),
		config:   config,
		client:   client,
	}
	bot.registerBotCommands()
	return bot
}
