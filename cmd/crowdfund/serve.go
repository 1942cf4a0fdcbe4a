package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/log"
	"github.com/khanghh/crowdfund/cmd/crowdfund/discordbot"
	"github.com/khanghh/crowdfund/cmd/crowdfund/metrics"
	"github.com/khanghh/crowdfund/cmd/crowdfund/service"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"gopkg.in/urfave/cli.v1"
)

// runServiceStack starts all lifecycles registered in the stack and blocks
// until an interrupt stops them.
func runServiceStack(stack *service.ServiceStack) error {
	if err := stack.Run(); err != nil {
		log.Error("Error starting services", "error", err)
		return err
	}
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		<-sigCh
		log.Info("Got interrupt, shutting down...")
		go stack.Stop()
		for i := 10; i > 0; i-- {
			<-sigCh
			if i > 1 {
				log.Warn("Already shutting down, interrupt more to panic.", "times", i-1)
			}
		}
		panic("boom")
	}()
	stack.Wait()
	return nil
}

func serve(ctx *cli.Context) error {
	config, err := makeAppConfig(ctx)
	if err != nil {
		return err
	}
	var (
		botSession *discordgo.Session
		views      []syncer.View
	)
	if config.Discord.Enabled() {
		if botSession, err = discordbot.NewSession(config.Discord); err != nil {
			log.Error("Could not initialize discord session", "error", err)
			return err
		}
		views = append(views, discordbot.NewChannelView(botSession, config.Discord.ChannelId))
	} else {
		log.Info("Discord bot disabled, no bot token configured")
	}

	s, err := newSession(config, views...)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.connect(context.Background(), false); err != nil {
		return err
	}

	stack := service.NewServiceStack()
	if config.Metrics.Enabled {
		stack.RegisterLifecycle(metrics.NewServer(config.Metrics.Addr))
	}
	stack.RegisterLifecycle(syncer.NewWatcher(s.client, config.Client.PollInterval))
	if botSession != nil {
		bot, err := discordbot.NewBot(config.Discord, botSession, s.client)
		if err != nil {
			return err
		}
		stack.RegisterLifecycle(bot)
	}
	return runServiceStack(stack)
}
