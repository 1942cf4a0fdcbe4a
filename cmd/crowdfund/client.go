package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/provider"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/khanghh/crowdfund/cmd/crowdfund/view"
	"gopkg.in/urfave/cli.v1"
)

// session is everything a command needs to talk to the contract.
type session struct {
	config   *appConfig
	provider *provider.Provider
	client   *syncer.Client
	term     *view.Terminal
}

func (s *session) Close() {
	s.provider.Close()
}

// connect resolves the signer. Without one the client stays usable for
// reads, so failures are fatal only when required is set.
func (s *session) connect(ctx context.Context, required bool) error {
	err := s.client.Connect(ctx, s.provider)
	if err != nil && required {
		s.term.Alert(err)
		return cli.NewExitError("", 1)
	}
	if err != nil {
		log.Warn("Continuing without a signer account, transactions are disabled", "error", err)
	}
	return nil
}

func openSession(ctx *cli.Context) (*session, error) {
	config, err := makeAppConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(config)
}

// newSession discovers the provider and binds the contract. Client output
// goes to the terminal and to any extra views. A missing provider is
// reported as a blocking notice.
func newSession(config *appConfig, views ...syncer.View) (*session, error) {
	discovery := provider.Discover(context.Background(), config.Provider)
	if !discovery.Available() {
		notice := color.New(color.FgRed, color.Bold)
		notice.Fprintln(os.Stderr, "No Ethereum provider available.")
		fmt.Fprintf(os.Stderr, "Could not reach %q: %v\nStart a node or point --rpc at one.\n", config.Provider.RPCURL, discovery.Reason())
		return nil, cli.NewExitError("", 1)
	}
	p := discovery.Provider()

	handle, err := contract.LoadHandle(config.Contract)
	if err != nil {
		p.Close()
		return nil, err
	}
	log.Info("Loaded contract", "address", handle.Address(), "abi", handle.Interface().Name)

	term := view.NewTerminal(os.Stdout)
	var out syncer.View = term
	if len(views) > 0 {
		out = append(view.Multi{term}, views...)
	}
	client := syncer.NewClient(config.Client, contract.NewCrowdfunding(handle, p.Backend()), out)
	return &session{
		config:   config,
		provider: p,
		client:   client,
		term:     term,
	}, nil
}
