// Package commands maps text commands onto client operations. The same
// table drives the interactive console and the Discord bot.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArgs    = errors.New("missing arguments")
	ErrTooManyArgs    = errors.New("too many arguments")
)

// Result is what a command produced, for front ends that do not render
// through the client's view.
type Result struct {
	Snapshot     *syncer.Snapshot
	Campaigns    []syncer.Campaign
	Transactions []syncer.TxRecord
	Message      string
}

type Command struct {
	Name        string
	Usage       string
	Description string
	Args        int  // number of arguments the command takes
	Mutating    bool // sends a transaction from the signer account
	Run         func(ctx context.Context, client *syncer.Client, args []string) (*Result, error)
}

func message(format string, args ...interface{}) *Result {
	return &Result{Message: fmt.Sprintf(format, args...)}
}

var commandList = []*Command{
	{
		Name:        "status",
		Usage:       "status",
		Description: "Show target amount, current contributions and time left",
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			snapshot, err := client.Refresh(ctx)
			if err != nil {
				return nil, err
			}
			return &Result{Snapshot: snapshot}, nil
		},
	},
	{
		Name:        "contribute",
		Usage:       "contribute <amount>",
		Description: "Contribute an amount of ether to the campaign",
		Args:        1,
		Mutating:    true,
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			if err := client.Contribute(ctx, args[0]); err != nil {
				return nil, err
			}
			return message("Contributed %s ETH", args[0]), nil
		},
	},
	{
		Name:        "refund",
		Usage:       "refund",
		Description: "Ask the contract to refund your contributions",
		Mutating:    true,
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			if err := client.Refund(ctx); err != nil {
				return nil, err
			}
			return message("Refund completed"), nil
		},
	},
	{
		Name:        "start",
		Usage:       "start <target> <days>",
		Description: "Start a campaign with a target in ether lasting a number of days",
		Args:        2,
		Mutating:    true,
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			if err := client.StartCampaign(ctx, args[0], args[1]); err != nil {
				return nil, err
			}
			return message("Started campaign with target %s ETH for %s days", args[0], args[1]), nil
		},
	},
	{
		Name:        "campaigns",
		Usage:       "campaigns",
		Description: "List active campaigns",
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			campaigns, err := client.ListActiveCampaigns(ctx)
			if err != nil {
				return nil, err
			}
			return &Result{Campaigns: campaigns}, nil
		},
	},
	{
		Name:        "txs",
		Usage:       "txs",
		Description: "Show transactions submitted in this session",
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			return &Result{Transactions: client.RecentTransactions()}, nil
		},
	},
	{
		Name:        "account",
		Usage:       "account",
		Description: "Show the contract and signer account",
		Run: func(ctx context.Context, client *syncer.Client, args []string) (*Result, error) {
			if err := client.ShowAccount(); err != nil {
				return nil, err
			}
			return message("Contract %s, account %s", client.Handle().Address().Hex(), client.Account().Hex()), nil
		},
	},
}

var commandMap = make(map[string]*Command)

func init() {
	for _, cmd := range commandList {
		commandMap[cmd.Name] = cmd
	}
}

// List returns all commands in display order.
func List() []*Command {
	return append([]*Command(nil), commandList...)
}

func Lookup(name string) (*Command, bool) {
	cmd, ok := commandMap[name]
	return cmd, ok
}

// Execute runs name with args against client.
func Execute(ctx context.Context, client *syncer.Client, name string, args []string) (*Result, error) {
	cmd, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	switch {
	case len(args) < cmd.Args:
		return nil, fmt.Errorf("%w, usage: %s", ErrMissingArgs, cmd.Usage)
	case len(args) > cmd.Args:
		return nil, fmt.Errorf("%w, usage: %s", ErrTooManyArgs, cmd.Usage)
	}
	return cmd.Run(ctx, client, args)
}

// ExecuteLine splits line on whitespace and executes it. Blank lines are
// ignored and yield a nil result.
func ExecuteLine(ctx context.Context, client *syncer.Client, line string) (*Result, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	return Execute(ctx, client, fields[0], fields[1:])
}

// Complete returns the command names starting with the given prefix.
func Complete(prefix string) []string {
	var names []string
	for name := range commandMap {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Help renders the usage of every command.
func Help() string {
	var b strings.Builder
	for _, cmd := range commandList {
		fmt.Fprintf(&b, "  %-24s %s\n", cmd.Usage, cmd.Description)
	}
	return b.String()
}

// IsUsageError reports whether err comes from a malformed command line
// rather than from the client.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUnknownCommand) || errors.Is(err, ErrMissingArgs) || errors.Is(err, ErrTooManyArgs)
}
