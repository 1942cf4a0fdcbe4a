package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/khanghh/crowdfund/cmd/crowdfund/commands"
	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"
)

const historyFile = ".crowdfund_history"

func consoleHelp() string {
	return "Commands:\n" + commands.Help() + fmt.Sprintf("  %-24s %s\n  %-24s %s\n", "help", "Show this help", "exit", "Leave the console")
}

// runConsole reads commands line by line. Each line runs to completion,
// transactions included, before the next prompt.
func runConsole(ctx *cli.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.connect(context.Background(), false); err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(commands.Complete)

	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyFile)
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if history == "" {
			return
		}
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			log.Warn("Could not save console history", "file", history, "error", err)
		}
	}()

	fmt.Print(consoleHelp())
	s.client.Refresh(context.Background())
	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Print(consoleHelp())
			continue
		}
		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		result, err := commands.ExecuteLine(runCtx, s.client, input)
		stop()
		switch {
		case commands.IsUsageError(err):
			s.term.Alert(err)
		case err == nil && result != nil && result.Transactions != nil:
			s.term.RenderTransactions(result.Transactions)
		}
	}
}
