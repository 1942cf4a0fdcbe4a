// Package view renders client state for humans.
package view

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/khanghh/crowdfund/cmd/crowdfund/units"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Terminal writes plain text renderings to an io.Writer. Colors are used
// only when the writer is a terminal.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	notice *color.Color
	alert  *color.Color
	label  *color.Color
}

func NewTerminal(out io.Writer) *Terminal {
	term := &Terminal{
		out:    out,
		notice: color.New(color.FgGreen),
		alert:  color.New(color.FgRed, color.Bold),
		label:  color.New(color.FgCyan),
	}
	if f, ok := out.(*os.File); !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		term.notice.DisableColor()
		term.alert.DisableColor()
		term.label.DisableColor()
	}
	return term
}

func (t *Terminal) field(name string, value string) {
	t.label.Fprintf(t.out, "%-30s", name+":")
	fmt.Fprintln(t.out, value)
}

func (t *Terminal) RenderAccount(contract common.Address, account common.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.field("Contract", contract.Hex())
	t.field("Account", account.Hex())
}

func (t *Terminal) RenderSnapshot(snapshot *syncer.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.field("Target amount (ETH)", units.FromWei(snapshot.TargetAmount))
	t.field("Current contributions (ETH)", units.FromWei(snapshot.CurrentContributions))
	t.field("Time left (seconds)", strconv.FormatUint(snapshot.TimeLeft, 10))
}

func (t *Terminal) RenderCampaigns(campaigns []syncer.Campaign) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(campaigns) == 0 {
		fmt.Fprintln(t.out, "No active campaigns")
		return
	}
	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"#", "Owner", "Target (ETH)", "Raised (ETH)"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, campaign := range campaigns {
		table.Append([]string{
			strconv.FormatUint(campaign.Index, 10),
			campaign.Owner.Hex(),
			units.FromWei(campaign.TargetAmount),
			units.FromWei(campaign.RaisedAmount),
		})
	}
	table.Render()
}

// RenderTransactions prints the session's transaction history.
func (t *Terminal) RenderTransactions(records []syncer.TxRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(records) == 0 {
		fmt.Fprintln(t.out, "No transactions submitted")
		return
	}
	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"Time", "Operation", "Hash", "Value (ETH)", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, record := range records {
		table.Append([]string{
			record.Submitted.Format("15:04:05"),
			string(record.Op),
			record.Hash.Hex(),
			units.FromWei(record.Value),
			record.Status.String(),
		})
	}
	table.Render()
}

func (t *Terminal) RenderTx(op syncer.Op, tx *types.Transaction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notice.Fprintf(t.out, "Submitted %s transaction %s, waiting to be mined\n", op, tx.Hash().Hex())
}

func (t *Terminal) Alert(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alert.Fprintln(t.out, "Error: "+Describe(err))
}

// Describe turns a client error into a short message for the user.
func Describe(err error) string {
	var (
		validationErr *syncer.ValidationError
		remoteErr     *syncer.RemoteCallError
	)
	switch {
	case errors.As(err, &validationErr):
		return fmt.Sprintf("invalid %s %q: %v", validationErr.Field, validationErr.Input, validationErr.Reason)
	case errors.As(err, &remoteErr):
		return fmt.Sprintf("%s failed: %v", remoteErr.Op, remoteErr.Err)
	case errors.Is(err, syncer.ErrNotConnected):
		return "no signer account connected"
	}
	return err.Error()
}
