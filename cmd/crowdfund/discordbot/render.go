package discordbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/common"
	"github.com/khanghh/crowdfund/cmd/crowdfund/commands"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/khanghh/crowdfund/cmd/crowdfund/units"
	"github.com/khanghh/crowdfund/cmd/crowdfund/view"
)

const (
	colorInfo  = 0x3498db
	colorError = 0xe74c3c
)

func renderSnapshotEmbed(title string, snapshot *syncer.Snapshot) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Type:  "rich",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Target amount",
				Value:  units.FromWei(snapshot.TargetAmount) + " ETH",
				Inline: true,
			},
			{
				Name:   "Current contributions",
				Value:  units.FromWei(snapshot.CurrentContributions) + " ETH",
				Inline: true,
			},
			{
				Name:   "Time left",
				Value:  fmt.Sprintf("%d seconds", snapshot.TimeLeft),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func renderCampaignsEmbed(campaigns []syncer.Campaign) *discordgo.MessageEmbed {
	var desc strings.Builder
	if len(campaigns) == 0 {
		desc.WriteString("No active campaigns")
	}
	for _, campaign := range campaigns {
		desc.WriteString(fmt.Sprintf(
			"%d. `%s` raised %s / %s ETH\n",
			campaign.Index,
			campaign.Owner.Hex(),
			units.FromWei(campaign.RaisedAmount),
			units.FromWei(campaign.TargetAmount),
		))
	}
	return &discordgo.MessageEmbed{
		Title:       "Active campaigns",
		Type:        "rich",
		Description: desc.String(),
		Color:       colorInfo,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func renderAccountEmbed(contract common.Address, account common.Address) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Signer account",
		Type:  "rich",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Contract", Value: "`" + contract.Hex() + "`"},
			{Name: "Account", Value: "`" + account.Hex() + "`"},
		},
	}
}

func renderTxEmbed(op syncer.Op, hash common.Hash, value string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Transaction submitted",
		Type:  "rich",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Operation", Value: string(op), Inline: true},
			{Name: "Value", Value: value + " ETH", Inline: true},
			{Name: "Hash", Value: "`" + hash.Hex() + "`"},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func renderTransactionsEmbed(records []syncer.TxRecord) *discordgo.MessageEmbed {
	var desc strings.Builder
	if len(records) == 0 {
		desc.WriteString("No transactions submitted")
	}
	for _, record := range records {
		desc.WriteString(fmt.Sprintf("`%s` %s %s ETH: %s\n", record.Hash.TerminalString(), record.Op, units.FromWei(record.Value), record.Status))
	}
	return &discordgo.MessageEmbed{
		Title:       "Recent transactions",
		Type:        "rich",
		Description: desc.String(),
		Color:       colorInfo,
	}
}

func renderError(err error) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embed: &discordgo.MessageEmbed{
			Title:       "❌ Request failed",
			Type:        "rich",
			Description: view.Describe(err),
			Color:       colorError,
		},
	}
}

func renderResult(result *commands.Result) *discordgo.MessageSend {
	switch {
	case result == nil:
		return nil
	case result.Snapshot != nil:
		return &discordgo.MessageSend{Embed: renderSnapshotEmbed("Campaign status", result.Snapshot)}
	case result.Campaigns != nil:
		return &discordgo.MessageSend{Embed: renderCampaignsEmbed(result.Campaigns)}
	case result.Transactions != nil:
		return &discordgo.MessageSend{Embed: renderTransactionsEmbed(result.Transactions)}
	}
	return &discordgo.MessageSend{Content: "✅ " + result.Message}
}
