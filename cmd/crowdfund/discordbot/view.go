package discordbot

import (
	"encoding/json"
	"math/big"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/khanghh/crowdfund/cmd/crowdfund/units"
	"github.com/khanghh/crowdfund/cmd/crowdfund/view"
)

type sendFunc func(channelId string, message *discordgo.MessageSend) error

// ChannelView posts client output to the update channel. Snapshots are
// posted only when they differ from the last one posted, and an alert
// repeating the previous one is dropped.
type ChannelView struct {
	channelId string
	send      sendFunc

	mu        sync.Mutex
	last      *syncer.Snapshot
	lastAlert string
}

func NewChannelView(session *discordgo.Session, channelId string) *ChannelView {
	return newChannelView(channelId, func(channelId string, message *discordgo.MessageSend) error {
		_, err := session.ChannelMessageSendComplex(channelId, message)
		return err
	})
}

func newChannelView(channelId string, send sendFunc) *ChannelView {
	return &ChannelView{channelId: channelId, send: send}
}

// SendChannelMessage posts message to the update channel.
func (v *ChannelView) SendChannelMessage(message *discordgo.MessageSend) error {
	if v.channelId == "" {
		return nil
	}
	if err := v.send(v.channelId, message); err != nil {
		msgJson, _ := json.Marshal(message)
		log.Error("Could not send discord message", "msg", string(msgJson), "error", err)
		return err
	}
	return nil
}

func (v *ChannelView) RenderAccount(contract common.Address, account common.Address) {
	v.SendChannelMessage(&discordgo.MessageSend{Embed: renderAccountEmbed(contract, account)})
}

// changed reports whether snapshot differs from the last posted one in
// amounts or in whether the campaign has ended.
func (v *ChannelView) changed(snapshot *syncer.Snapshot) bool {
	last := v.last
	if last == nil {
		return true
	}
	return !equalAmount(last.TargetAmount, snapshot.TargetAmount) ||
		!equalAmount(last.CurrentContributions, snapshot.CurrentContributions) ||
		(last.TimeLeft == 0) != (snapshot.TimeLeft == 0)
}

func equalAmount(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func (v *ChannelView) RenderSnapshot(snapshot *syncer.Snapshot) {
	v.mu.Lock()
	v.lastAlert = ""
	if !v.changed(snapshot) {
		v.mu.Unlock()
		return
	}
	v.last = snapshot
	v.mu.Unlock()
	v.SendChannelMessage(&discordgo.MessageSend{Embed: renderSnapshotEmbed("Campaign updated", snapshot)})
}

func (v *ChannelView) RenderCampaigns(campaigns []syncer.Campaign) {
	v.SendChannelMessage(&discordgo.MessageSend{Embed: renderCampaignsEmbed(campaigns)})
}

func (v *ChannelView) RenderTx(op syncer.Op, tx *types.Transaction) {
	v.SendChannelMessage(&discordgo.MessageSend{Embed: renderTxEmbed(op, tx.Hash(), units.FromWei(tx.Value()))})
}

func (v *ChannelView) Alert(err error) {
	desc := view.Describe(err)
	v.mu.Lock()
	if desc == v.lastAlert {
		v.mu.Unlock()
		return
	}
	v.lastAlert = desc
	v.mu.Unlock()
	v.SendChannelMessage(renderError(err))
}
