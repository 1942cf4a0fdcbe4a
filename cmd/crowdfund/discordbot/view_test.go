package discordbot

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelViewSnapshotChanges(t *testing.T) {
	bot, backend, channel := newTestBot(t)

	_, err := bot.client.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, channel.count("updates"))

	// only the time left moved
	backend.SetResult("timeLeft", big.NewInt(100))
	_, err = bot.client.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, channel.count("updates"))

	backend.SetResult("currentContributions", ether(3))
	_, err = bot.client.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, channel.count("updates"))

	last := channel.last("updates")
	assert.Equal(t, "Campaign updated", last.Embed.Title)
	assert.Equal(t, "3 ETH", last.Embed.Fields[1].Value)

	// ended campaigns are posted even when amounts are unchanged
	backend.SetResult("timeLeft", big.NewInt(0))
	_, err = bot.client.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, channel.count("updates"))
}

func TestChannelViewPostsClientOutput(t *testing.T) {
	bot, backend, channel := newTestBot(t)

	msg := bot.execute("contribute", "1.5")
	assert.Equal(t, "✅ Contributed 1.5 ETH", msg.Content)
	assert.Equal(t, []string{"Transaction submitted", "Campaign updated"}, channel.titles("updates"))

	channel.mu.Lock()
	tx := channel.messages["updates"][0].Embed
	channel.mu.Unlock()
	assert.Equal(t, "contribute", tx.Fields[0].Value)
	assert.Equal(t, "1.5 ETH", tx.Fields[1].Value)
	assert.Equal(t, "`"+backend.Sent()[0].Tx.Hash().Hex()+"`", tx.Fields[2].Value)

	backend.SetResult("totalCampaigns", big.NewInt(0))
	_, err := bot.client.ListActiveCampaigns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Active campaigns", channel.last("updates").Embed.Title)

	require.NoError(t, bot.client.ShowAccount())
	account := channel.last("updates").Embed
	assert.Equal(t, "Signer account", account.Title)
	assert.Equal(t, "`"+bot.client.Account().Hex()+"`", account.Fields[1].Value)
}

func TestChannelViewRepeatedAlerts(t *testing.T) {
	bot, backend, channel := newTestBot(t)
	backend.SetError("targetAmount", errors.New("node down"))

	for i := 0; i < 3; i++ {
		_, err := bot.client.Refresh(context.Background())
		require.Error(t, err)
	}
	require.Equal(t, 1, channel.count("updates"))
	assert.Equal(t, colorError, channel.last("updates").Embed.Color)
	assert.Contains(t, channel.last("updates").Embed.Description, "node down")

	backend.SetResult("targetAmount", ether(5))
	_, err := bot.client.Refresh(context.Background())
	require.NoError(t, err)
	backend.SetError("targetAmount", errors.New("node down"))
	_, err = bot.client.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"❌ Request failed", "Campaign updated", "❌ Request failed"}, channel.titles("updates"))
}

func TestChannelViewWithoutChannel(t *testing.T) {
	channel := &fakeChannel{messages: make(map[string][]*discordgo.MessageSend)}
	v := newChannelView("", channel.send)
	v.Alert(errors.New("boom"))
	v.RenderCampaigns(nil)
	assert.NoError(t, v.SendChannelMessage(&discordgo.MessageSend{Content: "hello"}))
	assert.Empty(t, channel.messages)
}
