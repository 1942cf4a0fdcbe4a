package discordbot

import (
	"bytes"
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/khanghh/crowdfund/cmd/crowdfund/commands"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract/contracttest"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
	"github.com/khanghh/crowdfund/cmd/crowdfund/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu       sync.Mutex
	messages map[string][]*discordgo.MessageSend
}

func (c *fakeChannel) send(channelId string, message *discordgo.MessageSend) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages[channelId] = append(c.messages[channelId], message)
	return nil
}

func (c *fakeChannel) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = make(map[string][]*discordgo.MessageSend)
}

func (c *fakeChannel) titles(channelId string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	titles := make([]string, 0)
	for _, msg := range c.messages[channelId] {
		titles = append(titles, msg.Embed.Title)
	}
	return titles
}

func (c *fakeChannel) last(channelId string) *discordgo.MessageSend {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.messages[channelId]
	return msgs[len(msgs)-1]
}

func (c *fakeChannel) count(channelId string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages[channelId])
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func newTestBot(t *testing.T) (*Bot, *contracttest.SimulatedBackend, *fakeChannel) {
	handle, err := contract.LoadHandle(contract.DefaultConfig)
	require.NoError(t, err)
	backend := contracttest.NewSimulatedBackend(handle.Address(), handle.ABI())
	backend.SetResult("targetAmount", ether(5))
	backend.SetResult("currentContributions", ether(2))
	backend.SetResult("timeLeft", big.NewInt(120))

	channel := &fakeChannel{messages: make(map[string][]*discordgo.MessageSend)}
	out := view.Multi{view.NewTerminal(new(bytes.Buffer)), newChannelView("updates", channel.send)}
	client := syncer.NewClient(syncer.Config{}, contract.NewCrowdfunding(handle, backend), out)
	signer, err := contracttest.NewTransactor()
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background(), syncer.SignerResolverFunc(func(context.Context) (*bind.TransactOpts, error) {
		return signer, nil
	})))

	config := DefaultConfig
	config.BotToken = "token"
	config.ChannelId = "updates"
	require.NoError(t, config.sanitize())

	channel.reset()
	return newBot(config, client, nil), backend, channel
}

func TestRegisteredCommands(t *testing.T) {
	bot, _, _ := newTestBot(t)
	for _, name := range []string{"status", "contribute", "refund", "start", "campaigns", "txs", "account"} {
		assert.Contains(t, bot.Commands, name)
	}
	assert.Len(t, bot.CmdRouter.Commands, len(bot.Commands))
	assert.Equal(t, []string{"!"}, bot.CmdRouter.Prefixes)
	for _, cmd := range bot.Commands {
		assert.Empty(t, cmd.Flags, cmd.Name)
	}
}

func TestAllowedRoles(t *testing.T) {
	bot, _, _ := newTestBot(t)
	status, _ := commands.Lookup("status")
	contribute, _ := commands.Lookup("contribute")
	backer := &discordgo.Member{Roles: []string{"guest", "backer"}}

	// no roles configured: reads only
	assert.True(t, bot.allowed(nil, status))
	assert.False(t, bot.allowed(backer, contribute))
	for _, cmd := range commands.List() {
		assert.Equal(t, !cmd.Mutating, bot.allowed(backer, cmd), cmd.Name)
	}

	bot.config.AllowedRoles = []string{"admin", "backer"}
	assert.False(t, bot.allowed(nil, status))
	assert.False(t, bot.allowed(&discordgo.Member{Roles: []string{"guest"}}, contribute))
	assert.True(t, bot.allowed(backer, contribute))
	assert.True(t, bot.allowed(backer, status))
}

func TestExecuteStatus(t *testing.T) {
	bot, _, _ := newTestBot(t)

	msg := bot.execute("status", "")
	require.NotNil(t, msg.Embed)
	require.Len(t, msg.Embed.Fields, 3)
	assert.Equal(t, "5 ETH", msg.Embed.Fields[0].Value)
	assert.Equal(t, "2 ETH", msg.Embed.Fields[1].Value)
	assert.Equal(t, "120 seconds", msg.Embed.Fields[2].Value)
}

func TestExecuteMutation(t *testing.T) {
	bot, backend, _ := newTestBot(t)

	msg := bot.execute("contribute", " 0.25 ")
	assert.Equal(t, "✅ Contributed 0.25 ETH", msg.Content)
	require.Len(t, backend.Sent(), 1)

	msg = bot.execute("contribute", "-1")
	require.NotNil(t, msg.Embed)
	assert.Equal(t, colorError, msg.Embed.Color)
	assert.Contains(t, msg.Embed.Description, `invalid amount "-1"`)
	assert.Len(t, backend.Sent(), 1)

	msg = bot.execute("start", "10")
	require.NotNil(t, msg.Embed)
	assert.Contains(t, msg.Embed.Description, "usage: start <target> <days>")
}

func TestExecuteCampaigns(t *testing.T) {
	bot, backend, _ := newTestBot(t)
	backend.SetResult("totalCampaigns", big.NewInt(2))
	backend.SetHandler("campaigns", func(args []interface{}) ([]interface{}, error) {
		index := args[0].(*big.Int).Int64()
		return []interface{}{common.Address{byte(index + 1)}, ether(4), ether(1), index == 1}, nil
	})

	msg := bot.execute("campaigns", "")
	require.NotNil(t, msg.Embed)
	assert.Equal(t, "1. `"+common.Address{2}.Hex()+"` raised 1 / 4 ETH\n", msg.Embed.Description)

	backend.SetResult("totalCampaigns", big.NewInt(0))
	msg = bot.execute("campaigns", "")
	assert.Equal(t, "No active campaigns", msg.Embed.Description)
}

func TestInitRouterOnce(t *testing.T) {
	bot, _, _ := newTestBot(t)
	session, err := discordgo.New("Bot token")
	require.NoError(t, err)
	bot.Session = session

	bot.initRouter()
	bot.initRouter()
	help := 0
	for _, cmd := range bot.CmdRouter.Commands {
		if cmd.Name == "help" {
			help++
		}
	}
	assert.Equal(t, 1, help)
	assert.Len(t, bot.CmdRouter.Commands, len(bot.Commands)+1)
}

func TestBotLifecycleErrors(t *testing.T) {
	bot, _, _ := newTestBot(t)
	assert.ErrorIs(t, bot.Stop(), ErrBotStopped)

	_, err := NewBot(Config{}, nil, bot.client)
	assert.Error(t, err)
}
