package contract

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/khanghh/crowdfund/abiutils"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract/contracttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBinding(t *testing.T) (*Crowdfunding, *contracttest.SimulatedBackend) {
	iface, err := DefaultInterface()
	require.NoError(t, err)
	handle, err := NewHandle(DefaultAddress, iface)
	require.NoError(t, err)
	backend := contracttest.NewSimulatedBackend(handle.Address(), handle.ABI())
	return NewCrowdfunding(handle, backend), backend
}

func TestDefaultInterface(t *testing.T) {
	iface, err := DefaultInterface()
	require.NoError(t, err)
	assert.NoError(t, iface.RequireMethods(RequiredMethods...))
	assert.True(t, iface.Methods["contribute"].IsPayable())
}

func TestNewHandleMissingMethod(t *testing.T) {
	iface, err := abiutils.LoadInterface("Partial", strings.NewReader(`["targetAmount() view returns (uint256)"]`))
	require.NoError(t, err)
	_, err = NewHandle(DefaultAddress, iface)
	assert.ErrorIs(t, err, abiutils.ErrMissingMethod)

	full, err := DefaultInterface()
	require.NoError(t, err)
	_, err = NewHandle(common.Address{}, full)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestLoadHandle(t *testing.T) {
	handle, err := LoadHandle(DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, handle.Address())

	_, err = LoadHandle(Config{Address: "not-an-address"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGetters(t *testing.T) {
	binding, backend := newTestBinding(t)
	backend.SetResult("targetAmount", big.NewInt(5))
	backend.SetResult("timeLeft", big.NewInt(3600))
	backend.SetError("currentContributions", errors.New("boom"))

	target, err := binding.TargetAmount(&bind.CallOpts{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), target.Int64())

	left, err := binding.TimeLeft(&bind.CallOpts{})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), left.Int64())

	_, err = binding.CurrentContributions(&bind.CallOpts{})
	assert.Error(t, err)
}

func TestCampaigns(t *testing.T) {
	binding, backend := newTestBinding(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	backend.SetHandler("campaigns", func(args []interface{}) ([]interface{}, error) {
		index := args[0].(*big.Int)
		return []interface{}{owner, big.NewInt(100), index, index.Sign() == 0}, nil
	})

	campaign, err := binding.Campaigns(&bind.CallOpts{}, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, owner, campaign.Owner)
	assert.Equal(t, int64(100), campaign.TargetAmount.Int64())
	assert.True(t, campaign.IsActive)

	campaign, err = binding.Campaigns(&bind.CallOpts{}, big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), campaign.RaisedAmount.Int64())
	assert.False(t, campaign.IsActive)
}

func TestStartCampaignTransaction(t *testing.T) {
	binding, backend := newTestBinding(t)
	opts, err := contracttest.NewTransactor()
	require.NoError(t, err)

	tx, err := binding.StartCampaign(opts, opts.From, big.NewInt(10), big.NewInt(604800))
	require.NoError(t, err)
	receipt, err := binding.WaitMined(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), receipt.TxHash)

	sent := backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "startCampaign", sent[0].Method)
	assert.Equal(t, opts.From, sent[0].From)
	require.Len(t, sent[0].Args, 3)
	assert.Equal(t, opts.From, sent[0].Args[0])
	assert.Equal(t, 0, big.NewInt(10).Cmp(sent[0].Args[1].(*big.Int)))
	assert.Equal(t, 0, big.NewInt(604800).Cmp(sent[0].Args[2].(*big.Int)))
}

func TestWaitMinedReverted(t *testing.T) {
	binding, backend := newTestBinding(t)
	backend.RevertTransactions(true)
	opts, err := contracttest.NewTransactor()
	require.NoError(t, err)

	tx, err := binding.Refund(opts)
	require.NoError(t, err)
	_, err = binding.WaitMined(context.Background(), tx)
	assert.ErrorIs(t, err, ErrTxReverted)
}

func TestContributeCarriesValue(t *testing.T) {
	binding, backend := newTestBinding(t)
	opts, err := contracttest.NewTransactor()
	require.NoError(t, err)
	opts.Value = big.NewInt(42)

	_, err = binding.Contribute(opts)
	require.NoError(t, err)
	sent := backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "contribute", sent[0].Method)
	assert.Equal(t, int64(42), sent[0].Value.Int64())
	assert.Empty(t, sent[0].Args)
}
