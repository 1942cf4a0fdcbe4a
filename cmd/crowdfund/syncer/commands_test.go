package syncer

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract/contracttest"
	"github.com/khanghh/crowdfund/cmd/crowdfund/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationsRequireConnection(t *testing.T) {
	env := newTestEnv(t, noDebounce)
	ctx := context.Background()

	assert.ErrorIs(t, env.client.Contribute(ctx, "1"), ErrNotConnected)
	assert.ErrorIs(t, env.client.Refund(ctx), ErrNotConnected)
	assert.ErrorIs(t, env.client.StartCampaign(ctx, "10", "7"), ErrNotConnected)
	assert.Empty(t, env.backend.Sent())
	assert.Equal(t, 0, env.refreshCalls())
	assert.Equal(t, 3, env.view.alertCount())
}

func TestContributeRejectsInvalidAmount(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)

	for _, amount := range []string{"0", "-1", "abc", "", "0.0000000000000000001", overflowEther} {
		err := env.client.Contribute(context.Background(), amount)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "amount %q", amount)
		assert.Equal(t, "amount", validationErr.Field)
		assert.Equal(t, amount, validationErr.Input)
	}
	assert.ErrorIs(t, env.client.Contribute(context.Background(), overflowEther), units.ErrOutOfRange)
	assert.Empty(t, env.backend.Sent())
	assert.Equal(t, 0, env.refreshCalls())
}

func TestContribute(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)

	require.NoError(t, env.client.Contribute(context.Background(), "1.5"))

	sent := env.backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "contribute", sent[0].Method)
	assert.Equal(t, env.signer.From, sent[0].From)
	assert.Empty(t, sent[0].Args)
	expected, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, 0, sent[0].Value.Cmp(expected))

	// exactly one refresh before returning
	assert.Equal(t, 1, env.refreshCalls())
	assert.Equal(t, 1, env.view.snapshotCount())
	assert.Equal(t, []Op{OpContribute}, env.view.txs)
}

func TestContributeSendFailure(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)
	rejected := errors.New("insufficient funds for gas * price + value")
	env.backend.FailSend(rejected)

	err := env.client.Contribute(context.Background(), "1")
	var remoteErr *RemoteCallError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, OpContribute, remoteErr.Op)
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, 0, env.refreshCalls())
	assert.Empty(t, env.view.txs)

	// not retried, the next call goes through
	env.backend.FailSend(nil)
	require.NoError(t, env.client.Contribute(context.Background(), "1"))
	assert.Len(t, env.backend.Sent(), 1)
}

func TestRefundRefreshesOnlyOnSuccess(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)
	env.backend.RevertTransactions(true)

	err := env.client.Refund(context.Background())
	assert.ErrorIs(t, err, contract.ErrTxReverted)
	assert.Equal(t, 0, env.refreshCalls())
	assert.Equal(t, []Op{OpRefund}, env.view.txs)

	env.backend.RevertTransactions(false)
	require.NoError(t, env.client.Refund(context.Background()))
	assert.Equal(t, 1, env.refreshCalls())

	sent := env.backend.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "refund", sent[1].Method)
	assert.Equal(t, 0, sent[1].Value.Sign())
}

func TestMutationSucceedsWhenRefreshFails(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)
	env.backend.SetError("timeLeft", errors.New("header not found"))

	require.NoError(t, env.client.Refund(context.Background()))
	assert.Equal(t, 0, env.view.snapshotCount())
	assert.Equal(t, 1, env.view.alertCount())
}

func TestStartCampaign(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)

	require.NoError(t, env.client.StartCampaign(context.Background(), "10", "7"))

	sent := env.backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "startCampaign", sent[0].Method)
	require.Len(t, sent[0].Args, 3)
	assert.Equal(t, env.signer.From, sent[0].Args[0])
	assert.Equal(t, 0, sent[0].Args[1].(*big.Int).Cmp(ether(10)))
	assert.Equal(t, int64(604800), sent[0].Args[2].(*big.Int).Int64())
	assert.Equal(t, 1, env.refreshCalls())
}

var (
	// 10^63 ether is above 2^256 wei
	overflowEther = "1" + strings.Repeat("0", 63)
	// ceil(2^256 / 86400) days is above 2^256 seconds
	overflowDays = new(big.Int).Add(new(big.Int).Div(math.MaxBig256, big.NewInt(units.SecondsPerDay)), common.Big1).String()
)

func TestStartCampaignRejectsInvalidInput(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)
	tests := []struct {
		target   string
		duration string
		field    string
	}{
		{"", "7", "target"},
		{"0", "7", "target"},
		{"ten", "7", "target"},
		{"10", "", "duration"},
		{"10", "0", "duration"},
		{"10", "-3", "duration"},
		{"10", "1.5", "duration"},
		{overflowEther, "7", "target"},
		{"10", overflowDays, "duration"},
	}
	for _, tt := range tests {
		err := env.client.StartCampaign(context.Background(), tt.target, tt.duration)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "start %q %q", tt.target, tt.duration)
		assert.Equal(t, tt.field, validationErr.Field)
	}
	assert.Empty(t, env.backend.Sent())
}

func TestOperationInFlight(t *testing.T) {
	env := newConnectedEnv(t, noDebounce)

	var nested []error
	env.backend.OnSend(func(contracttest.SentTx) {
		if len(nested) == 0 {
			nested = append(nested, env.client.Contribute(context.Background(), "1"))
		}
	})
	require.NoError(t, env.client.Contribute(context.Background(), "1"))

	require.Len(t, nested, 1)
	assert.ErrorIs(t, nested[0], ErrOperationInFlight)
	assert.Len(t, env.backend.Sent(), 1)
	assert.Empty(t, env.client.guard.pending())
}

func TestDebounce(t *testing.T) {
	env := newConnectedEnv(t, Config{Debounce: time.Hour})
	ctx := context.Background()

	require.NoError(t, env.client.Contribute(ctx, "1"))
	assert.ErrorIs(t, env.client.Contribute(ctx, "1"), ErrDebounced)
	// other operations are limited separately
	assert.NoError(t, env.client.Refund(ctx))
	assert.Len(t, env.backend.Sent(), 2)
}

func TestContributeWithNewTransactor(t *testing.T) {
	env := newTestEnv(t, noDebounce)
	signer, err := contracttest.NewTransactor()
	require.NoError(t, err)
	require.NoError(t, env.client.Connect(context.Background(), SignerResolverFunc(func(context.Context) (*bind.TransactOpts, error) {
		return signer, nil
	})))

	require.NoError(t, env.client.Contribute(context.Background(), "2"))
	assert.Equal(t, signer.From, env.backend.Sent()[0].From)
}
