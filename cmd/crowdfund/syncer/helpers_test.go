package syncer

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract/contracttest"
	"github.com/stretchr/testify/require"
)

type recordingView struct {
	mu        sync.Mutex
	accounts  []common.Address
	snapshots []*Snapshot
	campaigns [][]Campaign
	txs       []Op
	alerts    []error
}

func (v *recordingView) RenderAccount(contract common.Address, account common.Address) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.accounts = append(v.accounts, account)
}

func (v *recordingView) RenderSnapshot(snapshot *Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snapshots = append(v.snapshots, snapshot)
}

func (v *recordingView) RenderCampaigns(campaigns []Campaign) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.campaigns = append(v.campaigns, campaigns)
}

func (v *recordingView) RenderTx(op Op, tx *types.Transaction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.txs = append(v.txs, op)
}

func (v *recordingView) Alert(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, err)
}

func (v *recordingView) snapshotCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.snapshots)
}

func (v *recordingView) alertCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.alerts)
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

type testEnv struct {
	client  *Client
	backend *contracttest.SimulatedBackend
	view    *recordingView
	signer  *bind.TransactOpts
}

func newTestEnv(t *testing.T, config Config) *testEnv {
	handle, err := contract.LoadHandle(contract.DefaultConfig)
	require.NoError(t, err)
	backend := contracttest.NewSimulatedBackend(handle.Address(), handle.ABI())
	backend.SetResult("targetAmount", ether(5))
	backend.SetResult("currentContributions", ether(2))
	backend.SetResult("timeLeft", big.NewInt(3600))

	signer, err := contracttest.NewTransactor()
	require.NoError(t, err)

	view := &recordingView{}
	return &testEnv{
		client:  NewClient(config, contract.NewCrowdfunding(handle, backend), view),
		backend: backend,
		view:    view,
		signer:  signer,
	}
}

func newConnectedEnv(t *testing.T, config Config) *testEnv {
	env := newTestEnv(t, config)
	require.NoError(t, env.client.Connect(context.Background(), env.resolver()))
	return env
}

func (env *testEnv) resolver() SignerResolver {
	return SignerResolverFunc(func(ctx context.Context) (*bind.TransactOpts, error) {
		return env.signer, nil
	})
}

// refreshCalls returns how many refreshes hit the backend.
func (env *testEnv) refreshCalls() int {
	return env.backend.Calls("targetAmount")
}

var noDebounce = Config{Debounce: 0}
