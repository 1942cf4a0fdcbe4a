package syncer

import (
	"context"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Op names a client operation.
type Op string

const (
	OpRefresh       Op = "refresh"
	OpContribute    Op = "contribute"
	OpRefund        Op = "refund"
	OpStartCampaign Op = "startCampaign"
	OpListCampaigns Op = "listCampaigns"
)

// State is the connection state of a Client.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// Snapshot is the campaign state read from the contract in one refresh.
// Amounts are in base units.
type Snapshot struct {
	TargetAmount         *big.Int
	CurrentContributions *big.Int
	TimeLeft             uint64 // seconds
}

func newSnapshot(target, contributions, timeLeft *big.Int) *Snapshot {
	secs := uint64(math.MaxUint64)
	if timeLeft.IsUint64() {
		secs = timeLeft.Uint64()
	}
	return &Snapshot{
		TargetAmount:         target,
		CurrentContributions: contributions,
		TimeLeft:             secs,
	}
}

// Campaign is an on-chain campaign record together with its index.
type Campaign struct {
	Index        uint64
	Owner        common.Address
	TargetAmount *big.Int
	RaisedAmount *big.Int
	IsActive     bool
}

// View renders client state. Implementations must be safe for concurrent use.
type View interface {
	RenderAccount(contract common.Address, account common.Address)
	RenderSnapshot(snapshot *Snapshot)
	RenderCampaigns(campaigns []Campaign)
	RenderTx(op Op, tx *types.Transaction)
	Alert(err error)
}

// SignerResolver grants access to a signing account.
type SignerResolver interface {
	ResolveSigner(ctx context.Context) (*bind.TransactOpts, error)
}

type SignerResolverFunc func(ctx context.Context) (*bind.TransactOpts, error)

func (f SignerResolverFunc) ResolveSigner(ctx context.Context) (*bind.TransactOpts, error) {
	return f(ctx)
}
