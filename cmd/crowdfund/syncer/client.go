package syncer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/metrics"
	"golang.org/x/sync/errgroup"
)

// Client keeps the rendered campaign state in line with the contract. It is
// created Disconnected and becomes Connected once a signer is resolved;
// mutating operations need a Connected client.
type Client struct {
	config   Config
	contract *contract.Crowdfunding
	view     View
	log      log.Logger

	mu     sync.RWMutex
	signer *bind.TransactOpts

	guard   *opGuard
	history *txHistory
}

func NewClient(config Config, binding *contract.Crowdfunding, view View) *Client {
	config.sanitize()
	return &Client{
		config:   config,
		contract: binding,
		view:     view,
		log:      log.New("module", "syncer", "contract", binding.Handle().Address()),
		guard:    newOpGuard(config.Debounce),
		history:  newTxHistory(config.HistorySize),
	}
}

func (c *Client) Config() Config {
	return c.config
}

// Handle returns the contract handle the client is bound to.
func (c *Client) Handle() contract.Handle {
	return c.contract.Handle()
}

func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return StateDisconnected
	}
	return StateConnected
}

// Account returns the signer address, the zero address while disconnected.
func (c *Client) Account() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.From
}

// Connect resolves the signer and moves the client to Connected. It happens
// once; calling Connect on a connected client is a no-op.
func (c *Client) Connect(ctx context.Context, resolver SignerResolver) error {
	if c.State() == StateConnected {
		return nil
	}
	signer, err := resolver.ResolveSigner(ctx)
	if err != nil {
		c.log.Warn("Could not resolve signer account", "error", err)
		return err
	}
	c.mu.Lock()
	if c.signer != nil {
		c.mu.Unlock()
		return nil
	}
	c.signer = signer
	c.mu.Unlock()

	c.log.Info("Connected signer account", "account", signer.From)
	c.view.RenderAccount(c.Handle().Address(), signer.From)
	return nil
}

// ShowAccount renders the contract and signer addresses again.
func (c *Client) ShowAccount() error {
	if c.State() != StateConnected {
		return c.fail(ErrNotConnected)
	}
	c.view.RenderAccount(c.Handle().Address(), c.Account())
	return nil
}

// RecentTransactions returns the transactions submitted by this client,
// newest first.
func (c *Client) RecentTransactions() []TxRecord {
	return c.history.recent()
}

// fail reports err to the view and returns it.
func (c *Client) fail(err error) error {
	c.view.Alert(err)
	return err
}

func (c *Client) observe(op Op, start time.Time, err error) {
	var (
		result        = metrics.ResultFailed
		validationErr *ValidationError
	)
	switch {
	case err == nil:
		result = metrics.ResultOK
	case errors.As(err, &validationErr):
		result = metrics.ResultInvalid
	case errors.Is(err, ErrNotConnected), errors.Is(err, ErrOperationInFlight), errors.Is(err, ErrDebounced):
		result = metrics.ResultRejected
	}
	metrics.ObserveOperation(string(op), result, time.Since(start))
}

func (c *Client) remoteError(op Op, err error) error {
	c.log.Warn("Remote call failed", "op", op, "error", err)
	return c.fail(&RemoteCallError{Op: op, Err: err})
}

// Refresh reads target amount, current contributions and time left, then
// renders them. When any read fails nothing is rendered, the previous state
// stays on screen and the error is shown instead.
func (c *Client) Refresh(ctx context.Context) (snapshot *Snapshot, err error) {
	defer func(start time.Time) { c.observe(OpRefresh, start, err) }(time.Now())
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	var target, contributions, timeLeft *big.Int
	g, gctx := errgroup.WithContext(ctx)
	opts := &bind.CallOpts{Context: gctx}
	g.Go(func() (err error) {
		target, err = c.contract.TargetAmount(opts)
		return err
	})
	g.Go(func() (err error) {
		contributions, err = c.contract.CurrentContributions(opts)
		return err
	})
	g.Go(func() (err error) {
		timeLeft, err = c.contract.TimeLeft(opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, c.remoteError(OpRefresh, err)
	}

	snapshot = newSnapshot(target, contributions, timeLeft)
	c.log.Debug("Refreshed campaign state", "target", target, "contributions", contributions, "timeLeft", snapshot.TimeLeft)
	metrics.SetCampaign(snapshot.TargetAmount, snapshot.CurrentContributions, snapshot.TimeLeft)
	c.view.RenderSnapshot(snapshot)
	return snapshot, nil
}

// ListActiveCampaigns reads the campaign count, then each campaign in index
// order, and renders the active ones, replacing any previous list.
func (c *Client) ListActiveCampaigns(ctx context.Context) (active []Campaign, err error) {
	defer func(start time.Time) { c.observe(OpListCampaigns, start, err) }(time.Now())
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	opts := &bind.CallOpts{Context: ctx}
	total, err := c.contract.TotalCampaigns(opts)
	if err != nil {
		return nil, c.remoteError(OpListCampaigns, err)
	}
	if !total.IsUint64() {
		return nil, c.remoteError(OpListCampaigns, fmt.Errorf("%w: %v", ErrInvalidCount, total))
	}

	count := total.Uint64()
	active = make([]Campaign, 0)
	for i := uint64(0); i < count; i++ {
		record, err := c.contract.Campaigns(opts, new(big.Int).SetUint64(i))
		if err != nil {
			return nil, c.remoteError(OpListCampaigns, err)
		}
		if !record.IsActive {
			continue
		}
		active = append(active, Campaign{
			Index:        i,
			Owner:        record.Owner,
			TargetAmount: record.TargetAmount,
			RaisedAmount: record.RaisedAmount,
			IsActive:     record.IsActive,
		})
	}
	c.log.Debug("Listed campaigns", "total", count, "active", len(active))
	metrics.SetActiveCampaigns(len(active))
	c.view.RenderCampaigns(active)
	return active, nil
}
