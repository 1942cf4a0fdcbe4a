package syncer

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/khanghh/crowdfund/cmd/crowdfund/contract"
	"github.com/khanghh/crowdfund/cmd/crowdfund/units"
)

var errNotPositive = errors.New("must be greater than zero")

type sendFunc func(opts *bind.TransactOpts) (*types.Transaction, error)

// parsePositiveAmount converts a decimal ether string to base units and
// rejects zero and negative amounts.
func parsePositiveAmount(field, input string) (*big.Int, error) {
	wei, err := units.ToWei(input)
	if err != nil {
		return nil, &ValidationError{Field: field, Input: input, Reason: err}
	}
	if wei.Sign() <= 0 {
		return nil, &ValidationError{Field: field, Input: input, Reason: errNotPositive}
	}
	if err := units.CheckUint256(wei); err != nil {
		return nil, &ValidationError{Field: field, Input: input, Reason: err}
	}
	return wei, nil
}

func parseDuration(input string) (*big.Int, error) {
	secs, err := units.DaysToSeconds(input)
	if err != nil {
		return nil, &ValidationError{Field: "duration", Input: input, Reason: err}
	}
	if secs.Sign() <= 0 {
		return nil, &ValidationError{Field: "duration", Input: input, Reason: errNotPositive}
	}
	if err := units.CheckUint256(secs); err != nil {
		return nil, &ValidationError{Field: "duration", Input: input, Reason: err}
	}
	return secs, nil
}

func (c *Client) transactor() (*bind.TransactOpts, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return nil, ErrNotConnected
	}
	opts := *c.signer
	return &opts, nil
}

// submit sends a transaction built by send from the signer account, waits
// until it is mined and then refreshes exactly once. Nothing is retried.
func (c *Client) submit(ctx context.Context, op Op, value *big.Int, send sendFunc) error {
	opts, err := c.transactor()
	if err != nil {
		return c.fail(err)
	}
	release, err := c.guard.acquire(op)
	if err != nil {
		c.log.Debug("Operation rejected", "op", op, "reason", err)
		return c.fail(err)
	}
	defer release()

	txCtx, cancel := context.WithTimeout(ctx, c.config.TxTimeout)
	defer cancel()
	opts.Context = txCtx
	opts.Value = value

	tx, err := send(opts)
	if err != nil {
		return c.remoteError(op, err)
	}
	c.log.Info("Submitted transaction", "op", op, "tx", tx.Hash(), "from", opts.From, "value", value)
	c.history.add(TxRecord{
		Op:        op,
		Hash:      tx.Hash(),
		From:      opts.From,
		Value:     tx.Value(),
		Status:    TxPending,
		Submitted: time.Now(),
	})
	c.view.RenderTx(op, tx)

	receipt, err := c.contract.WaitMined(txCtx, tx)
	if err != nil {
		status := TxUnknown
		if errors.Is(err, contract.ErrTxReverted) {
			status = TxFailed
		}
		c.history.setStatus(tx.Hash(), status)
		return c.remoteError(op, err)
	}
	c.history.setStatus(tx.Hash(), TxMined)
	c.log.Info("Transaction mined", "op", op, "tx", tx.Hash(), "block", receipt.BlockNumber, "gas", receipt.GasUsed)

	// the mutation went through; a failing refresh is reported by Refresh itself
	c.Refresh(ctx)
	return nil
}

// Contribute sends amount (decimal ether) to the contract from the signer account.
func (c *Client) Contribute(ctx context.Context, amount string) (err error) {
	defer func(start time.Time) { c.observe(OpContribute, start, err) }(time.Now())
	wei, err := parsePositiveAmount("amount", amount)
	if err != nil {
		return c.fail(err)
	}
	return c.submit(ctx, OpContribute, wei, c.contract.Contribute)
}

// Refund asks the contract to return the signer's contributions.
func (c *Client) Refund(ctx context.Context) (err error) {
	defer func(start time.Time) { c.observe(OpRefund, start, err) }(time.Now())
	return c.submit(ctx, OpRefund, nil, c.contract.Refund)
}

// StartCampaign opens a campaign owned by the signer with a target in decimal
// ether and a duration in whole days.
func (c *Client) StartCampaign(ctx context.Context, target string, durationDays string) (err error) {
	defer func(start time.Time) { c.observe(OpStartCampaign, start, err) }(time.Now())
	targetWei, err := parsePositiveAmount("target", target)
	if err != nil {
		return c.fail(err)
	}
	duration, err := parseDuration(durationDays)
	if err != nil {
		return c.fail(err)
	}
	return c.submit(ctx, OpStartCampaign, nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.StartCampaign(opts, opts.From, targetWei, duration)
	})
}
