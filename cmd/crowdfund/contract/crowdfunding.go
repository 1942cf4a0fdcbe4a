package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is everything the binding needs from a provider: calls,
// transaction submission and receipt lookups.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Campaign is one entry of the contract's campaigns list.
type Campaign struct {
	Owner        common.Address
	TargetAmount *big.Int
	RaisedAmount *big.Int
	IsActive     bool
}

// Crowdfunding is a typed binding of the crowdfunding contract.
type Crowdfunding struct {
	handle   Handle
	backend  Backend
	contract *bind.BoundContract
}

func NewCrowdfunding(handle Handle, backend Backend) *Crowdfunding {
	return &Crowdfunding{
		handle:   handle,
		backend:  backend,
		contract: bind.NewBoundContract(handle.Address(), handle.ABI(), backend, backend, backend),
	}
}

func (c *Crowdfunding) Handle() Handle {
	return c.handle
}

func (c *Crowdfunding) call(opts *bind.CallOpts, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, method, params...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return out, nil
}

func (c *Crowdfunding) callUint256(opts *bind.CallOpts, method string) (*big.Int, error) {
	out, err := c.call(opts, method)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: %s returned %d values", ErrUnexpectedType, method, len(out))
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrUnexpectedType, method, out[0])
	}
	return value, nil
}

// TargetAmount is a free data retrieval call binding the contract method targetAmount().
func (c *Crowdfunding) TargetAmount(opts *bind.CallOpts) (*big.Int, error) {
	return c.callUint256(opts, "targetAmount")
}

// CurrentContributions is a free data retrieval call binding the contract method currentContributions().
func (c *Crowdfunding) CurrentContributions(opts *bind.CallOpts) (*big.Int, error) {
	return c.callUint256(opts, "currentContributions")
}

// TimeLeft is a free data retrieval call binding the contract method timeLeft().
func (c *Crowdfunding) TimeLeft(opts *bind.CallOpts) (*big.Int, error) {
	return c.callUint256(opts, "timeLeft")
}

// TotalCampaigns is a free data retrieval call binding the contract method totalCampaigns().
func (c *Crowdfunding) TotalCampaigns(opts *bind.CallOpts) (*big.Int, error) {
	return c.callUint256(opts, "totalCampaigns")
}

// Campaigns is a free data retrieval call binding the contract method campaigns(uint256).
func (c *Crowdfunding) Campaigns(opts *bind.CallOpts, index *big.Int) (Campaign, error) {
	out, err := c.call(opts, "campaigns", index)
	if err != nil {
		return Campaign{}, err
	}
	if len(out) != 4 {
		return Campaign{}, fmt.Errorf("%w: campaigns returned %d values", ErrUnexpectedType, len(out))
	}
	return Campaign{
		Owner:        *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		TargetAmount: *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		RaisedAmount: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		IsActive:     *abi.ConvertType(out[3], new(bool)).(*bool),
	}, nil
}

// Contribute is a paid mutator transaction binding the contract method contribute().
// The contributed amount travels in opts.Value.
func (c *Crowdfunding) Contribute(opts *bind.TransactOpts) (*types.Transaction, error) {
	return c.contract.Transact(opts, "contribute")
}

// Refund is a paid mutator transaction binding the contract method refund().
func (c *Crowdfunding) Refund(opts *bind.TransactOpts) (*types.Transaction, error) {
	return c.contract.Transact(opts, "refund")
}

// StartCampaign is a paid mutator transaction binding the contract method
// startCampaign(address,uint256,uint256).
func (c *Crowdfunding) StartCampaign(opts *bind.TransactOpts, owner common.Address, target *big.Int, duration *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "startCampaign", owner, target, duration)
}

// WaitMined blocks until tx is mined and fails with ErrTxReverted if the
// receipt reports a failed execution.
func (c *Crowdfunding) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTxReverted, tx.Hash().Hex())
	}
	return receipt, nil
}
