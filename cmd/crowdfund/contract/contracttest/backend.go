// Package contracttest provides an in-memory contract backend that answers
// calls by ABI method and records submitted transactions.
package contracttest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var errNotSupported = errors.New("not supported by simulated backend")

// CallHandler computes the return values of a contract call from its unpacked arguments.
type CallHandler func(args []interface{}) ([]interface{}, error)

// SentTx is a transaction accepted by the backend, decoded against the ABI.
type SentTx struct {
	Tx     *types.Transaction
	From   common.Address
	Method string
	Args   []interface{}
	Value  *big.Int
}

// SimulatedBackend implements bind.ContractBackend and bind.DeployBackend for a
// single contract. Calls are dispatched by method id to registered handlers,
// transactions are decoded and kept, and every transaction is reported as mined.
type SimulatedBackend struct {
	abi     abi.ABI
	address common.Address

	mu       sync.Mutex
	handlers map[string]CallHandler
	calls    map[string]int
	sent     []SentTx
	receipts map[common.Hash]*types.Receipt
	nonce    uint64
	sendErr  error
	reverted bool
	pending  bool
	hook     func(SentTx)
}

func NewSimulatedBackend(address common.Address, parsed abi.ABI) *SimulatedBackend {
	return &SimulatedBackend{
		abi:      parsed,
		address:  address,
		handlers: make(map[string]CallHandler),
		calls:    make(map[string]int),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

// SetResult makes method return the given values.
func (b *SimulatedBackend) SetResult(method string, values ...interface{}) {
	b.SetHandler(method, func([]interface{}) ([]interface{}, error) {
		return values, nil
	})
}

// SetError makes calls to method fail with err.
func (b *SimulatedBackend) SetError(method string, err error) {
	b.SetHandler(method, func([]interface{}) ([]interface{}, error) {
		return nil, err
	})
}

func (b *SimulatedBackend) SetHandler(method string, handler CallHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method] = handler
}

// FailSend makes SendTransaction fail with err, nil restores it.
func (b *SimulatedBackend) FailSend(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendErr = err
}

// RevertTransactions makes subsequent receipts report a failed execution.
func (b *SimulatedBackend) RevertTransactions(reverted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reverted = reverted
}

// HoldReceipts keeps subsequent transactions unmined: no receipt is ever
// reported for them.
func (b *SimulatedBackend) HoldReceipts(hold bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = hold
}

// OnSend registers a hook called for every accepted transaction.
func (b *SimulatedBackend) OnSend(hook func(SentTx)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = hook
}

// Calls returns how many times method was called.
func (b *SimulatedBackend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *SimulatedBackend) Sent() []SentTx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SentTx(nil), b.sent...)
}

func (b *SimulatedBackend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = make(map[string]int)
}

func (b *SimulatedBackend) decode(data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("call data too short: %d bytes", len(data))
	}
	method, err := b.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, err
	}
	return method, args, nil
}

func (b *SimulatedBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return b.codeAt(contract), nil
}

func (b *SimulatedBackend) codeAt(contract common.Address) []byte {
	if contract == b.address {
		return []byte{0x60, 0x80, 0x60, 0x40}
	}
	return nil
}

func (b *SimulatedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if call.To == nil || *call.To != b.address {
		return nil, nil
	}
	method, args, err := b.decode(call.Data)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.calls[method.Name]++
	handler, ok := b.handlers[method.Name]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("execution reverted: no result for %s", method.Name)
	}
	values, err := handler(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(values...)
}

func (b *SimulatedBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (b *SimulatedBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.codeAt(account), nil
}

func (b *SimulatedBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonce, nil
}

func (b *SimulatedBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *SimulatedBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *SimulatedBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100000, nil
}

func (b *SimulatedBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	method, args, err := b.decode(tx.Data())
	if err != nil {
		return err
	}
	from, _ := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	sent := SentTx{
		Tx:     tx,
		From:   from,
		Method: method.Name,
		Args:   args,
		Value:  tx.Value(),
	}

	b.mu.Lock()
	if b.sendErr != nil {
		err := b.sendErr
		b.mu.Unlock()
		return err
	}
	status := types.ReceiptStatusSuccessful
	if b.reverted {
		status = types.ReceiptStatusFailed
	}
	b.nonce++
	b.sent = append(b.sent, sent)
	if !b.pending {
		b.receipts[tx.Hash()] = &types.Receipt{
			Status:      status,
			TxHash:      tx.Hash(),
			GasUsed:     tx.Gas(),
			BlockNumber: big.NewInt(1),
		}
	}
	hook := b.hook
	b.mu.Unlock()

	if hook != nil {
		hook(sent)
	}
	return nil
}

func (b *SimulatedBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if receipt, ok := b.receipts[txHash]; ok {
		return receipt, nil
	}
	return nil, ethereum.NotFound
}

func (b *SimulatedBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *SimulatedBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errNotSupported
}

// ChainID is the chain id transactors created by NewTransactor sign for.
var ChainID = big.NewInt(1337)

// NewTransactor returns a transactor backed by a freshly generated key.
func NewTransactor() (*bind.TransactOpts, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactorWithChainID(key, ChainID)
}
