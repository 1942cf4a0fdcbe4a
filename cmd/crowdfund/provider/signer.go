package provider

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ResolveSigner grants access to the signing account. A configured private
// key wins over a keystore, and a keystore over the accounts managed by the
// node itself.
func (p *Provider) ResolveSigner(ctx context.Context) (*bind.TransactOpts, error) {
	switch {
	case p.config.PrivateKey != "" || p.config.KeyFile != "":
		return p.keyTransactor()
	case p.config.KeystoreDir != "":
		return p.keystoreTransactor()
	}
	return p.nodeTransactor(ctx)
}

func (p *Provider) loadKey() (*ecdsa.PrivateKey, error) {
	if p.config.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(p.config.PrivateKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return key, nil
	}
	key, err := crypto.LoadECDSA(p.config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKey, p.config.KeyFile, err)
	}
	return key, nil
}

func (p *Provider) keyTransactor() (*bind.TransactOpts, error) {
	key, err := p.loadKey()
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, p.chainID)
	if err != nil {
		return nil, err
	}
	p.log.Info("Using private key signer", "account", opts.From)
	return opts, nil
}

func readPassword(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	buf, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("could not read password file: %w", err)
	}
	lines := strings.Split(string(buf), "\n")
	return strings.TrimRight(lines[0], "\r"), nil
}

// selectAccount returns the configured account or the first one available.
func (p *Provider) selectAccount(available []common.Address) (common.Address, error) {
	if len(available) == 0 {
		return common.Address{}, ErrNoAccount
	}
	if p.config.Account == "" {
		return available[0], nil
	}
	if !common.IsHexAddress(p.config.Account) {
		return common.Address{}, fmt.Errorf("%w: invalid address %q", ErrAccountNotFound, p.config.Account)
	}
	wanted := common.HexToAddress(p.config.Account)
	for _, addr := range available {
		if addr == wanted {
			return addr, nil
		}
	}
	return common.Address{}, fmt.Errorf("%w: %s", ErrAccountNotFound, wanted)
}

func (p *Provider) keystoreTransactor() (*bind.TransactOpts, error) {
	ks := keystore.NewKeyStore(p.config.KeystoreDir, keystore.StandardScryptN, keystore.StandardScryptP)
	addrs := make([]common.Address, 0)
	for _, account := range ks.Accounts() {
		addrs = append(addrs, account.Address)
	}
	from, err := p.selectAccount(addrs)
	if err != nil {
		return nil, err
	}
	password, err := readPassword(p.config.PasswordFile)
	if err != nil {
		return nil, err
	}
	account := accounts.Account{Address: from}
	if err := ks.Unlock(account, password); err != nil {
		return nil, fmt.Errorf("could not unlock %s: %w", from, err)
	}
	p.log.Info("Using keystore signer", "account", from, "keystore", p.config.KeystoreDir)
	return bind.NewKeyStoreTransactorWithChainID(ks, account, p.chainID)
}

// nodeTransactor signs through eth_signTransaction with an account the
// node manages.
func (p *Provider) nodeTransactor(ctx context.Context) (*bind.TransactOpts, error) {
	var available []common.Address
	if err := p.rpc.CallContext(ctx, &available, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("could not list node accounts: %w", err)
	}
	from, err := p.selectAccount(available)
	if err != nil {
		return nil, err
	}
	p.log.Info("Using node managed signer", "account", from)
	return &bind.TransactOpts{
		From: from,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != from {
				return nil, bind.ErrNotAuthorized
			}
			return p.signTransaction(from, tx)
		},
	}, nil
}

type sendTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Data                 hexutil.Bytes   `json:"data"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

type signTxResult struct {
	Raw hexutil.Bytes      `json:"raw"`
	Tx  *types.Transaction `json:"tx"`
}

func newSendTxArgs(from common.Address, tx *types.Transaction, chainID *hexutil.Big) sendTxArgs {
	args := sendTxArgs{
		From:    from,
		To:      tx.To(),
		Gas:     hexutil.Uint64(tx.Gas()),
		Value:   (*hexutil.Big)(tx.Value()),
		Nonce:   hexutil.Uint64(tx.Nonce()),
		Data:    tx.Data(),
		ChainID: chainID,
	}
	if tx.Type() == types.LegacyTxType {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice())
	} else {
		args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
	}
	return args
}

func (p *Provider) signTransaction(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.SignTimeout)
	defer cancel()

	var result signTxResult
	args := newSendTxArgs(from, tx, (*hexutil.Big)(p.chainID))
	if err := p.rpc.CallContext(ctx, &result, "eth_signTransaction", args); err != nil {
		return nil, fmt.Errorf("eth_signTransaction: %w", err)
	}
	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(result.Raw); err != nil {
		return nil, fmt.Errorf("eth_signTransaction: %w", err)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(p.chainID), signed)
	if err != nil {
		return nil, err
	}
	if sender != from {
		return nil, fmt.Errorf("%w: %s", ErrSignerMismatch, sender)
	}
	return signed, nil
}
