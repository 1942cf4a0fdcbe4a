// Package provider discovers the Ethereum JSON-RPC provider the client talks
// to and resolves the account that signs its transactions.
package provider

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// Discovery is the outcome of looking for a provider: either an available
// provider or the reason there is none.
type Discovery struct {
	provider *Provider
	reason   error
}

func (d Discovery) Available() bool {
	return d.provider != nil
}

// Provider returns the discovered provider, nil when unavailable.
func (d Discovery) Provider() *Provider {
	return d.provider
}

// Reason explains why no provider is available. It wraps ErrUnavailable.
func (d Discovery) Reason() error {
	return d.reason
}

func unavailable(err error) Discovery {
	return Discovery{reason: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}

// Discover dials the configured endpoint and checks it answers eth_chainId.
// There is no fallback endpoint.
func Discover(ctx context.Context, config Config) Discovery {
	config.sanitize()
	if config.RPCURL == "" {
		return unavailable(ErrNoEndpoint)
	}
	ctx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, config.RPCURL)
	if err != nil {
		return unavailable(err)
	}
	eth := ethclient.NewClient(client)
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		client.Close()
		return unavailable(err)
	}
	log.Info("Connected to provider", "url", config.RPCURL, "chainid", chainID)
	return Discovery{provider: &Provider{
		config:  config,
		rpc:     client,
		eth:     eth,
		chainID: chainID,
		log:     log.New("module", "provider"),
	}}
}

// Provider is a live JSON-RPC connection.
type Provider struct {
	config  Config
	rpc     *rpc.Client
	eth     *ethclient.Client
	chainID *big.Int
	log     log.Logger
}

// Backend returns the client contract bindings are built on.
func (p *Provider) Backend() *ethclient.Client {
	return p.eth
}

func (p *Provider) ChainID() *big.Int {
	return new(big.Int).Set(p.chainID)
}

func (p *Provider) Close() {
	p.rpc.Close()
}
