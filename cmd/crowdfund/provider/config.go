package provider

import "time"

type Config struct {
	RPCURL       string        // JSON-RPC endpoint, http(s), ws(s) or an IPC path
	PrivateKey   string        `toml:",omitempty"` // Hex encoded signer key
	KeyFile      string        `toml:",omitempty"` // File holding a hex encoded signer key
	KeystoreDir  string        `toml:",omitempty"` // Encrypted keystore directory
	Account      string        `toml:",omitempty"` // Keystore or node account to sign with, first account if empty
	PasswordFile string        `toml:",omitempty"` // Keystore password file
	DialTimeout  time.Duration // Timeout of the discovery round trip
	SignTimeout  time.Duration // Timeout of eth_signTransaction for node managed accounts
}

var DefaultConfig = Config{
	RPCURL:      "http://127.0.0.1:8545",
	DialTimeout: 10 * time.Second,
	SignTimeout: time.Minute,
}

func (c *Config) sanitize() {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultConfig.DialTimeout
	}
	if c.SignTimeout <= 0 {
		c.SignTimeout = DefaultConfig.SignTimeout
	}
}
