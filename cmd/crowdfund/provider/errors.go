package provider

import "errors"

var (
	ErrUnavailable     = errors.New("no ethereum provider available")
	ErrNoEndpoint      = errors.New("no RPC endpoint configured")
	ErrNoAccount       = errors.New("no signer account available")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidKey      = errors.New("invalid private key")
	ErrSignerMismatch  = errors.New("transaction signed by unexpected account")
)
