package contract

import "errors"

var (
	ErrInvalidAddress = errors.New("invalid contract address")
	ErrTxReverted     = errors.New("transaction reverted")
	ErrUnexpectedType = errors.New("unexpected return type")
)
