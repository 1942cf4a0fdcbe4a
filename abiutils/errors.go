package abiutils

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid method signature")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidEntryType = errors.New("invalid abi entry type")
	ErrMissingMethod    = errors.New("missing method")
)
