package region

import "errors"

var (
	// ErrInvalidSize indicates an allocation request for zero or negative bytes.
	ErrInvalidSize = errors.New("region: size must be greater than zero")

	// ErrInvalidAddress indicates a negative address passed to Release.
	ErrInvalidAddress = errors.New("region: address must be non-negative")

	// ErrUnknownAddress indicates Release of an address that does not start an
	// allocated region (double free or foreign address).
	ErrUnknownAddress = errors.New("region: address is not the start of an allocated region")

	// ErrInvalidCapacity indicates a ledger constructed with a non-positive capacity.
	ErrInvalidCapacity = errors.New("region: capacity must be greater than zero")

	// ErrUnknownStrategy indicates StrategyByName was given a name it does not know.
	ErrUnknownStrategy = errors.New("region: unknown allocation strategy")
)
