package types

import (
	"cosmossdk.io/errors"
)

// bpool module sentinel errors
var (
	ErrPoolNotFound   = errors.Register(ModuleName, 1, "pool not found")
	ErrIsBound        = errors.Register(ModuleName, 2, "token already bound")
	ErrNotBound       = errors.Register(ModuleName, 3, "token not bound")
	ErrMaxTokens      = errors.Register(ModuleName, 4, "too many bound tokens")
	ErrMinWeight      = errors.Register(ModuleName, 5, "weight below minimum")
	ErrMaxWeight      = errors.Register(ModuleName, 6, "weight above maximum")
	ErrMaxTotalWeight = errors.Register(ModuleName, 7, "total weight above maximum")
	ErrMinBalance     = errors.Register(ModuleName, 8, "balance below minimum")
	ErrMinFee         = errors.Register(ModuleName, 9, "swap fee below minimum")
	ErrMaxFee         = errors.Register(ModuleName, 10, "swap fee above maximum")
	ErrInvalidDenom   = errors.Register(ModuleName, 11, "invalid token denomination")
	ErrInvalidGenesis = errors.Register(ModuleName, 12, "invalid genesis state")
	ErrInvalidAddress = errors.Register(ModuleName, 13, "invalid address")
	ErrTransferFailed = errors.Register(ModuleName, 14, "token transfer failed")
)
