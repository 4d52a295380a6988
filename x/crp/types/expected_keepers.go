package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper moves tokens and mints or burns pool shares.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// PoolKeeper is the underlying weighted pool. The controller address passed
// to CreatePool is the only account the pool moves reserves to and from.
type PoolKeeper interface {
	CreatePool(ctx context.Context, controller sdk.AccAddress) (uint64, error)
	Bind(ctx context.Context, poolID uint64, denom string, balance math.Int, weight math.LegacyDec) error
	Rebind(ctx context.Context, poolID uint64, denom string, balance math.Int, weight math.LegacyDec) error
	Unbind(ctx context.Context, poolID uint64, denom string) error
	Gulp(ctx context.Context, poolID uint64, denom string) error
	SetSwapFee(ctx context.Context, poolID uint64, fee math.LegacyDec) error
	SetPublicSwap(ctx context.Context, poolID uint64, enabled bool) error

	IsBound(ctx context.Context, poolID uint64, denom string) bool
	GetCurrentTokens(ctx context.Context, poolID uint64) ([]string, error)
	GetDenormalizedWeight(ctx context.Context, poolID uint64, denom string) (math.LegacyDec, error)
	GetTotalDenormalizedWeight(ctx context.Context, poolID uint64) (math.LegacyDec, error)
	GetBalance(ctx context.Context, poolID uint64, denom string) (math.Int, error)
	IsPublicSwap(ctx context.Context, poolID uint64) (bool, error)
	GetSwapFee(ctx context.Context, poolID uint64) (math.LegacyDec, error)
}
