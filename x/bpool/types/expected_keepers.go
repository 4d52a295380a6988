package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper moves reserves between a pool account and its controller.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
}

// PoolHooks are called after a pool's reserves change. The controller of a
// pool must tolerate being called back from inside its own operation.
type PoolHooks interface {
	AfterReservesChanged(ctx context.Context, poolID uint64, denom string) error
}

// MultiPoolHooks fans out to several hook implementations.
type MultiPoolHooks []PoolHooks

// AfterReservesChanged implements PoolHooks.
func (h MultiPoolHooks) AfterReservesChanged(ctx context.Context, poolID uint64, denom string) error {
	for _, hook := range h {
		if err := hook.AfterReservesChanged(ctx, poolID, denom); err != nil {
			return err
		}
	}
	return nil
}
