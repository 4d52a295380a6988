package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/bpool/types"
)

// Keeper of the bpool store. A pool only trusts its controller, and the only
// path to a controller-gated method is through the keeper reference held by
// the controlling module.
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	hooks      types.PoolHooks
}

// NewKeeper creates a new bpool Keeper instance
func NewKeeper(key storetypes.StoreKey, bankKeeper types.BankKeeper) *Keeper {
	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
	}
}

// SetHooks sets the reserve-change hooks. It panics if called twice.
func (k *Keeper) SetHooks(hooks ...types.PoolHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set bpool hooks twice")
	}
	k.hooks = types.MultiPoolHooks(hooks)
	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the bpool module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

func (k Keeper) afterReservesChanged(ctx context.Context, poolID uint64, denom string) error {
	if k.hooks == nil {
		return nil
	}
	return k.hooks.AfterReservesChanged(ctx, poolID, denom)
}
