package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// executeAtomic runs fn against a cache of the multistore while holding the
// pool's operation lock. State and events are written back only when fn
// succeeds. A call that finds the lock held fails with ErrReentrancy, which
// covers callbacks from the underlying pool into the same controller.
func (k Keeper) executeAtomic(ctx context.Context, poolID uint64, operation string, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cms := sdkCtx.MultiStore().CacheMultiStore()
	cacheCtx := sdkCtx.WithMultiStore(cms).WithEventManager(sdk.NewEventManager())

	if err := k.acquireLock(cacheCtx, poolID, operation); err != nil {
		k.metrics.recordOperation(operation, err)
		return err
	}
	if err := fn(cacheCtx); err != nil {
		k.metrics.recordOperation(operation, err)
		return err
	}
	k.releaseLock(cacheCtx, poolID)

	cms.Write()
	sdkCtx.EventManager().EmitEvents(cacheCtx.EventManager().Events())
	k.metrics.recordOperation(operation, nil)
	return nil
}

// IsLocked reports whether an operation on the pool is in flight.
func (k Keeper) IsLocked(ctx context.Context, poolID uint64) bool {
	return k.getStore(ctx).Has(types.GetLockKey(poolID))
}

func (k Keeper) acquireLock(ctx context.Context, poolID uint64, operation string) error {
	store := k.getStore(ctx)
	key := types.GetLockKey(poolID)
	if bz := store.Get(key); bz != nil {
		return types.ErrReentrancy.Wrapf("%s on pool %d while %s is running", operation, poolID, string(bz))
	}
	store.Set(key, []byte(operation))
	return nil
}

func (k Keeper) releaseLock(ctx context.Context, poolID uint64) {
	k.getStore(ctx).Delete(types.GetLockKey(poolID))
}
