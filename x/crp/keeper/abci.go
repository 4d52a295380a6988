package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// EndBlocker pokes every started weight schedule when AutoPokeWeights is
// set. Failures are logged and do not halt the block.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()

	var due []uint64
	active := 0
	err := k.IterateGradualUpdates(ctx, func(update types.GradualUpdate) (bool, error) {
		active++
		if height >= update.StartHeight {
			due = append(due, update.PoolId)
		}
		return false, nil
	})
	if err != nil {
		sdkCtx.Logger().Error("failed to iterate weight schedules", "error", err)
		return nil
	}
	k.metrics.ActiveUpdates.Set(float64(active))

	if !k.GetParams(ctx).AutoPokeWeights {
		return nil
	}
	for _, poolID := range due {
		if err := k.PokeWeights(ctx, poolID); err != nil {
			k.Logger(ctx).Error("failed to poke weights", "pool_id", poolID, "error", err)
		}
	}
	return nil
}
