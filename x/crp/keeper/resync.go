package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/crp/x/crp/types"
)

// ResyncWeight absorbs an out-of-band balance change of an elastic token and
// scales its weight by current/reference so the token's spot price does not
// move. The reference balance is the pool's recorded balance; the current
// balance is the one recorded after a gulp. Anyone may call it.
func (k Keeper) ResyncWeight(ctx context.Context, poolID uint64, denom string) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if !pool.Elastic {
		return math.LegacyDec{}, types.ErrUnsupportedOperation.Wrapf("pool %d is not elastic", poolID)
	}
	if err := pool.Rights.Require(types.CanChangeWeights); err != nil {
		return math.LegacyDec{}, err
	}
	if !pool.IsCreated() {
		return math.LegacyDec{}, types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	if err := k.requireNoGradualUpdate(ctx, poolID); err != nil {
		return math.LegacyDec{}, err
	}
	if !k.poolKeeper.IsBound(ctx, pool.BPoolId, denom) {
		return math.LegacyDec{}, types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}

	var newWeight math.LegacyDec
	err = k.executeAtomic(ctx, poolID, "resync_weight", func(ctx sdk.Context) error {
		reference, err := k.poolKeeper.GetBalance(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}
		oldWeight, err := k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}
		totalWeight, err := k.poolKeeper.GetTotalDenormalizedWeight(ctx, pool.BPoolId)
		if err != nil {
			return err
		}

		if err := k.poolKeeper.Gulp(ctx, pool.BPoolId, denom); err != nil {
			return err
		}
		current, err := k.poolKeeper.GetBalance(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}

		newWeight = oldWeight.MulInt(current).QuoInt(reference)
		if err := types.ValidateWeight(newWeight); err != nil {
			return err
		}
		if err := types.ValidateTotalWeight(totalWeight.Sub(oldWeight).Add(newWeight)); err != nil {
			return err
		}
		if err := k.poolKeeper.Rebind(ctx, pool.BPoolId, denom, current, newWeight); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWeightResynced,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyDenom, denom),
				sdk.NewAttribute(types.AttributeKeyReferenceBalance, reference.String()),
				sdk.NewAttribute(types.AttributeKeyCurrentBalance, current.String()),
				sdk.NewAttribute(types.AttributeKeyOldWeight, oldWeight.String()),
				sdk.NewAttribute(types.AttributeKeyNewWeight, newWeight.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.LegacyDec{}, err
	}
	return newWeight, nil
}

// SafeResync attempts ResyncWeight and never fails. When the resync fails,
// for any reason including a panic, its effects are discarded, the pool
// gulps the token instead and a resync_degraded event carries the failure
// reason, which is empty when the failure had none.
func (k Keeper) SafeResync(ctx context.Context, poolID uint64, denom string) types.ResyncResult {
	result := types.ResyncResult{PoolId: poolID, Denom: denom}

	newWeight, err := k.tryResync(ctx, poolID, denom)
	if err == nil {
		result.Resynced = true
		result.NewWeight = newWeight
		return result
	}
	result.Reason = failureReason(err)

	if gulpErr := k.tryGulp(ctx, poolID, denom); gulpErr != nil {
		result.GulpError = gulpErr.Error()
		k.Logger(ctx).Error("fallback gulp failed", "pool_id", poolID, "denom", denom, "error", gulpErr)
	} else {
		result.Gulped = true
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeResyncDegraded,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyReason, result.Reason),
			sdk.NewAttribute(types.AttributeKeyGulped, fmt.Sprintf("%t", result.Gulped)),
		),
	)
	k.metrics.ResyncDegraded.WithLabelValues(fmt.Sprintf("%d", poolID)).Inc()
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "resync", "degraded"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("pool_id", fmt.Sprintf("%d", poolID)),
			telemetry.NewLabel("denom", denom),
		},
	)
	k.Logger(ctx).Error("weight resync degraded to gulp", "pool_id", poolID, "denom", denom, "reason", result.Reason)
	return result
}

func (k Keeper) tryResync(ctx context.Context, poolID uint64, denom string) (weight math.LegacyDec, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return k.ResyncWeight(ctx, poolID, denom)
}

func (k Keeper) tryGulp(ctx context.Context, poolID uint64, denom string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()

	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if !pool.IsCreated() {
		return types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	return k.executeAtomic(ctx, poolID, "gulp", func(ctx sdk.Context) error {
		return k.poolKeeper.Gulp(ctx, pool.BPoolId, denom)
	})
}

// panicError carries a recovered panic value.
type panicError struct {
	value any
}

func (e panicError) Error() string {
	switch v := e.value.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return ""
	}
}

// failureReason is the message of err, or empty when it has none.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
