package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// GetGradualUpdate returns the active weight schedule of a pool.
func (k Keeper) GetGradualUpdate(ctx context.Context, poolID uint64) (types.GradualUpdate, bool, error) {
	bz := k.getStore(ctx).Get(types.GetGradualUpdateKey(poolID))
	if bz == nil {
		return types.GradualUpdate{}, false, nil
	}
	var update types.GradualUpdate
	if err := json.Unmarshal(bz, &update); err != nil {
		return types.GradualUpdate{}, false, fmt.Errorf("GetGradualUpdate: unmarshal pool %d: %w", poolID, err)
	}
	return update, true, nil
}

// SetGradualUpdate stores the weight schedule of a pool.
func (k Keeper) SetGradualUpdate(ctx context.Context, update types.GradualUpdate) error {
	bz, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("SetGradualUpdate: marshal pool %d: %w", update.PoolId, err)
	}
	k.getStore(ctx).Set(types.GetGradualUpdateKey(update.PoolId), bz)
	return nil
}

func (k Keeper) deleteGradualUpdate(ctx context.Context, poolID uint64) {
	k.getStore(ctx).Delete(types.GetGradualUpdateKey(poolID))
}

// IterateGradualUpdates iterates over all active weight schedules.
func (k Keeper) IterateGradualUpdates(ctx context.Context, cb func(update types.GradualUpdate) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.GradualUpdateKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var update types.GradualUpdate
		if err := json.Unmarshal(iterator.Value(), &update); err != nil {
			return fmt.Errorf("IterateGradualUpdates: unmarshal: %w", err)
		}
		stop, err := cb(update)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// requireNoGradualUpdate fails while a schedule is stored for the pool. A
// schedule past its end stays stored until it is poked.
func (k Keeper) requireNoGradualUpdate(ctx context.Context, poolID uint64) error {
	update, found, err := k.GetGradualUpdate(ctx, poolID)
	if err != nil {
		return err
	}
	if found {
		return types.ErrGradualUpdateInProgress.Wrapf("pool %d schedule runs until height %d; poke to finish", poolID, update.EndHeight)
	}
	return nil
}

// GetCurrentWeights returns the bound tokens and their current weights.
func (k Keeper) GetCurrentWeights(ctx context.Context, poolID uint64) ([]string, []math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, nil, err
	}
	if !pool.IsCreated() {
		return nil, nil, types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	tokens, err := k.poolKeeper.GetCurrentTokens(ctx, pool.BPoolId)
	if err != nil {
		return nil, nil, err
	}
	weights := make([]math.LegacyDec, len(tokens))
	for i, denom := range tokens {
		if weights[i], err = k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom); err != nil {
			return nil, nil, err
		}
	}
	return tokens, weights, nil
}

// GetDenormalizedWeight returns the current weight of a bound token.
func (k Keeper) GetDenormalizedWeight(ctx context.Context, poolID uint64, denom string) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if !pool.IsCreated() {
		return math.LegacyDec{}, types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	if !k.poolKeeper.IsBound(ctx, pool.BPoolId, denom) {
		return math.LegacyDec{}, types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}
	return k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom)
}

// UpdateWeight sets the weight of one token immediately. Raising the weight
// takes balance·Δw/w tokens from the controller and mints supply·Δw/W shares
// to it; lowering the weight pays the tokens out and burns the shares.
func (k Keeper) UpdateWeight(ctx context.Context, caller sdk.AccAddress, poolID uint64, denom string, newWeight math.LegacyDec) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanChangeWeights)
	if err != nil {
		return err
	}
	if err := k.requireNoGradualUpdate(ctx, poolID); err != nil {
		return err
	}
	if err := types.ValidateWeight(newWeight); err != nil {
		return err
	}
	if !k.poolKeeper.IsBound(ctx, pool.BPoolId, denom) {
		return types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}

	return k.executeAtomic(ctx, poolID, "update_weight", func(ctx sdk.Context) error {
		currentWeight, err := k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}
		totalWeight, err := k.poolKeeper.GetTotalDenormalizedWeight(ctx, pool.BPoolId)
		if err != nil {
			return err
		}
		balance, err := k.poolKeeper.GetBalance(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}
		if err := types.ValidateTotalWeight(totalWeight.Sub(currentWeight).Add(newWeight)); err != nil {
			return err
		}
		if newWeight.Equal(currentWeight) {
			return nil
		}

		supply := k.TotalShares(ctx, poolID)
		if newWeight.LT(currentWeight) {
			deltaWeight := currentWeight.Sub(newWeight)
			deltaShares := mulDiv(supply, deltaWeight, totalWeight)
			deltaBalance := mulDiv(balance, deltaWeight, currentWeight)
			if err := k.requireBalance(ctx, caller, types.ShareDenom(poolID), deltaShares); err != nil {
				return err
			}
			if err := k.poolKeeper.Rebind(ctx, pool.BPoolId, denom, balance.Sub(deltaBalance), newWeight); err != nil {
				return err
			}
			if err := k.push(ctx, poolID, caller, denom, deltaBalance); err != nil {
				return err
			}
			if err := k.burnShares(ctx, poolID, caller, deltaShares); err != nil {
				return err
			}
		} else {
			deltaWeight := newWeight.Sub(currentWeight)
			deltaShares := mulDiv(supply, deltaWeight, totalWeight)
			deltaBalance := mulDiv(balance, deltaWeight, currentWeight)
			if err := k.pull(ctx, poolID, caller, denom, deltaBalance); err != nil {
				return err
			}
			if err := k.poolKeeper.Rebind(ctx, pool.BPoolId, denom, balance.Add(deltaBalance), newWeight); err != nil {
				return err
			}
			if err := k.mintShares(ctx, poolID, caller, deltaShares); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWeightUpdated,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyDenom, denom),
				sdk.NewAttribute(types.AttributeKeyOldWeight, currentWeight.String()),
				sdk.NewAttribute(types.AttributeKeyNewWeight, newWeight.String()),
			),
		)
		return nil
	})
}

// UpdateWeightsGradually schedules a linear move from the current weights to
// newWeights between max(startHeight, now) and endHeight.
func (k Keeper) UpdateWeightsGradually(ctx context.Context, caller sdk.AccAddress, poolID uint64, newWeights []math.LegacyDec, startHeight, endHeight int64) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanChangeWeights)
	if err != nil {
		return err
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	effectiveStart := startHeight
	if height > effectiveStart {
		effectiveStart = height
	}
	if endHeight <= effectiveStart {
		return types.ErrInvalidSchedule.Wrapf("end %d not after start %d", endHeight, effectiveStart)
	}
	if endHeight-effectiveStart < pool.MinimumWeightChangePeriod {
		return types.ErrChangePeriodTooShort.Wrapf("%d blocks < %d", endHeight-effectiveStart, pool.MinimumWeightChangePeriod)
	}

	tokens, startWeights, err := k.GetCurrentWeights(ctx, poolID)
	if err != nil {
		return err
	}
	if len(newWeights) != len(tokens) {
		return types.ErrInvalidSchedule.Wrapf("%d weights for %d tokens", len(newWeights), len(tokens))
	}
	if err := types.ValidateWeights(newWeights); err != nil {
		return err
	}

	update := types.GradualUpdate{
		PoolId:       poolID,
		StartHeight:  effectiveStart,
		EndHeight:    endHeight,
		Tokens:       tokens,
		StartWeights: startWeights,
		EndWeights:   append([]math.LegacyDec{}, newWeights...),
	}

	return k.executeAtomic(ctx, poolID, "update_weights_gradually", func(ctx sdk.Context) error {
		if err := k.SetGradualUpdate(ctx, update); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeGradualUpdateStarted,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyStartHeight, fmt.Sprintf("%d", update.StartHeight)),
				sdk.NewAttribute(types.AttributeKeyEndHeight, fmt.Sprintf("%d", update.EndHeight)),
				sdk.NewAttribute(types.AttributeKeyWeights, joinDecs(update.EndWeights)),
			),
		)
		k.Logger(ctx).Info("gradual weight update scheduled", "pool_id", poolID, "start", update.StartHeight, "end", update.EndHeight)
		return nil
	})
}

// PokeWeights moves the weights to their scheduled values at the current
// height. Anyone may poke. Without a schedule it does nothing; at or after
// the end it pins the end weights and clears the schedule.
func (k Keeper) PokeWeights(ctx context.Context, poolID uint64) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if !pool.IsCreated() {
		return types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	update, found, err := k.GetGradualUpdate(ctx, poolID)
	if err != nil || !found {
		return err
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	target, err := update.WeightsAt(height)
	if err != nil {
		return err
	}

	return k.executeAtomic(ctx, poolID, "poke_weights", func(ctx sdk.Context) error {
		if err := k.rebindWeights(ctx, pool.BPoolId, update.Tokens, target); err != nil {
			return err
		}
		if update.IsComplete(height) {
			k.deleteGradualUpdate(ctx, poolID)
			k.Logger(ctx).Info("gradual weight update finished", "pool_id", poolID, "height", height)
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWeightsPoked,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyWeights, joinDecs(target)),
			),
		)
		k.metrics.WeightPokes.Inc()
		return nil
	})
}

// rebindWeights applies target weights at unchanged balances. Decreases go
// first so the running total never passes the larger of the old and new
// totals.
func (k Keeper) rebindWeights(ctx context.Context, bpoolID uint64, tokens []string, target []math.LegacyDec) error {
	type change struct {
		denom   string
		balance math.Int
		delta   math.LegacyDec
		weight  math.LegacyDec
	}

	changes := make([]change, 0, len(tokens))
	for i, denom := range tokens {
		current, err := k.poolKeeper.GetDenormalizedWeight(ctx, bpoolID, denom)
		if err != nil {
			return err
		}
		if current.Equal(target[i]) {
			continue
		}
		balance, err := k.poolKeeper.GetBalance(ctx, bpoolID, denom)
		if err != nil {
			return err
		}
		changes = append(changes, change{denom: denom, balance: balance, delta: target[i].Sub(current), weight: target[i]})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].delta.IsNegative() && !changes[j].delta.IsNegative()
	})

	for _, c := range changes {
		if err := k.poolKeeper.Rebind(ctx, bpoolID, c.denom, c.balance, c.weight); err != nil {
			return err
		}
	}
	return nil
}

func joinDecs(decs []math.LegacyDec) string {
	parts := make([]string, len(decs))
	for i, d := range decs {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}
