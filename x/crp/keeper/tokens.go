package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	"github.com/paw-chain/crp/x/crp/types"
)

// GetNewTokenCommitment returns the pending token commitment of a pool.
func (k Keeper) GetNewTokenCommitment(ctx context.Context, poolID uint64) (types.NewTokenCommitment, bool, error) {
	bz := k.getStore(ctx).Get(types.GetCommitmentKey(poolID))
	if bz == nil {
		return types.NewTokenCommitment{}, false, nil
	}
	var commitment types.NewTokenCommitment
	if err := json.Unmarshal(bz, &commitment); err != nil {
		return types.NewTokenCommitment{}, false, fmt.Errorf("GetNewTokenCommitment: unmarshal pool %d: %w", poolID, err)
	}
	return commitment, true, nil
}

// SetNewTokenCommitment stores the pending token commitment of a pool.
func (k Keeper) SetNewTokenCommitment(ctx context.Context, commitment types.NewTokenCommitment) error {
	bz, err := json.Marshal(commitment)
	if err != nil {
		return fmt.Errorf("SetNewTokenCommitment: marshal pool %d: %w", commitment.PoolId, err)
	}
	k.getStore(ctx).Set(types.GetCommitmentKey(commitment.PoolId), bz)
	return nil
}

// IterateNewTokenCommitments iterates over all pending commitments.
func (k Keeper) IterateNewTokenCommitments(ctx context.Context, cb func(commitment types.NewTokenCommitment) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.CommitmentKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var commitment types.NewTokenCommitment
		if err := json.Unmarshal(iterator.Value(), &commitment); err != nil {
			return fmt.Errorf("IterateNewTokenCommitments: unmarshal: %w", err)
		}
		stop, err := cb(commitment)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// CommitAddToken announces a token to be added once the pool's time lock has
// elapsed. A new commitment replaces a pending one.
func (k Keeper) CommitAddToken(ctx context.Context, caller sdk.AccAddress, poolID uint64, denom string, balance math.Int, weight math.LegacyDec) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanAddRemoveTokens)
	if err != nil {
		return err
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return types.ErrInvalidToken.Wrap(err.Error())
	}
	if balance.IsNil() || balance.LT(bpooltypes.MinBalance) {
		return types.ErrInvalidAmount.Wrapf("balance %s < %s", balance, bpooltypes.MinBalance)
	}
	if err := types.ValidateWeight(weight); err != nil {
		return err
	}
	if err := k.checkTokenFits(ctx, pool, denom, weight); err != nil {
		return err
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	commitment := types.NewTokenCommitment{
		PoolId:           poolID,
		Denom:            denom,
		Balance:          balance,
		Weight:           weight,
		CommitHeight:     height,
		ApplicableHeight: height + pool.AddTokenTimeLock,
	}

	return k.executeAtomic(ctx, poolID, "commit_add_token", func(ctx sdk.Context) error {
		previous, found, err := k.GetNewTokenCommitment(ctx, poolID)
		if err != nil {
			return err
		}
		if found {
			ctx.EventManager().EmitEvent(
				sdk.NewEvent(
					types.EventTypeCommitmentSuperseded,
					sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
					sdk.NewAttribute(types.AttributeKeyDenom, previous.Denom),
					sdk.NewAttribute(types.AttributeKeyApplicableHeight, fmt.Sprintf("%d", previous.ApplicableHeight)),
				),
			)
		}
		if err := k.SetNewTokenCommitment(ctx, commitment); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeTokenCommitted,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyDenom, denom),
				sdk.NewAttribute(types.AttributeKeyBalance, balance.String()),
				sdk.NewAttribute(types.AttributeKeyWeight, weight.String()),
				sdk.NewAttribute(types.AttributeKeyApplicableHeight, fmt.Sprintf("%d", commitment.ApplicableHeight)),
			),
		)
		return nil
	})
}

// ApplyAddToken binds the committed token, pulling its balance from the
// controller and minting supply·w/W shares to it.
func (k Keeper) ApplyAddToken(ctx context.Context, caller sdk.AccAddress, poolID uint64) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanAddRemoveTokens)
	if err != nil {
		return err
	}
	commitment, found, err := k.GetNewTokenCommitment(ctx, poolID)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrNoPendingCommitment.Wrapf("pool %d", poolID)
	}
	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	if !commitment.IsApplicable(height) {
		return types.ErrTimelockNotElapsed.Wrapf("height %d < %d", height, commitment.ApplicableHeight)
	}
	if err := k.requireNoGradualUpdate(ctx, poolID); err != nil {
		return err
	}
	if err := k.checkTokenFits(ctx, pool, commitment.Denom, commitment.Weight); err != nil {
		return err
	}
	if err := k.requireBalance(ctx, caller, commitment.Denom, commitment.Balance); err != nil {
		return err
	}

	return k.executeAtomic(ctx, poolID, "apply_add_token", func(ctx sdk.Context) error {
		k.getStore(ctx).Delete(types.GetCommitmentKey(poolID))

		totalWeight, err := k.poolKeeper.GetTotalDenormalizedWeight(ctx, pool.BPoolId)
		if err != nil {
			return err
		}
		deltaShares := mulDiv(k.TotalShares(ctx, poolID), commitment.Weight, totalWeight)

		if err := k.pull(ctx, poolID, caller, commitment.Denom, commitment.Balance); err != nil {
			return err
		}
		if err := k.poolKeeper.Bind(ctx, pool.BPoolId, commitment.Denom, commitment.Balance, commitment.Weight); err != nil {
			return err
		}
		if err := k.mintShares(ctx, poolID, caller, deltaShares); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeTokenAdded,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyDenom, commitment.Denom),
				sdk.NewAttribute(types.AttributeKeyBalance, commitment.Balance.String()),
				sdk.NewAttribute(types.AttributeKeyWeight, commitment.Weight.String()),
				sdk.NewAttribute(types.AttributeKeyShares, deltaShares.String()),
			),
		)
		k.Logger(ctx).Info("token added", "pool_id", poolID, "denom", commitment.Denom, "shares", deltaShares.String())
		return nil
	})
}

// RemoveToken unbinds a token, returns its balance to the controller and
// burns supply·w/W of the controller's shares.
func (k Keeper) RemoveToken(ctx context.Context, caller sdk.AccAddress, poolID uint64, denom string) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanAddRemoveTokens)
	if err != nil {
		return err
	}
	if err := k.requireNoGradualUpdate(ctx, poolID); err != nil {
		return err
	}
	if !k.poolKeeper.IsBound(ctx, pool.BPoolId, denom) {
		return types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}
	tokens, err := k.poolKeeper.GetCurrentTokens(ctx, pool.BPoolId)
	if err != nil {
		return err
	}
	if len(tokens) <= bpooltypes.MinBoundTokens {
		return types.ErrMinTokens.Wrapf("pool %d holds %d tokens", poolID, len(tokens))
	}

	return k.executeAtomic(ctx, poolID, "remove_token", func(ctx sdk.Context) error {
		totalWeight, err := k.poolKeeper.GetTotalDenormalizedWeight(ctx, pool.BPoolId)
		if err != nil {
			return err
		}
		weight, err := k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}
		balance, err := k.poolKeeper.GetBalance(ctx, pool.BPoolId, denom)
		if err != nil {
			return err
		}
		deltaShares := mulDiv(k.TotalShares(ctx, poolID), weight, totalWeight)
		if err := k.requireBalance(ctx, caller, types.ShareDenom(poolID), deltaShares); err != nil {
			return err
		}

		if err := k.poolKeeper.Unbind(ctx, pool.BPoolId, denom); err != nil {
			return err
		}
		if err := k.push(ctx, poolID, caller, denom, balance); err != nil {
			return err
		}
		if err := k.burnShares(ctx, poolID, caller, deltaShares); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeTokenRemoved,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyDenom, denom),
				sdk.NewAttribute(types.AttributeKeyBalance, balance.String()),
				sdk.NewAttribute(types.AttributeKeyShares, deltaShares.String()),
			),
		)
		k.Logger(ctx).Info("token removed", "pool_id", poolID, "denom", denom, "shares", deltaShares.String())
		return nil
	})
}

// checkTokenFits fails unless denom can join the pool at weight.
func (k Keeper) checkTokenFits(ctx context.Context, pool types.ConfigurableRightsPool, denom string, weight math.LegacyDec) error {
	if k.poolKeeper.IsBound(ctx, pool.BPoolId, denom) {
		return types.ErrAlreadyBound.Wrapf("%s in pool %d", denom, pool.Id)
	}
	totalWeight, err := k.poolKeeper.GetTotalDenormalizedWeight(ctx, pool.BPoolId)
	if err != nil {
		return err
	}
	if err := types.ValidateTotalWeight(totalWeight.Add(weight)); err != nil {
		return err
	}
	tokens, err := k.poolKeeper.GetCurrentTokens(ctx, pool.BPoolId)
	if err != nil {
		return err
	}
	if len(tokens) >= bpooltypes.MaxBoundTokens {
		return types.ErrMaxTokens.Wrapf("pool %d holds %d tokens", pool.Id, len(tokens))
	}
	return nil
}
