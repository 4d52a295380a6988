package keeper

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// JoinPool mints poolAmountOut shares to provider in exchange for the same
// fraction of every reserve, rounded up. It returns the amounts taken.
func (k Keeper) JoinPool(ctx context.Context, provider sdk.AccAddress, poolID uint64, poolAmountOut math.Int, maxAmountsIn []math.Int) ([]math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if !pool.IsCreated() {
		return nil, types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	if !k.CanProvideLiquidity(ctx, poolID, provider) {
		return nil, types.ErrNotWhitelisted.Wrapf("%s in pool %d", provider, poolID)
	}
	if poolAmountOut.IsNil() || !poolAmountOut.IsPositive() {
		return nil, types.ErrInvalidAmount.Wrap("pool amount out must be positive")
	}
	tokens, err := k.poolKeeper.GetCurrentTokens(ctx, pool.BPoolId)
	if err != nil {
		return nil, err
	}
	if len(maxAmountsIn) != len(tokens) {
		return nil, types.ErrInvalidAmount.Wrapf("%d limits for %d tokens", len(maxAmountsIn), len(tokens))
	}

	amountsIn := make([]math.Int, len(tokens))
	err = k.executeAtomic(ctx, poolID, "join_pool", func(ctx sdk.Context) error {
		ratio := poolAmountOut.ToLegacyDec().Quo(k.TotalShares(ctx, poolID).ToLegacyDec())
		for i, denom := range tokens {
			balance, err := k.poolKeeper.GetBalance(ctx, pool.BPoolId, denom)
			if err != nil {
				return err
			}
			weight, err := k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom)
			if err != nil {
				return err
			}
			amountIn := ratio.MulInt(balance).Ceil().TruncateInt()
			if !amountIn.IsPositive() {
				return types.ErrInvalidAmount.Wrapf("%s amount in rounds to zero", denom)
			}
			if amountIn.GT(maxAmountsIn[i]) {
				return types.ErrLimitIn.Wrapf("%s%s > %s", amountIn, denom, maxAmountsIn[i])
			}
			if err := k.pull(ctx, poolID, provider, denom, amountIn); err != nil {
				return err
			}
			if err := k.poolKeeper.Rebind(ctx, pool.BPoolId, denom, balance.Add(amountIn), weight); err != nil {
				return err
			}
			amountsIn[i] = amountIn
		}
		if err := k.mintShares(ctx, poolID, provider, poolAmountOut); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeJoinPool,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyShares, poolAmountOut.String()),
				sdk.NewAttribute(types.AttributeKeyAmounts, joinInts(amountsIn)),
			),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amountsIn, nil
}

// ExitPool burns poolAmountIn of provider's shares and pays out the same
// fraction of every reserve, rounded down. It returns the amounts paid.
func (k Keeper) ExitPool(ctx context.Context, provider sdk.AccAddress, poolID uint64, poolAmountIn math.Int, minAmountsOut []math.Int) ([]math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if !pool.IsCreated() {
		return nil, types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	if poolAmountIn.IsNil() || !poolAmountIn.IsPositive() {
		return nil, types.ErrInvalidAmount.Wrap("pool amount in must be positive")
	}
	if err := k.requireBalance(ctx, provider, types.ShareDenom(poolID), poolAmountIn); err != nil {
		return nil, err
	}
	tokens, err := k.poolKeeper.GetCurrentTokens(ctx, pool.BPoolId)
	if err != nil {
		return nil, err
	}
	if len(minAmountsOut) != len(tokens) {
		return nil, types.ErrInvalidAmount.Wrapf("%d limits for %d tokens", len(minAmountsOut), len(tokens))
	}

	amountsOut := make([]math.Int, len(tokens))
	err = k.executeAtomic(ctx, poolID, "exit_pool", func(ctx sdk.Context) error {
		ratio := poolAmountIn.ToLegacyDec().Quo(k.TotalShares(ctx, poolID).ToLegacyDec())
		if err := k.burnShares(ctx, poolID, provider, poolAmountIn); err != nil {
			return err
		}
		for i, denom := range tokens {
			balance, err := k.poolKeeper.GetBalance(ctx, pool.BPoolId, denom)
			if err != nil {
				return err
			}
			weight, err := k.poolKeeper.GetDenormalizedWeight(ctx, pool.BPoolId, denom)
			if err != nil {
				return err
			}
			amountOut := ratio.MulInt(balance).TruncateInt()
			if !amountOut.IsPositive() {
				return types.ErrInvalidAmount.Wrapf("%s amount out rounds to zero", denom)
			}
			if amountOut.LT(minAmountsOut[i]) {
				return types.ErrLimitOut.Wrapf("%s%s < %s", amountOut, denom, minAmountsOut[i])
			}
			if err := k.poolKeeper.Rebind(ctx, pool.BPoolId, denom, balance.Sub(amountOut), weight); err != nil {
				return err
			}
			if err := k.push(ctx, poolID, provider, denom, amountOut); err != nil {
				return err
			}
			amountsOut[i] = amountOut
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeExitPool,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyShares, poolAmountIn.String()),
				sdk.NewAttribute(types.AttributeKeyAmounts, joinInts(amountsOut)),
			),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amountsOut, nil
}

func joinInts(ints []math.Int) string {
	parts := make([]string, len(ints))
	for i, n := range ints {
		parts[i] = n.String()
	}
	return strings.Join(parts, ",")
}
