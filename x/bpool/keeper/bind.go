package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/bpool/types"
)

// Bind adds denom to the pool with the given reserve and weight. The reserve
// is pulled from the controller.
func (k Keeper) Bind(ctx context.Context, poolID uint64, denom string, balance math.Int, weight math.LegacyDec) error {
	if err := sdk.ValidateDenom(denom); err != nil {
		return types.ErrInvalidDenom.Wrap(err.Error())
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if _, found := pool.FindRecord(denom); found {
		return types.ErrIsBound.Wrapf("%s in pool %d", denom, poolID)
	}
	if len(pool.Records) >= types.MaxBoundTokens {
		return types.ErrMaxTokens.Wrapf("pool %d already holds %d tokens", poolID, len(pool.Records))
	}

	pool.Records = append(pool.Records, types.Record{
		Denom:        denom,
		Balance:      math.ZeroInt(),
		DenormWeight: math.LegacyZeroDec(),
	})
	if err := k.rebind(ctx, &pool, len(pool.Records)-1, balance, weight); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBind,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyBalance, balance.String()),
			sdk.NewAttribute(types.AttributeKeyWeight, weight.String()),
		),
	)
	return k.afterReservesChanged(ctx, poolID, denom)
}

// Rebind sets the reserve and weight of a bound token. A higher reserve is
// pulled from the controller, a lower one is pushed back to it.
func (k Keeper) Rebind(ctx context.Context, poolID uint64, denom string, balance math.Int, weight math.LegacyDec) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	i, found := pool.FindRecord(denom)
	if !found {
		return types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}
	if err := k.rebind(ctx, &pool, i, balance, weight); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRebind,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyBalance, balance.String()),
			sdk.NewAttribute(types.AttributeKeyWeight, weight.String()),
		),
	)
	return k.afterReservesChanged(ctx, poolID, denom)
}

func (k Keeper) rebind(ctx context.Context, pool *types.Pool, i int, balance math.Int, weight math.LegacyDec) error {
	if err := types.ValidateWeight(weight); err != nil {
		return err
	}
	if balance.IsNil() || balance.LT(types.MinBalance) {
		return types.ErrMinBalance.Wrapf("%s balance %s < %s", pool.Records[i].Denom, balance, types.MinBalance)
	}

	rec := pool.Records[i]
	newTotal := pool.TotalWeight.Sub(rec.DenormWeight).Add(weight)
	if newTotal.GT(types.MaxTotalWeight) {
		return types.ErrMaxTotalWeight.Wrapf("total weight %s > %s", newTotal, types.MaxTotalWeight)
	}

	controller, err := sdk.AccAddressFromBech32(pool.Controller)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("pool %d controller: %s", pool.Id, err)
	}
	poolAddr := types.PoolAddress(pool.Id)
	switch {
	case balance.GT(rec.Balance):
		if err := k.transfer(ctx, controller, poolAddr, rec.Denom, balance.Sub(rec.Balance)); err != nil {
			return err
		}
	case balance.LT(rec.Balance):
		if err := k.transfer(ctx, poolAddr, controller, rec.Denom, rec.Balance.Sub(balance)); err != nil {
			return err
		}
	}

	rec.Balance = balance
	rec.DenormWeight = weight
	pool.Records[i] = rec
	pool.TotalWeight = newTotal
	return k.SetPool(ctx, *pool)
}

// Unbind removes denom from the pool and returns its whole reserve to the
// controller. The remaining records keep their order.
func (k Keeper) Unbind(ctx context.Context, poolID uint64, denom string) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	i, found := pool.FindRecord(denom)
	if !found {
		return types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}
	controller, err := sdk.AccAddressFromBech32(pool.Controller)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("pool %d controller: %s", poolID, err)
	}

	rec := pool.Records[i]
	if err := k.transfer(ctx, types.PoolAddress(poolID), controller, denom, rec.Balance); err != nil {
		return err
	}
	pool.TotalWeight = pool.TotalWeight.Sub(rec.DenormWeight)
	pool.Records = append(pool.Records[:i], pool.Records[i+1:]...)
	if err := k.SetPool(ctx, pool); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnbind,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyBalance, rec.Balance.String()),
		),
	)
	return k.afterReservesChanged(ctx, poolID, denom)
}

// Gulp absorbs the actual balance of the pool account into the recorded
// reserve. Anyone may gulp.
func (k Keeper) Gulp(ctx context.Context, poolID uint64, denom string) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	i, found := pool.FindRecord(denom)
	if !found {
		return types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}

	actual := k.bankKeeper.GetBalance(ctx, types.PoolAddress(poolID), denom).Amount
	pool.Records[i].Balance = actual
	if err := k.SetPool(ctx, pool); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGulp,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyBalance, actual.String()),
		),
	)
	return nil
}

// SetSwapFee sets the pool swap fee.
func (k Keeper) SetSwapFee(ctx context.Context, poolID uint64, fee math.LegacyDec) error {
	if err := types.ValidateSwapFee(fee); err != nil {
		return err
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	pool.SwapFee = fee
	if err := k.SetPool(ctx, pool); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwapFee,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeySwapFee, fee.String()),
		),
	)
	return nil
}

// SetPublicSwap enables or disables swaps on the pool.
func (k Keeper) SetPublicSwap(ctx context.Context, poolID uint64, enabled bool) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	pool.PublicSwap = enabled
	if err := k.SetPool(ctx, pool); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePublicSwap,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyPublicSwap, fmt.Sprintf("%t", enabled)),
		),
	)
	return nil
}

func (k Keeper) transfer(ctx context.Context, from, to sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.bankKeeper.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(denom, amount))); err != nil {
		return errorsmod.Wrapf(err, "transfer %s%s to %s", amount, denom, to)
	}
	return nil
}
