package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// TotalShares returns the share supply of a pool.
func (k Keeper) TotalShares(ctx context.Context, poolID uint64) math.Int {
	return k.bankKeeper.GetSupply(ctx, types.ShareDenom(poolID)).Amount
}

// GetShares returns the pool shares held by addr.
func (k Keeper) GetShares(ctx context.Context, poolID uint64, addr sdk.AccAddress) math.Int {
	return k.bankKeeper.GetBalance(ctx, addr, types.ShareDenom(poolID)).Amount
}

func (k Keeper) mintShares(ctx context.Context, poolID uint64, to sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(types.ShareDenom(poolID), amount))
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return fmt.Errorf("mint shares: %w", err)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
		return fmt.Errorf("mint shares: %w", err)
	}
	return nil
}

func (k Keeper) burnShares(ctx context.Context, poolID uint64, from sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.requireBalance(ctx, from, types.ShareDenom(poolID), amount); err != nil {
		return err
	}
	coins := sdk.NewCoins(sdk.NewCoin(types.ShareDenom(poolID), amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, coins); err != nil {
		return fmt.Errorf("burn shares: %w", err)
	}
	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, coins); err != nil {
		return fmt.Errorf("burn shares: %w", err)
	}
	return nil
}

// pull moves tokens from an account to the pool's holding account.
func (k Keeper) pull(ctx context.Context, poolID uint64, from sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.requireBalance(ctx, from, denom, amount); err != nil {
		return err
	}
	return k.bankKeeper.SendCoins(ctx, from, types.PoolAddress(poolID), sdk.NewCoins(sdk.NewCoin(denom, amount)))
}

// push moves tokens from the pool's holding account to an account.
func (k Keeper) push(ctx context.Context, poolID uint64, to sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	return k.bankKeeper.SendCoins(ctx, types.PoolAddress(poolID), to, sdk.NewCoins(sdk.NewCoin(denom, amount)))
}

func (k Keeper) requireBalance(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	balance := k.bankKeeper.GetBalance(ctx, addr, denom).Amount
	if balance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s%s, needs %s", addr, balance, denom, amount)
	}
	return nil
}

// mulDiv returns amount·numer/denom, truncated.
func mulDiv(amount math.Int, numer, denom math.LegacyDec) math.Int {
	return amount.ToLegacyDec().Mul(numer).Quo(denom).TruncateInt()
}
