package simapp

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
)

// FundAccount mints coins through the mint module account and sends them to
// addr.
func (a *App) FundAccount(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	return banktestutil.FundAccount(ctx, a.BankKeeper, addr, coins)
}

// SetBalance moves the balance of addr in denom to amount by minting the
// difference into it or burning the difference out of it. Supply follows.
// It models out-of-band supply changes such as a rebase.
func (a *App) SetBalance(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	current := a.BankKeeper.GetBalance(ctx, addr, denom).Amount
	switch {
	case amount.GT(current):
		return a.FundAccount(ctx, addr, sdk.NewCoins(sdk.NewCoin(denom, amount.Sub(current))))
	case amount.LT(current):
		coins := sdk.NewCoins(sdk.NewCoin(denom, current.Sub(amount)))
		if err := a.BankKeeper.SendCoinsFromAccountToModule(ctx, addr, minttypes.ModuleName, coins); err != nil {
			return err
		}
		return a.BankKeeper.BurnCoins(ctx, minttypes.ModuleName, coins)
	}
	return nil
}

// Rebase scales the balance of addr in denom by factor, truncating, and
// returns the new balance.
func (a *App) Rebase(ctx context.Context, addr sdk.AccAddress, denom string, factor math.LegacyDec) (math.Int, error) {
	target := factor.MulInt(a.BankKeeper.GetBalance(ctx, addr, denom).Amount).TruncateInt()
	return target, a.SetBalance(ctx, addr, denom, target)
}
