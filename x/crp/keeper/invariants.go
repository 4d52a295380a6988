package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// RegisterInvariants registers all crp invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "weight-bounds", WeightBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "share-supply", ShareSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "schedule-tokens", ScheduleTokensInvariant(k))
}

// AllInvariants runs all invariants of the crp module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := WeightBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ShareSupplyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return ScheduleTokensInvariant(k)(ctx)
	}
}

// WeightBoundsInvariant checks every bound weight and every total weight of
// created pools against the pool bounds.
func WeightBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "weight-bounds", err.Error()), true
		}
		for _, pool := range pools {
			if !pool.IsCreated() {
				continue
			}
			tokens, weights, err := k.GetCurrentWeights(ctx, pool.Id)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %d: %s\n", pool.Id, err)
				continue
			}
			total := math.LegacyZeroDec()
			for i, w := range weights {
				if err := types.ValidateWeight(w); err != nil {
					count++
					msg += fmt.Sprintf("pool %d: %s: %s\n", pool.Id, tokens[i], err)
				}
				total = total.Add(w)
			}
			if err := types.ValidateTotalWeight(total); err != nil {
				count++
				msg += fmt.Sprintf("pool %d: %s\n", pool.Id, err)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "weight-bounds",
			fmt.Sprintf("found %d weight bound violations\n%s", count, msg),
		), broken
	}
}

// ShareSupplyInvariant checks that every created pool has a positive share
// supply.
func ShareSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "share-supply", err.Error()), true
		}
		for _, pool := range pools {
			if pool.IsCreated() && !k.TotalShares(ctx, pool.Id).IsPositive() {
				count++
				msg += fmt.Sprintf("pool %d: share supply is zero\n", pool.Id)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-supply",
			fmt.Sprintf("found %d pools without shares\n%s", count, msg),
		), broken
	}
}

// ScheduleTokensInvariant checks that an active schedule covers exactly the
// bound tokens of its pool.
func ScheduleTokensInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IterateGradualUpdates(ctx, func(update types.GradualUpdate) (bool, error) {
			tokens, _, err := k.GetCurrentWeights(ctx, update.PoolId)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %d: %s\n", update.PoolId, err)
				return false, nil
			}
			if len(tokens) != len(update.Tokens) {
				count++
				msg += fmt.Sprintf("pool %d: schedule has %d tokens, pool has %d\n", update.PoolId, len(update.Tokens), len(tokens))
				return false, nil
			}
			for i := range tokens {
				if tokens[i] != update.Tokens[i] {
					count++
					msg += fmt.Sprintf("pool %d: schedule token %s, pool token %s\n", update.PoolId, update.Tokens[i], tokens[i])
				}
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "schedule-tokens", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "schedule-tokens",
			fmt.Sprintf("found %d schedule mismatches\n%s", count, msg),
		), broken
	}
}
