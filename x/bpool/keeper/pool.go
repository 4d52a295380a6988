package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/bpool/types"
)

// CreatePool creates an empty pool controlled by controller. Public swap
// starts disabled and the swap fee starts at the minimum.
func (k Keeper) CreatePool(ctx context.Context, controller sdk.AccAddress) (uint64, error) {
	if controller.Empty() {
		return 0, types.ErrInvalidAddress.Wrap("controller cannot be empty")
	}

	poolID := k.getNextPoolID(ctx)
	pool := types.NewPool(poolID, controller)
	if err := k.SetPool(ctx, pool); err != nil {
		return 0, fmt.Errorf("CreatePool: %w", err)
	}
	k.setNextPoolID(ctx, poolID+1)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyController, pool.Controller),
		),
	)
	return poolID, nil
}

// GetPool returns a pool by ID
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.Pool, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetPoolKey(poolID))
	if bz == nil {
		return types.Pool{}, types.ErrPoolNotFound.Wrapf("pool %d", poolID)
	}

	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, fmt.Errorf("GetPool: unmarshal pool %d: %w", poolID, err)
	}
	return pool, nil
}

// SetPool stores a pool
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	bz, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal pool %d: %w", pool.Id, err)
	}
	k.getStore(ctx).Set(types.GetPoolKey(pool.Id), bz)
	return nil
}

// IteratePools iterates over all pools
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool, err error)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.PoolKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return fmt.Errorf("IteratePools: unmarshal: %w", err)
		}
		stop, err := cb(pool)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// GetAllPools returns all pools
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	pools := []types.Pool{}
	err := k.IteratePools(ctx, func(pool types.Pool) (bool, error) {
		pools = append(pools, pool)
		return false, nil
	})
	return pools, err
}

// GetPoolAddress returns the reserve account of a pool.
func (k Keeper) GetPoolAddress(poolID uint64) sdk.AccAddress {
	return types.PoolAddress(poolID)
}

// IsBound reports whether denom is bound in the pool.
func (k Keeper) IsBound(ctx context.Context, poolID uint64, denom string) bool {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return false
	}
	_, found := pool.FindRecord(denom)
	return found
}

// GetCurrentTokens returns the bound denoms in bind order.
func (k Keeper) GetCurrentTokens(ctx context.Context, poolID uint64) ([]string, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return pool.Tokens(), nil
}

// GetDenormalizedWeight returns the weight of a bound token.
func (k Keeper) GetDenormalizedWeight(ctx context.Context, poolID uint64, denom string) (math.LegacyDec, error) {
	rec, err := k.getRecord(ctx, poolID, denom)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return rec.DenormWeight, nil
}

// GetNormalizedWeight returns the weight of a bound token over the total weight.
func (k Keeper) GetNormalizedWeight(ctx context.Context, poolID uint64, denom string) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	i, found := pool.FindRecord(denom)
	if !found {
		return math.LegacyDec{}, types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}
	return pool.Records[i].DenormWeight.Quo(pool.TotalWeight), nil
}

// GetTotalDenormalizedWeight returns the sum of the bound token weights.
func (k Keeper) GetTotalDenormalizedWeight(ctx context.Context, poolID uint64) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return pool.TotalWeight, nil
}

// GetBalance returns the recorded reserve of a bound token. The recorded
// reserve only moves through pool operations and Gulp.
func (k Keeper) GetBalance(ctx context.Context, poolID uint64, denom string) (math.Int, error) {
	rec, err := k.getRecord(ctx, poolID, denom)
	if err != nil {
		return math.Int{}, err
	}
	return rec.Balance, nil
}

// GetSwapFee returns the pool swap fee.
func (k Keeper) GetSwapFee(ctx context.Context, poolID uint64) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return pool.SwapFee, nil
}

// IsPublicSwap reports whether swaps are enabled on the pool.
func (k Keeper) IsPublicSwap(ctx context.Context, poolID uint64) (bool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return false, err
	}
	return pool.PublicSwap, nil
}

// GetSpotPrice returns the price of tokenOut in units of tokenIn, fee
// included: (bIn/wIn) / (bOut/wOut) / (1 - fee).
func (k Keeper) GetSpotPrice(ctx context.Context, poolID uint64, tokenIn, tokenOut string) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	price, err := spotPriceSansFee(pool, tokenIn, tokenOut)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return price.Quo(math.LegacyOneDec().Sub(pool.SwapFee)), nil
}

// GetSpotPriceSansFee returns the marginal price of tokenOut in units of
// tokenIn ignoring the swap fee.
func (k Keeper) GetSpotPriceSansFee(ctx context.Context, poolID uint64, tokenIn, tokenOut string) (math.LegacyDec, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return spotPriceSansFee(pool, tokenIn, tokenOut)
}

func spotPriceSansFee(pool types.Pool, tokenIn, tokenOut string) (math.LegacyDec, error) {
	in, found := pool.FindRecord(tokenIn)
	if !found {
		return math.LegacyDec{}, types.ErrNotBound.Wrapf("%s in pool %d", tokenIn, pool.Id)
	}
	out, found := pool.FindRecord(tokenOut)
	if !found {
		return math.LegacyDec{}, types.ErrNotBound.Wrapf("%s in pool %d", tokenOut, pool.Id)
	}
	recIn, recOut := pool.Records[in], pool.Records[out]
	numer := recIn.Balance.ToLegacyDec().Quo(recIn.DenormWeight)
	denom := recOut.Balance.ToLegacyDec().Quo(recOut.DenormWeight)
	return numer.Quo(denom), nil
}

func (k Keeper) getRecord(ctx context.Context, poolID uint64, denom string) (types.Record, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.Record{}, err
	}
	i, found := pool.FindRecord(denom)
	if !found {
		return types.Record{}, types.ErrNotBound.Wrapf("%s in pool %d", denom, poolID)
	}
	return pool.Records[i], nil
}

func (k Keeper) getNextPoolID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.PoolCountKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setNextPoolID(ctx context.Context, poolID uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, poolID)
	k.getStore(ctx).Set(types.PoolCountKey, bz)
}
