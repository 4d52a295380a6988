package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	"github.com/paw-chain/crp/x/crp/types"
)

// GetPool returns a pool by ID
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.ConfigurableRightsPool, error) {
	bz := k.getStore(ctx).Get(types.GetPoolKey(poolID))
	if bz == nil {
		return types.ConfigurableRightsPool{}, types.ErrPoolNotFound.Wrapf("pool %d", poolID)
	}

	var pool types.ConfigurableRightsPool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.ConfigurableRightsPool{}, fmt.Errorf("GetPool: unmarshal pool %d: %w", poolID, err)
	}
	return pool, nil
}

// SetPool stores a pool
func (k Keeper) SetPool(ctx context.Context, pool types.ConfigurableRightsPool) error {
	bz, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal pool %d: %w", pool.Id, err)
	}
	k.getStore(ctx).Set(types.GetPoolKey(pool.Id), bz)
	return nil
}

// IteratePools iterates over all pools
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.ConfigurableRightsPool) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.ConfigurableRightsPool
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
func (k Keeper) GetAllPools(ctx context.Context) ([]types.ConfigurableRightsPool, error) {
	pools := []types.ConfigurableRightsPool{}
	err := k.IteratePools(ctx, func(pool types.ConfigurableRightsPool) (bool, error) {
		pools = append(pools, pool)
		return false, nil
	})
	return pools, err
}

// NewPool registers a pool with its immutable rights and initial tokens. The
// caller becomes the controller. Nothing is bound until CreatePool.
func (k Keeper) NewPool(ctx context.Context, creator sdk.AccAddress, config types.PoolConfig) (uint64, error) {
	if creator.Empty() {
		return 0, types.ErrInvalidAddress.Wrap("creator cannot be empty")
	}
	if err := config.Validate(); err != nil {
		return 0, err
	}

	params := k.GetParams(ctx)
	poolID := k.getNextPoolID(ctx)
	if params.MaxPools > 0 && poolID > params.MaxPools {
		return 0, types.ErrMaxPools.Wrapf("limit %d", params.MaxPools)
	}

	pool := types.ConfigurableRightsPool{
		Id:         poolID,
		Controller: creator.String(),
		PoolConfig: config,
	}
	if err := k.SetPool(ctx, pool); err != nil {
		return 0, fmt.Errorf("NewPool: %w", err)
	}
	k.setNextPoolID(ctx, poolID+1)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolRegistered,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyController, pool.Controller),
			sdk.NewAttribute(types.AttributeKeyRights, config.Rights.String()),
		),
	)
	return poolID, nil
}

// CreatePool pulls the initial balances from the controller, binds them into
// a new underlying pool with public swap enabled and mints initialSupply
// shares to the controller.
func (k Keeper) CreatePool(ctx context.Context, caller sdk.AccAddress, poolID uint64, initialSupply math.Int) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if err := authorize(pool, caller, types.NoRights); err != nil {
		return err
	}
	if pool.IsCreated() {
		return types.ErrPoolAlreadyCreated.Wrapf("pool %d uses bpool %d", poolID, pool.BPoolId)
	}
	if initialSupply.IsNil() || !initialSupply.IsPositive() {
		return types.ErrInvalidInitialSupply.Wrapf("%s", initialSupply)
	}
	for _, token := range pool.Tokens {
		if err := k.requireBalance(ctx, caller, token.Denom, token.Balance); err != nil {
			return err
		}
	}

	return k.executeAtomic(ctx, poolID, "create_pool", func(ctx sdk.Context) error {
		for _, token := range pool.Tokens {
			if err := k.pull(ctx, poolID, caller, token.Denom, token.Balance); err != nil {
				return fmt.Errorf("CreatePool: pull %s: %w", token.Denom, err)
			}
		}

		bpoolID, err := k.poolKeeper.CreatePool(ctx, types.PoolAddress(poolID))
		if err != nil {
			return fmt.Errorf("CreatePool: %w", err)
		}
		pool.BPoolId = bpoolID
		pool.CreatedHeight = ctx.BlockHeight()
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := k.poolKeeper.SetSwapFee(ctx, bpoolID, pool.SwapFee); err != nil {
			return err
		}
		for _, token := range pool.Tokens {
			if err := k.poolKeeper.Bind(ctx, bpoolID, token.Denom, token.Balance, token.Weight); err != nil {
				return fmt.Errorf("CreatePool: bind %s: %w", token.Denom, err)
			}
		}
		if err := k.poolKeeper.SetPublicSwap(ctx, bpoolID, true); err != nil {
			return err
		}
		if err := k.mintShares(ctx, poolID, caller, initialSupply); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePoolCreated,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyBPoolID, fmt.Sprintf("%d", bpoolID)),
				sdk.NewAttribute(types.AttributeKeyShares, initialSupply.String()),
			),
		)
		k.metrics.PoolsCreated.Inc()
		k.Logger(ctx).Info("pool created", "pool_id", poolID, "bpool_id", bpoolID, "tokens", len(pool.Tokens))
		return nil
	})
}

// SetController hands control of the pool to another account.
func (k Keeper) SetController(ctx context.Context, caller sdk.AccAddress, poolID uint64, newController sdk.AccAddress) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if err := authorize(pool, caller, types.NoRights); err != nil {
		return err
	}
	if newController.Empty() {
		return types.ErrInvalidAddress.Wrap("new controller cannot be empty")
	}

	return k.executeAtomic(ctx, poolID, "set_controller", func(ctx sdk.Context) error {
		pool.Controller = newController.String()
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeControllerChanged,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyCaller, caller.String()),
				sdk.NewAttribute(types.AttributeKeyController, pool.Controller),
			),
		)
		return nil
	})
}

// SetSwapFee forwards a new swap fee to the underlying pool.
func (k Keeper) SetSwapFee(ctx context.Context, caller sdk.AccAddress, poolID uint64, fee math.LegacyDec) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanChangeSwapFee)
	if err != nil {
		return err
	}
	if fee.IsNil() || fee.LT(bpooltypes.MinFee) || fee.GT(bpooltypes.MaxFee) {
		return types.ErrInvalidSwapFee.Wrapf("fee %s outside [%s, %s]", fee, bpooltypes.MinFee, bpooltypes.MaxFee)
	}

	return k.executeAtomic(ctx, poolID, "set_swap_fee", func(ctx sdk.Context) error {
		if err := k.poolKeeper.SetSwapFee(ctx, pool.BPoolId, fee); err != nil {
			return err
		}
		pool.SwapFee = fee
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwapFeeChanged,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeySwapFee, fee.String()),
			),
		)
		return nil
	})
}

// SetPublicSwap pauses or resumes swaps on the underlying pool.
func (k Keeper) SetPublicSwap(ctx context.Context, caller sdk.AccAddress, poolID uint64, enabled bool) error {
	pool, err := k.getCreatedPool(ctx, caller, poolID, types.CanPauseSwap)
	if err != nil {
		return err
	}

	return k.executeAtomic(ctx, poolID, "set_public_swap", func(ctx sdk.Context) error {
		if err := k.poolKeeper.SetPublicSwap(ctx, pool.BPoolId, enabled); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePublicSwapChanged,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyPublicSwap, fmt.Sprintf("%t", enabled)),
			),
		)
		return nil
	})
}

// authorize checks the controller first, then the required right.
func authorize(pool types.ConfigurableRightsPool, caller sdk.AccAddress, right types.Rights) error {
	if caller.String() != pool.Controller {
		return types.ErrNotController.Wrapf("%s is not the controller of pool %d", caller, pool.Id)
	}
	return pool.Rights.Require(right)
}

// getCreatedPool loads a pool and checks controller, right and creation, in
// that order.
func (k Keeper) getCreatedPool(ctx context.Context, caller sdk.AccAddress, poolID uint64, right types.Rights) (types.ConfigurableRightsPool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return pool, err
	}
	if err := authorize(pool, caller, right); err != nil {
		return pool, err
	}
	if !pool.IsCreated() {
		return pool, types.ErrPoolNotCreated.Wrapf("pool %d", poolID)
	}
	return pool, nil
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
