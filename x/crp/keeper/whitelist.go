package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// WhitelistLiquidityProvider allows provider to join a whitelisting pool.
func (k Keeper) WhitelistLiquidityProvider(ctx context.Context, caller sdk.AccAddress, poolID uint64, provider sdk.AccAddress) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if err := authorize(pool, caller, types.CanWhitelistLPs); err != nil {
		return err
	}
	if provider.Empty() {
		return types.ErrInvalidAddress.Wrap("provider cannot be empty")
	}

	return k.executeAtomic(ctx, poolID, "whitelist_add", func(ctx sdk.Context) error {
		k.setWhitelisted(ctx, poolID, provider)
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWhitelistAdded,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			),
		)
		return nil
	})
}

// RemoveWhitelistedLiquidityProvider revokes a provider's permission to join.
func (k Keeper) RemoveWhitelistedLiquidityProvider(ctx context.Context, caller sdk.AccAddress, poolID uint64, provider sdk.AccAddress) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if err := authorize(pool, caller, types.CanWhitelistLPs); err != nil {
		return err
	}
	if !k.isWhitelisted(ctx, poolID, provider) {
		return types.ErrNotWhitelisted.Wrapf("%s in pool %d", provider, poolID)
	}

	return k.executeAtomic(ctx, poolID, "whitelist_remove", func(ctx sdk.Context) error {
		k.getStore(ctx).Delete(types.GetWhitelistKey(poolID, provider))
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWhitelistRemoved,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			),
		)
		return nil
	})
}

// CanProvideLiquidity reports whether provider may join the pool. Pools
// without the whitelist right are open; otherwise only whitelisted accounts
// and the controller may join.
func (k Keeper) CanProvideLiquidity(ctx context.Context, poolID uint64, provider sdk.AccAddress) bool {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return false
	}
	if !pool.Rights.Has(types.CanWhitelistLPs) {
		return true
	}
	return provider.String() == pool.Controller || k.isWhitelisted(ctx, poolID, provider)
}

func (k Keeper) isWhitelisted(ctx context.Context, poolID uint64, provider sdk.AccAddress) bool {
	return k.getStore(ctx).Has(types.GetWhitelistKey(poolID, provider))
}

// GetWhitelist returns every whitelist entry of every pool.
func (k Keeper) GetWhitelist(ctx context.Context) []types.WhitelistEntry {
	entries := []types.WhitelistEntry{}
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.WhitelistKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(types.WhitelistKey):]
		poolID := sdk.BigEndianToUint64(key[:8])
		provider := sdk.AccAddress(key[9 : 9+int(key[8])])
		entries = append(entries, types.WhitelistEntry{PoolId: poolID, Provider: provider.String()})
	}
	return entries
}

func (k Keeper) setWhitelisted(ctx context.Context, poolID uint64, provider sdk.AccAddress) {
	k.getStore(ctx).Set(types.GetWhitelistKey(poolID, provider), []byte{0x01})
}
