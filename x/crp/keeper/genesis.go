package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crp/x/crp/types"
)

// InitGenesis initializes the crp module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %d: %w", pool.Id, err)
		}
	}
	for _, update := range genState.GradualUpdates {
		if err := k.SetGradualUpdate(ctx, update); err != nil {
			return fmt.Errorf("failed to set schedule for pool %d: %w", update.PoolId, err)
		}
	}
	for _, commitment := range genState.Commitments {
		if err := k.SetNewTokenCommitment(ctx, commitment); err != nil {
			return fmt.Errorf("failed to set commitment for pool %d: %w", commitment.PoolId, err)
		}
	}
	for _, entry := range genState.Whitelist {
		provider, err := sdk.AccAddressFromBech32(entry.Provider)
		if err != nil {
			return fmt.Errorf("invalid whitelist provider %s: %w", entry.Provider, err)
		}
		k.setWhitelisted(ctx, entry.PoolId, provider)
	}
	if genState.NextPoolId > 0 {
		k.setNextPoolID(ctx, genState.NextPoolId)
	}
	return nil
}

// ExportGenesis returns the crp module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesis()
	genesis.Params = k.GetParams(ctx)
	genesis.NextPoolId = k.getNextPoolID(ctx)

	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	genesis.Pools = pools

	err = k.IterateGradualUpdates(ctx, func(update types.GradualUpdate) (bool, error) {
		genesis.GradualUpdates = append(genesis.GradualUpdates, update)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.IterateNewTokenCommitments(ctx, func(commitment types.NewTokenCommitment) (bool, error) {
		genesis.Commitments = append(genesis.Commitments, commitment)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	genesis.Whitelist = k.GetWhitelist(ctx)
	return genesis, nil
}
