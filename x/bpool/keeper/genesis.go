package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/crp/x/bpool/types"
)

// InitGenesis initializes the bpool module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %d: %w", pool.Id, err)
		}
	}
	if genState.NextPoolId > 0 {
		k.setNextPoolID(ctx, genState.NextPoolId)
	}
	return nil
}

// ExportGenesis returns the bpool module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{
		Pools:      pools,
		NextPoolId: k.getNextPoolID(ctx),
	}, nil
}
