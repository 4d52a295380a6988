package types

import (
	"fmt"
)

// GenesisState is the bpool genesis state.
type GenesisState struct {
	Pools      []Pool `json:"pools"`
	NextPoolId uint64 `json:"next_pool_id"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Pools:      []Pool{},
		NextPoolId: 1,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	seen := make(map[uint64]bool, len(gs.Pools))
	for _, pool := range gs.Pools {
		if pool.Id == 0 {
			return ErrInvalidGenesis.Wrap("pool id cannot be zero")
		}
		if seen[pool.Id] {
			return ErrInvalidGenesis.Wrapf("duplicate pool id %d", pool.Id)
		}
		seen[pool.Id] = true
		if pool.Id >= gs.NextPoolId {
			return ErrInvalidGenesis.Wrapf("pool id %d not below next pool id %d", pool.Id, gs.NextPoolId)
		}
		if err := pool.Validate(); err != nil {
			return fmt.Errorf("invalid pool %d: %w", pool.Id, err)
		}
	}
	return nil
}
