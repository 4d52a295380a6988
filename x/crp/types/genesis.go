package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// WhitelistEntry is a liquidity provider allowed to join a pool.
type WhitelistEntry struct {
	PoolId   uint64 `json:"pool_id"`
	Provider string `json:"provider"`
}

// GenesisState is the crp genesis state.
type GenesisState struct {
	Params         Params                   `json:"params"`
	Pools          []ConfigurableRightsPool `json:"pools"`
	GradualUpdates []GradualUpdate          `json:"gradual_updates"`
	Commitments    []NewTokenCommitment     `json:"commitments"`
	Whitelist      []WhitelistEntry         `json:"whitelist"`
	NextPoolId     uint64                   `json:"next_pool_id"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:         DefaultParams(),
		Pools:          []ConfigurableRightsPool{},
		GradualUpdates: []GradualUpdate{},
		Commitments:    []NewTokenCommitment{},
		Whitelist:      []WhitelistEntry{},
		NextPoolId:     1,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	pools := make(map[uint64]ConfigurableRightsPool, len(gs.Pools))
	for _, pool := range gs.Pools {
		if _, dup := pools[pool.Id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pool id %d", pool.Id)
		}
		if pool.Id >= gs.NextPoolId {
			return ErrInvalidGenesis.Wrapf("pool id %d not below next pool id %d", pool.Id, gs.NextPoolId)
		}
		if err := pool.Validate(); err != nil {
			return fmt.Errorf("invalid pool %d: %w", pool.Id, err)
		}
		pools[pool.Id] = pool
	}

	scheduled := make(map[uint64]bool, len(gs.GradualUpdates))
	for _, update := range gs.GradualUpdates {
		pool, found := pools[update.PoolId]
		if !found || !pool.IsCreated() {
			return ErrInvalidGenesis.Wrapf("schedule for unknown or uncreated pool %d", update.PoolId)
		}
		if scheduled[update.PoolId] {
			return ErrInvalidGenesis.Wrapf("duplicate schedule for pool %d", update.PoolId)
		}
		scheduled[update.PoolId] = true
		if err := update.Validate(); err != nil {
			return fmt.Errorf("invalid schedule for pool %d: %w", update.PoolId, err)
		}
	}

	committed := make(map[uint64]bool, len(gs.Commitments))
	for _, c := range gs.Commitments {
		pool, found := pools[c.PoolId]
		if !found || !pool.IsCreated() {
			return ErrInvalidGenesis.Wrapf("commitment for unknown or uncreated pool %d", c.PoolId)
		}
		if committed[c.PoolId] {
			return ErrInvalidGenesis.Wrapf("duplicate commitment for pool %d", c.PoolId)
		}
		committed[c.PoolId] = true
		if err := sdk.ValidateDenom(c.Denom); err != nil {
			return ErrInvalidGenesis.Wrapf("commitment denom: %s", err)
		}
		if err := ValidateWeight(c.Weight); err != nil {
			return err
		}
		if c.ApplicableHeight < c.CommitHeight {
			return ErrInvalidGenesis.Wrapf("commitment for pool %d applicable before commit", c.PoolId)
		}
	}

	for _, entry := range gs.Whitelist {
		if _, found := pools[entry.PoolId]; !found {
			return ErrInvalidGenesis.Wrapf("whitelist entry for unknown pool %d", entry.PoolId)
		}
		if _, err := sdk.AccAddressFromBech32(entry.Provider); err != nil {
			return ErrInvalidGenesis.Wrapf("whitelist provider: %s", err)
		}
	}
	return nil
}
