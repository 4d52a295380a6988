package simapp

import (
	"math/rand"

	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
)

// Simulation operation names
const (
	OpUpdateWeight   = "update_weight"
	OpGradualUpdate  = "update_weights_gradually"
	OpPokeWeights    = "poke_weights"
	OpCommitAddToken = "commit_add_token"
	OpApplyAddToken  = "apply_add_token"
	OpRemoveToken    = "remove_token"
	OpRebase         = "rebase"
	OpSafeResync     = "safe_resync"
	OpJoinPool       = "join_pool"
	OpExitPool       = "exit_pool"
	OpSetSwapFee     = "set_swap_fee"
	OpSetPublicSwap  = "set_public_swap"
	OpNextBlock      = "next_block"
)

// SimulationParams weighs the random operations of a simulation run.
type SimulationParams struct {
	Weights map[string]int
	// MaxBlocksPerStep bounds how far a next_block step jumps.
	MaxBlocksPerStep int
}

// DefaultSimulationParams returns default simulation parameters
func DefaultSimulationParams() SimulationParams {
	return SimulationParams{
		Weights: map[string]int{
			OpUpdateWeight:   10,
			OpGradualUpdate:  5,
			OpPokeWeights:    10,
			OpCommitAddToken: 4,
			OpApplyAddToken:  4,
			OpRemoveToken:    3,
			OpRebase:         8,
			OpSafeResync:     8,
			OpJoinPool:       6,
			OpExitPool:       6,
			OpSetSwapFee:     2,
			OpSetPublicSwap:  2,
			OpNextBlock:      20,
		},
		MaxBlocksPerStep: 5,
	}
}

// RandomSimulationParams returns randomized operation weights.
func RandomSimulationParams(r *rand.Rand) SimulationParams {
	params := DefaultSimulationParams()
	for op := range params.Weights {
		params.Weights[op] = simtypes.RandIntBetween(r, 1, 21)
	}
	params.MaxBlocksPerStep = simtypes.RandIntBetween(r, 1, 11)
	return params
}

// pick draws an operation name proportionally to its weight.
func (p SimulationParams) pick(r *rand.Rand, ops []string) string {
	total := 0
	for _, op := range ops {
		total += p.Weights[op]
	}
	if total == 0 {
		return OpNextBlock
	}
	n := simtypes.RandIntBetween(r, 0, total)
	for _, op := range ops {
		n -= p.Weights[op]
		if n < 0 {
			return op
		}
	}
	return OpNextBlock
}

// RandomProviders returns n random liquidity provider addresses.
func RandomProviders(r *rand.Rand, n int) []sdk.AccAddress {
	accounts := simtypes.RandomAccounts(r, n)
	providers := make([]sdk.AccAddress, len(accounts))
	for i, acc := range accounts {
		providers[i] = acc.Address
	}
	return providers
}
