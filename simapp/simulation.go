package simapp

import (
	"fmt"
	"math/rand"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	crptypes "github.com/paw-chain/crp/x/crp/types"
)

var simulationOps = []string{
	OpUpdateWeight, OpGradualUpdate, OpPokeWeights, OpCommitAddToken, OpApplyAddToken,
	OpRemoveToken, OpRebase, OpSafeResync, OpJoinPool, OpExitPool, OpSetSwapFee,
	OpSetPublicSwap, OpNextBlock,
}

// OperationCount tallies the outcomes of one operation.
type OperationCount struct {
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// OperationStats tallies outcomes per operation.
type OperationStats map[string]*OperationCount

func (s OperationStats) record(op string, err error) {
	c, ok := s[op]
	if !ok {
		c = &OperationCount{}
		s[op] = c
	}
	if err != nil {
		c.Failed++
		return
	}
	c.OK++
}

// Simulation drives random operations against one created pool.
type Simulation struct {
	App        *App
	PoolID     uint64
	Controller sdk.AccAddress
	Providers  []sdk.AccAddress
	Params     SimulationParams
}

// Run executes steps random operations and checks the invariants after each.
// Operation errors are expected and only counted; a broken invariant stops
// the run.
func (s Simulation) Run(r *rand.Rand, steps int) (OperationStats, error) {
	stats := OperationStats{}
	for i := 0; i < steps; i++ {
		op := s.Params.pick(r, simulationOps)
		stats.record(op, s.step(r, op))
		if err := s.App.AssertInvariants(); err != nil {
			return stats, fmt.Errorf("step %d (%s) at height %d: %w", i, op, s.App.Height(), err)
		}
	}
	return stats, nil
}

func (s Simulation) step(r *rand.Rand, op string) error {
	app := s.App
	ctx := app.Context()
	k := app.CRPKeeper

	switch op {
	case OpNextBlock:
		return app.AdvanceTo(app.Height() + int64(simtypes.RandIntBetween(r, 1, s.Params.MaxBlocksPerStep+1)))

	case OpPokeWeights:
		return k.PokeWeights(ctx, s.PoolID)

	case OpApplyAddToken:
		return k.ApplyAddToken(ctx, s.Controller, s.PoolID)
	}

	pool, err := k.GetPool(ctx, s.PoolID)
	if err != nil {
		return err
	}
	tokens, weights, err := k.GetCurrentWeights(ctx, s.PoolID)
	if err != nil {
		return err
	}
	i := simtypes.RandIntBetween(r, 0, len(tokens))

	switch op {
	case OpUpdateWeight:
		factor := math.LegacyNewDecWithPrec(int64(simtypes.RandIntBetween(r, 50, 150)), 2)
		return k.UpdateWeight(ctx, s.Controller, s.PoolID, tokens[i], clampWeight(weights[i].Mul(factor)))

	case OpGradualUpdate:
		target := make([]math.LegacyDec, len(tokens))
		perToken := int(bpooltypes.MaxTotalWeight.QuoInt64(int64(len(tokens))).TruncateInt64())
		for j := range target {
			target[j] = math.LegacyNewDec(int64(simtypes.RandIntBetween(r, 1, perToken+1)))
		}
		start := app.Height() + int64(simtypes.RandIntBetween(r, 0, 3))
		end := start + pool.MinimumWeightChangePeriod + 1 + int64(simtypes.RandIntBetween(r, 0, 10))
		return k.UpdateWeightsGradually(ctx, s.Controller, s.PoolID, target, start, end)

	case OpCommitAddToken:
		denom := fmt.Sprintf("new%d", simtypes.RandIntBetween(r, 0, 4))
		balance := bpooltypes.MinBalance.MulRaw(int64(simtypes.RandIntBetween(r, 100, 1100)))
		if err := app.FundAccount(ctx, s.Controller, sdk.NewCoins(sdk.NewCoin(denom, balance))); err != nil {
			return err
		}
		weight := math.LegacyNewDec(int64(simtypes.RandIntBetween(r, 1, 4)))
		return k.CommitAddToken(ctx, s.Controller, s.PoolID, denom, balance, weight)

	case OpRemoveToken:
		return k.RemoveToken(ctx, s.Controller, s.PoolID, tokens[i])

	case OpRebase:
		factor := math.LegacyNewDecWithPrec(int64(simtypes.RandIntBetween(r, 70, 130)), 2)
		_, err := app.Rebase(ctx, bpooltypes.PoolAddress(pool.BPoolId), tokens[i], factor)
		return err

	case OpSafeResync:
		if result := k.SafeResync(ctx, s.PoolID, tokens[i]); !result.Resynced {
			return fmt.Errorf("resync degraded: %s", result.Reason)
		}
		return nil

	case OpJoinPool:
		provider := s.Providers[simtypes.RandIntBetween(r, 0, len(s.Providers))]
		maxIn := make([]math.Int, len(tokens))
		funds := sdk.NewCoins()
		for j, denom := range tokens {
			balance := app.BankKeeper.GetBalance(ctx, bpooltypes.PoolAddress(pool.BPoolId), denom).Amount
			maxIn[j] = balance
			funds = funds.Add(sdk.NewCoin(denom, balance))
		}
		if err := app.FundAccount(ctx, provider, funds); err != nil {
			return err
		}
		amountOut := k.TotalShares(ctx, s.PoolID).QuoRaw(int64(simtypes.RandIntBetween(r, 10, 100)))
		_, err := k.JoinPool(ctx, provider, s.PoolID, amountOut, maxIn)
		return err

	case OpExitPool:
		provider := s.Providers[simtypes.RandIntBetween(r, 0, len(s.Providers))]
		shares := k.GetShares(ctx, s.PoolID, provider)
		if !shares.IsPositive() {
			return crptypes.ErrInsufficientBalance
		}
		amountIn := simtypes.RandomAmount(r, shares)
		if amountIn.IsZero() {
			amountIn = math.OneInt()
		}
		minOut := make([]math.Int, len(tokens))
		for j := range minOut {
			minOut[j] = math.ZeroInt()
		}
		_, err := k.ExitPool(ctx, provider, s.PoolID, amountIn, minOut)
		return err

	case OpSetSwapFee:
		return k.SetSwapFee(ctx, s.Controller, s.PoolID, math.LegacyNewDecWithPrec(int64(simtypes.RandIntBetween(r, 1, 1001)), 4))

	case OpSetPublicSwap:
		return k.SetPublicSwap(ctx, s.Controller, s.PoolID, simtypes.RandIntBetween(r, 0, 2) == 0)
	}
	return fmt.Errorf("unknown operation %s", op)
}

func clampWeight(w math.LegacyDec) math.LegacyDec {
	if w.LT(bpooltypes.MinWeight) {
		return bpooltypes.MinWeight
	}
	if w.GT(bpooltypes.MaxWeight) {
		return bpooltypes.MaxWeight
	}
	return w
}
