package simapp

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	crptypes "github.com/paw-chain/crp/x/crp/types"
)

// GenesisState maps module names to their raw genesis.
type GenesisState map[string]json.RawMessage

// DefaultGenesis returns the default genesis of the bank and pool modules.
func (a *App) DefaultGenesis() GenesisState {
	return GenesisState{
		banktypes.ModuleName:  a.cdc.MustMarshalJSON(banktypes.DefaultGenesisState()),
		bpooltypes.ModuleName: a.BPoolModule.DefaultGenesis(nil),
		crptypes.ModuleName:   a.CRPModule.DefaultGenesis(nil),
	}
}

// InitChain validates and loads genesis into the current block. A missing
// bank section leaves balances empty.
func (a *App) InitChain(genesis GenesisState) error {
	bankGenesis := banktypes.DefaultGenesisState()
	if raw, ok := genesis[banktypes.ModuleName]; ok {
		if err := a.cdc.UnmarshalJSON(raw, bankGenesis); err != nil {
			return fmt.Errorf("bank genesis: %w", err)
		}
	}
	if err := bankGenesis.Validate(); err != nil {
		return fmt.Errorf("bank genesis: %w", err)
	}
	if err := a.BPoolModule.ValidateGenesis(nil, nil, genesis[bpooltypes.ModuleName]); err != nil {
		return fmt.Errorf("bpool genesis: %w", err)
	}
	if err := a.CRPModule.ValidateGenesis(nil, nil, genesis[crptypes.ModuleName]); err != nil {
		return fmt.Errorf("crp genesis: %w", err)
	}
	a.BankKeeper.InitGenesis(a.ctx, bankGenesis)
	a.BPoolModule.InitGenesis(a.ctx, nil, genesis[bpooltypes.ModuleName])
	a.CRPModule.InitGenesis(a.ctx, nil, genesis[crptypes.ModuleName])
	return nil
}

// ExportGenesis exports the state of the bank and pool modules.
func (a *App) ExportGenesis() GenesisState {
	return GenesisState{
		banktypes.ModuleName:  a.cdc.MustMarshalJSON(a.BankKeeper.ExportGenesis(a.ctx)),
		bpooltypes.ModuleName: a.BPoolModule.ExportGenesis(a.ctx, nil),
		crptypes.ModuleName:   a.CRPModule.ExportGenesis(a.ctx, nil),
	}
}

// RandomPoolConfig returns a pool configuration with numTokens tokens named
// tok0..tokN, random weights within the pool bounds and balances of at least
// minBalance.
func RandomPoolConfig(r *rand.Rand, numTokens int, rights crptypes.Rights, minBalance math.Int) crptypes.PoolConfig {
	maxPerToken := bpooltypes.MaxTotalWeight.QuoInt64(int64(numTokens + 2)).TruncateInt64()
	if maxPerToken < 1 {
		maxPerToken = 1
	}

	tokens := make([]crptypes.PoolToken, numTokens)
	for i := range tokens {
		weight := math.LegacyNewDec(int64(simtypes.RandIntBetween(r, 1, int(maxPerToken)+1))).
			Add(math.LegacyNewDecWithPrec(int64(simtypes.RandIntBetween(r, 0, 10)), 1))
		if weight.GT(math.LegacyNewDec(maxPerToken)) {
			weight = math.LegacyNewDec(maxPerToken)
		}
		tokens[i] = crptypes.PoolToken{
			Denom:   fmt.Sprintf("tok%d", i),
			Balance: minBalance.MulRaw(int64(simtypes.RandIntBetween(r, 1, 101))),
			Weight:  weight,
		}
	}

	minPeriod := int64(simtypes.RandIntBetween(r, 0, 20))
	return crptypes.PoolConfig{
		Tokens:                    tokens,
		SwapFee:                   math.LegacyNewDecWithPrec(int64(simtypes.RandIntBetween(r, 1, 101)), 4),
		Rights:                    rights,
		Elastic:                   rights.Has(crptypes.CanChangeWeights) && simtypes.RandIntBetween(r, 0, 2) == 0,
		MinimumWeightChangePeriod: minPeriod,
		AddTokenTimeLock:          int64(simtypes.RandIntBetween(r, 0, int(minPeriod)+1)),
	}
}

// FundForPool gives addr enough of every token in config to create the pool
// multiple times over.
func (a *App) FundForPool(addr sdk.AccAddress, config crptypes.PoolConfig, multiple int64) error {
	coins := sdk.NewCoins()
	for _, token := range config.Tokens {
		coins = coins.Add(sdk.NewCoin(token.Denom, token.Balance.MulRaw(multiple)))
	}
	return a.FundAccount(a.ctx, addr, coins)
}
