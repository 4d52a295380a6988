package types

import (
	"cosmossdk.io/math"
)

// Pool bounds. Weights are denormalized; a token's share of the pool value is
// its weight over the total weight.
var (
	MinWeight      = math.LegacyNewDec(1)
	MaxWeight      = math.LegacyNewDec(50)
	MaxTotalWeight = math.LegacyNewDec(50)

	// MinBalance is the smallest reserve, in base units, a bound token may hold.
	MinBalance = math.NewInt(1_000_000)

	MinFee = math.LegacyNewDecWithPrec(1, 6)
	MaxFee = math.LegacyNewDecWithPrec(1, 1)
)

const (
	MinBoundTokens = 2
	MaxBoundTokens = 8
)
