package keeper

import (
	"fmt"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/crp/simapp"
	crptypes "github.com/paw-chain/crp/x/crp/types"
)

// Token denoms used across the pool tests
const (
	XYZ  = "uxyz"
	WETH = "uweth"
	DAI  = "udai"
	ABC  = "uabc"
	ASD  = "uasd"
)

// NewTestApp builds a simapp for a test.
func NewTestApp(t testing.TB, opts ...simapp.Option) *simapp.App {
	t.Helper()
	app, err := simapp.New(log.NewNopLogger(), opts...)
	require.NoError(t, err)
	return app
}

// TestAddr returns a deterministic 20-byte address derived from name.
func TestAddr(name string) sdk.AccAddress {
	return sdk.AccAddress([]byte(fmt.Sprintf("%-20s", name))[:20])
}

// Tokens returns n whole tokens of 18 decimals.
func Tokens(n int64) math.Int {
	return math.NewIntWithDecimal(n, 18)
}

// Dec parses a decimal, panicking on malformed input.
func Dec(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

// DefaultPoolConfig is an XYZ/WETH/DAI pool weighted 12/1.5/1.5 with every
// right granted.
func DefaultPoolConfig() crptypes.PoolConfig {
	return crptypes.PoolConfig{
		Tokens: []crptypes.PoolToken{
			{Denom: XYZ, Balance: Tokens(80_000), Weight: Dec("12")},
			{Denom: WETH, Balance: Tokens(40), Weight: Dec("1.5")},
			{Denom: DAI, Balance: Tokens(10_000), Weight: Dec("1.5")},
		},
		SwapFee:                   Dec("0.003"),
		Rights:                    crptypes.AllRights,
		MinimumWeightChangePeriod: 10,
		AddTokenTimeLock:          10,
	}
}

// FundAccount mints coins to addr.
func FundAccount(t testing.TB, app *simapp.App, addr sdk.AccAddress, coins ...sdk.Coin) {
	t.Helper()
	require.NoError(t, app.FundAccount(app.Context(), addr, sdk.NewCoins(coins...)))
}

// RegisterTestPool funds controller with ten times the initial balances and
// registers the pool without creating it.
func RegisterTestPool(t testing.TB, app *simapp.App, controller sdk.AccAddress, config crptypes.PoolConfig) uint64 {
	t.Helper()
	require.NoError(t, app.FundForPool(controller, config, 10))
	poolID, err := app.CRPKeeper.NewPool(app.Context(), controller, config)
	require.NoError(t, err)
	return poolID
}

// CreateTestPool registers and creates a pool with initialSupply shares.
func CreateTestPool(t testing.TB, app *simapp.App, controller sdk.AccAddress, config crptypes.PoolConfig, initialSupply math.Int) uint64 {
	t.Helper()
	poolID := RegisterTestPool(t, app, controller, config)
	require.NoError(t, app.CRPKeeper.CreatePool(app.Context(), controller, poolID, initialSupply))
	return poolID
}

// Weights returns the current weights of a pool keyed by denom.
func Weights(t testing.TB, app *simapp.App, poolID uint64) map[string]math.LegacyDec {
	t.Helper()
	tokens, weights, err := app.CRPKeeper.GetCurrentWeights(app.Context(), poolID)
	require.NoError(t, err)
	out := make(map[string]math.LegacyDec, len(tokens))
	for i, denom := range tokens {
		out[denom] = weights[i]
	}
	return out
}

type tHelper interface {
	Helper()
}

// RequireDecEqual fails unless two decimals are equal.
func RequireDecEqual(t require.TestingT, expected, actual math.LegacyDec, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.True(t, expected.Equal(actual), append([]interface{}{fmt.Sprintf("expected %s, got %s", expected, actual)}, msgAndArgs...)...)
}

// RequireDecNear fails unless actual is within tolerance of expected.
func RequireDecNear(t require.TestingT, expected, actual, tolerance math.LegacyDec, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	diff := expected.Sub(actual).Abs()
	require.True(t, diff.LTE(tolerance), append([]interface{}{fmt.Sprintf("expected %s ± %s, got %s", expected, tolerance, actual)}, msgAndArgs...)...)
}
