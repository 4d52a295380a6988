package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/crp/testutil/keeper"
	"github.com/paw-chain/crp/x/crp/types"
)

func (s *KeeperTestSuite) fundProvider() {
	keepertest.FundAccount(s.T(), s.app, provider,
		sdk.NewCoin(keepertest.XYZ, keepertest.Tokens(80_000)),
		sdk.NewCoin(keepertest.WETH, keepertest.Tokens(40)),
		sdk.NewCoin(keepertest.DAI, keepertest.Tokens(10_000)),
	)
}

func unlimited(n int) []math.Int {
	limits := make([]math.Int, n)
	for i := range limits {
		limits[i] = keepertest.Tokens(1_000_000)
	}
	return limits
}

func zeros(n int) []math.Int {
	out := make([]math.Int, n)
	for i := range out {
		out[i] = math.ZeroInt()
	}
	return out
}

func (s *KeeperTestSuite) TestWhitelist() {
	s.fundProvider()
	s.Require().False(s.k.CanProvideLiquidity(s.ctx, s.poolID, provider))
	s.Require().True(s.k.CanProvideLiquidity(s.ctx, s.poolID, controller))

	_, err := s.k.JoinPool(s.ctx, provider, s.poolID, keepertest.Tokens(10), unlimited(3))
	s.Require().ErrorIs(err, types.ErrNotWhitelisted)

	err = s.k.WhitelistLiquidityProvider(s.ctx, stranger, s.poolID, provider)
	s.Require().ErrorIs(err, types.ErrNotController)
	s.Require().NoError(s.k.WhitelistLiquidityProvider(s.ctx, controller, s.poolID, provider))
	s.Require().True(s.k.CanProvideLiquidity(s.ctx, s.poolID, provider))
	s.Require().Equal([]types.WhitelistEntry{{PoolId: s.poolID, Provider: provider.String()}}, s.k.GetWhitelist(s.ctx))

	_, err = s.k.JoinPool(s.ctx, provider, s.poolID, keepertest.Tokens(10), unlimited(3))
	s.Require().NoError(err)

	s.Require().NoError(s.k.RemoveWhitelistedLiquidityProvider(s.ctx, controller, s.poolID, provider))
	s.Require().False(s.k.CanProvideLiquidity(s.ctx, s.poolID, provider))
	err = s.k.RemoveWhitelistedLiquidityProvider(s.ctx, controller, s.poolID, provider)
	s.Require().ErrorIs(err, types.ErrNotWhitelisted)
	s.Require().Empty(s.k.GetWhitelist(s.ctx))

	// pools without the right are open and cannot whitelist
	open := s.newPool(types.CanChangeWeights)
	s.Require().True(s.k.CanProvideLiquidity(s.ctx, open, provider))
	err = s.k.WhitelistLiquidityProvider(s.ctx, controller, open, provider)
	s.Require().ErrorIs(err, types.ErrPermissionDenied)
}

func (s *KeeperTestSuite) TestJoinAndExitPool() {
	s.fundProvider()
	s.Require().NoError(s.k.WhitelistLiquidityProvider(s.ctx, controller, s.poolID, provider))

	ctx := s.atHeight(2)
	amountsIn, err := s.k.JoinPool(ctx, provider, s.poolID, keepertest.Tokens(10), unlimited(3))
	s.Require().NoError(err)
	requireEvent(s.T(), ctx, types.EventTypeJoinPool)
	s.Require().Equal([]math.Int{keepertest.Tokens(8_000), keepertest.Tokens(4), keepertest.Tokens(1_000)}, amountsIn)
	s.Require().Equal(keepertest.Tokens(10), s.shares(provider))
	s.Require().Equal(keepertest.Tokens(110), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(keepertest.Tokens(44), s.poolBalance(keepertest.WETH))

	// weights are untouched by proportional joins
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.WETH))

	_, err = s.k.ExitPool(s.ctx, provider, s.poolID, keepertest.Tokens(10), amountsIn)
	s.Require().ErrorIs(err, types.ErrLimitOut)

	amountsOut, err := s.k.ExitPool(s.ctx, provider, s.poolID, keepertest.Tokens(10), zeros(3))
	s.Require().NoError(err)
	for i, out := range amountsOut {
		s.Require().True(out.IsPositive())
		s.Require().True(out.LTE(amountsIn[i]), "exit rounds down")
	}
	s.Require().True(s.shares(provider).IsZero())
	s.Require().Equal(keepertest.Tokens(100), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(amountsOut[1], s.balance(provider, keepertest.WETH))
}

func (s *KeeperTestSuite) TestJoinPoolErrors() {
	s.fundProvider()
	s.Require().NoError(s.k.WhitelistLiquidityProvider(s.ctx, controller, s.poolID, provider))

	limits := unlimited(3)
	limits[1] = keepertest.Tokens(3)
	_, err := s.k.JoinPool(s.ctx, provider, s.poolID, keepertest.Tokens(10), limits)
	s.Require().ErrorIs(err, types.ErrLimitIn)

	_, err = s.k.JoinPool(s.ctx, provider, s.poolID, keepertest.Tokens(10), unlimited(2))
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = s.k.JoinPool(s.ctx, provider, s.poolID, math.ZeroInt(), unlimited(3))
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = s.k.JoinPool(s.ctx, provider, s.poolID, keepertest.Tokens(1_000), unlimited(3))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)

	s.Require().True(s.shares(provider).IsZero())
	s.Require().Equal(keepertest.Tokens(40), s.balance(provider, keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(40), s.poolBalance(keepertest.WETH))
}

func (s *KeeperTestSuite) TestExitPoolErrors() {
	_, err := s.k.ExitPool(s.ctx, provider, s.poolID, keepertest.Tokens(1), zeros(3))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)

	_, err = s.k.ExitPool(s.ctx, controller, s.poolID, keepertest.Tokens(1), zeros(2))
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	registered := keepertest.RegisterTestPool(s.T(), s.app, controller, keepertest.DefaultPoolConfig())
	_, err = s.k.ExitPool(s.ctx, controller, registered, keepertest.Tokens(1), zeros(3))
	s.Require().ErrorIs(err, types.ErrPoolNotCreated)
}
