package keeper_test

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/crp/testutil/keeper"
	"github.com/paw-chain/crp/x/crp/types"
)

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	s.Require().NoError(s.k.SetParams(s.ctx, types.Params{AutoPokeWeights: true, MaxPools: 10}))
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("12", "3", "1.5"), 10, 20))
	keepertest.FundAccount(s.T(), s.app, controller, sdk.NewCoin(keepertest.ABC, keepertest.Tokens(10)))
	s.Require().NoError(s.k.CommitAddToken(s.ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("1.5")))
	s.Require().NoError(s.k.WhitelistLiquidityProvider(s.ctx, controller, s.poolID, provider))
	keepertest.RegisterTestPool(s.T(), s.app, controller, keepertest.DefaultPoolConfig())

	exported, err := s.k.ExportGenesis(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Pools, 2)
	s.Require().Len(exported.GradualUpdates, 1)
	s.Require().Len(exported.Commitments, 1)
	s.Require().Len(exported.Whitelist, 1)
	s.Require().Equal(uint64(3), exported.NextPoolId)

	app := keepertest.NewTestApp(s.T())
	s.Require().NoError(app.CRPKeeper.InitGenesis(app.Context(), *exported))
	reexported, err := app.CRPKeeper.ExportGenesis(app.Context())
	s.Require().NoError(err)

	want, err := json.Marshal(exported)
	s.Require().NoError(err)
	got, err := json.Marshal(reexported)
	s.Require().NoError(err)
	s.Require().JSONEq(string(want), string(got))

	s.Require().True(app.CRPKeeper.CanProvideLiquidity(app.Context(), s.poolID, provider))
	id, err := app.CRPKeeper.NewPool(app.Context(), controller, keepertest.DefaultPoolConfig())
	s.Require().NoError(err)
	s.Require().Equal(uint64(3), id)
}

func (s *KeeperTestSuite) TestDefaultGenesis() {
	app := keepertest.NewTestApp(s.T())
	s.Require().NoError(app.CRPKeeper.InitGenesis(app.Context(), *types.DefaultGenesis()))

	exported, err := app.CRPKeeper.ExportGenesis(app.Context())
	s.Require().NoError(err)
	s.Require().Equal(types.DefaultParams(), exported.Params)
	s.Require().Empty(exported.Pools)
	s.Require().Equal(uint64(1), exported.NextPoolId)
}
