package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/crp/testutil/keeper"
	"github.com/paw-chain/crp/x/crp/types"
)

func mustInt(s string) math.Int {
	i, ok := math.NewIntFromString(s)
	if !ok {
		panic("bad int " + s)
	}
	return i
}

func decs(values ...string) []math.LegacyDec {
	out := make([]math.LegacyDec, len(values))
	for i, v := range values {
		out[i] = keepertest.Dec(v)
	}
	return out
}

func (s *KeeperTestSuite) TestUpdateWeightIncrease() {
	ctx := s.atHeight(2)
	wethBefore := s.balance(controller, keepertest.WETH)

	s.Require().NoError(s.k.UpdateWeight(ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("3")))

	keepertest.RequireDecEqual(s.T(), keepertest.Dec("3"), s.weight(keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(80), s.poolBalance(keepertest.WETH))
	s.Require().Equal(wethBefore.Sub(keepertest.Tokens(40)), s.balance(controller, keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(110), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(keepertest.Tokens(110), s.shares(controller))

	ev := requireEvent(s.T(), ctx, types.EventTypeWeightUpdated)
	newWeight, _ := attribute(ev, types.AttributeKeyNewWeight)
	s.Require().Equal(keepertest.Dec("3").String(), newWeight)
}

func (s *KeeperTestSuite) TestUpdateWeightDecrease() {
	wethBefore := s.balance(controller, keepertest.WETH)

	s.Require().NoError(s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("1")))

	// 40·0.5/1.5 WETH out and 100·0.5/15 shares burned, both truncated
	paidOut := mustInt("13333333333333333333")
	burned := math.NewInt(3333333333333333333)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1"), s.weight(keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(40).Sub(paidOut), s.poolBalance(keepertest.WETH))
	s.Require().Equal(wethBefore.Add(paidOut), s.balance(controller, keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(100).Sub(burned), s.k.TotalShares(s.ctx, s.poolID))
}

func (s *KeeperTestSuite) TestUpdateWeightSameWeight() {
	s.Require().NoError(s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("1.5")))
	s.Require().Equal(keepertest.Tokens(100), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(keepertest.Tokens(40), s.poolBalance(keepertest.WETH))
}

func (s *KeeperTestSuite) TestUpdateWeightErrors() {
	restricted := s.newPool(types.CanPauseSwap | types.CanChangeSwapFee)

	tests := []struct {
		name   string
		caller sdk.AccAddress
		poolID uint64
		denom  string
		weight string
		err    error
	}{
		{"below min", controller, s.poolID, keepertest.WETH, "0.5", types.ErrWeightBelowMin},
		{"above max", controller, s.poolID, keepertest.WETH, "51", types.ErrWeightAboveMax},
		{"total exceeded", controller, s.poolID, keepertest.XYZ, "48", types.ErrTotalWeightExceeded},
		{"not bound", controller, s.poolID, keepertest.ABC, "2", types.ErrNotBound},
		{"not controller", stranger, s.poolID, keepertest.WETH, "2", types.ErrNotController},
		{"no right", controller, restricted, keepertest.WETH, "2", types.ErrPermissionDenied},
		{"unknown pool", controller, 42, keepertest.WETH, "2", types.ErrPoolNotFound},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := s.k.UpdateWeight(s.ctx, tc.caller, tc.poolID, tc.denom, keepertest.Dec(tc.weight))
			s.Require().ErrorIs(err, tc.err)
		})
	}

	keepertest.RequireDecEqual(s.T(), keepertest.Dec("12"), s.weight(keepertest.XYZ))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(100), s.k.TotalShares(s.ctx, s.poolID))
}

func (s *KeeperTestSuite) TestUpdateWeightInsufficientBalance() {
	// decreasing needs shares to burn
	shareDenom := types.ShareDenom(s.poolID)
	s.Require().NoError(s.app.BankKeeper.SendCoins(s.ctx, controller, stranger,
		sdk.NewCoins(sdk.NewCoin(shareDenom, keepertest.Tokens(100)))))
	err := s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("1"))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(40), s.poolBalance(keepertest.WETH))

	// increasing needs tokens to deposit
	s.Require().NoError(s.app.SetBalance(s.ctx, controller, keepertest.WETH, keepertest.Tokens(1)))
	err = s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("3"))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.WETH))
	s.Require().Equal(keepertest.Tokens(1), s.balance(controller, keepertest.WETH))
	s.Require().True(s.shares(controller).IsZero())
}

func (s *KeeperTestSuite) TestUpdateWeightsGradually() {
	ctx := s.atHeight(1)
	s.Require().NoError(s.k.UpdateWeightsGradually(ctx, controller, s.poolID, decs("12", "3", "1.5"), 10, 20))
	requireEvent(s.T(), ctx, types.EventTypeGradualUpdateStarted)

	update, found, err := s.k.GetGradualUpdate(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(int64(10), update.StartHeight)
	s.Require().Equal(int64(20), update.EndHeight)
	s.Require().Equal([]string{keepertest.XYZ, keepertest.WETH, keepertest.DAI}, update.Tokens)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), update.StartWeights[1])

	// scheduling does not move the weights
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.WETH))
}

func (s *KeeperTestSuite) TestUpdateWeightsGraduallyEffectiveStart() {
	s.Require().NoError(s.k.UpdateWeightsGradually(s.atHeight(5), controller, s.poolID, decs("12", "3", "1.5"), 0, 20))

	update, found, err := s.k.GetGradualUpdate(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(int64(5), update.StartHeight)

	// a start in the past shortens the period
	err = s.k.UpdateWeightsGradually(s.atHeight(15), controller, s.poolID, decs("12", "3", "1.5"), 10, 24)
	s.Require().ErrorIs(err, types.ErrChangePeriodTooShort)
}

func (s *KeeperTestSuite) TestUpdateWeightsGraduallyErrors() {
	tests := []struct {
		name    string
		weights []math.LegacyDec
		start   int64
		end     int64
		err     error
	}{
		{"period too short", decs("12", "3", "1.5"), 10, 19, types.ErrChangePeriodTooShort},
		{"end before start", decs("12", "3", "1.5"), 10, 10, types.ErrInvalidSchedule},
		{"wrong length", decs("12", "3"), 10, 20, types.ErrInvalidSchedule},
		{"weight below min", decs("12", "0.5", "1.5"), 10, 20, types.ErrWeightBelowMin},
		{"weight above max", decs("12", "51", "1.5"), 10, 20, types.ErrWeightAboveMax},
		{"total exceeded", decs("40", "10", "1"), 10, 20, types.ErrTotalWeightExceeded},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, tc.weights, tc.start, tc.end)
			s.Require().ErrorIs(err, tc.err)
			_, found, err := s.k.GetGradualUpdate(s.ctx, s.poolID)
			s.Require().NoError(err)
			s.Require().False(found)
		})
	}

	err := s.k.UpdateWeightsGradually(s.ctx, stranger, s.poolID, decs("12", "3", "1.5"), 10, 20)
	s.Require().ErrorIs(err, types.ErrNotController)

	restricted := s.newPool(types.CanAddRemoveTokens)
	err = s.k.UpdateWeightsGradually(s.ctx, controller, restricted, decs("12", "3", "1.5"), 10, 20)
	s.Require().ErrorIs(err, types.ErrPermissionDenied)
}

func (s *KeeperTestSuite) TestPokeWeights() {
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("12", "3", "1.5"), 10, 20))
	supply := s.k.TotalShares(s.ctx, s.poolID)

	err := s.k.PokeWeights(s.atHeight(9), s.poolID)
	s.Require().ErrorIs(err, types.ErrTooEarlyToPoke)

	// anyone can poke; the caller is not an argument
	ctx := s.atHeight(15)
	s.Require().NoError(s.k.PokeWeights(ctx, s.poolID))
	requireEvent(s.T(), ctx, types.EventTypeWeightsPoked)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("2.25"), s.weight(keepertest.WETH))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("12"), s.weight(keepertest.XYZ))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.DAI))

	_, found, err := s.k.GetGradualUpdate(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().True(found)

	s.Require().NoError(s.k.PokeWeights(s.atHeight(20), s.poolID))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("3"), s.weight(keepertest.WETH))
	_, found, err = s.k.GetGradualUpdate(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().False(found)

	// pokes move weights only
	s.Require().Equal(keepertest.Tokens(40), s.poolBalance(keepertest.WETH))
	s.Require().Equal(supply, s.k.TotalShares(s.ctx, s.poolID))

	// fixed again
	s.Require().NoError(s.k.PokeWeights(s.atHeight(30), s.poolID))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("3"), s.weight(keepertest.WETH))
	s.Require().NoError(s.k.UpdateWeight(s.atHeight(31), controller, s.poolID, keepertest.WETH, keepertest.Dec("2")))
}

func (s *KeeperTestSuite) TestPokeWeightsPastEnd() {
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("20", "1", "1"), 10, 20))

	s.Require().NoError(s.k.PokeWeights(s.atHeight(15), s.poolID))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("16"), s.weight(keepertest.XYZ))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.25"), s.weight(keepertest.WETH))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.25"), s.weight(keepertest.DAI))

	s.Require().NoError(s.k.PokeWeights(s.atHeight(500), s.poolID))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("20"), s.weight(keepertest.XYZ))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1"), s.weight(keepertest.WETH))
	_, found, err := s.k.GetGradualUpdate(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().False(found)
}

func (s *KeeperTestSuite) TestPokeWeightsWithoutSchedule() {
	ctx := s.atHeight(2)
	s.Require().NoError(s.k.PokeWeights(ctx, s.poolID))
	_, found := findEvent(ctx.EventManager().Events(), types.EventTypeWeightsPoked)
	s.Require().False(found)

	registered := keepertest.RegisterTestPool(s.T(), s.app, controller, keepertest.DefaultPoolConfig())
	s.Require().ErrorIs(s.k.PokeWeights(s.ctx, registered), types.ErrPoolNotCreated)
}

func (s *KeeperTestSuite) TestScheduleBlocksWeightAndTokenChanges() {
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("12", "3", "1.5"), 10, 20))

	err := s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("2"))
	s.Require().ErrorIs(err, types.ErrGradualUpdateInProgress)

	err = s.k.RemoveToken(s.ctx, controller, s.poolID, keepertest.DAI)
	s.Require().ErrorIs(err, types.ErrGradualUpdateInProgress)

	// committing is allowed, applying is not
	keepertest.FundAccount(s.T(), s.app, controller, sdk.NewCoin(keepertest.ABC, keepertest.Tokens(10)))
	s.Require().NoError(s.k.CommitAddToken(s.ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("1.5")))
	err = s.k.ApplyAddToken(s.atHeight(11), controller, s.poolID)
	s.Require().ErrorIs(err, types.ErrGradualUpdateInProgress)

	// a schedule past its end blocks until poked
	err = s.k.UpdateWeight(s.atHeight(25), controller, s.poolID, keepertest.WETH, keepertest.Dec("2"))
	s.Require().ErrorIs(err, types.ErrGradualUpdateInProgress)
	s.Require().NoError(s.k.PokeWeights(s.atHeight(25), s.poolID))
	s.Require().NoError(s.k.ApplyAddToken(s.atHeight(25), controller, s.poolID))
	s.Require().NoError(s.k.UpdateWeight(s.atHeight(25), controller, s.poolID, keepertest.WETH, keepertest.Dec("2")))
}

func (s *KeeperTestSuite) TestNewScheduleReplacesPending() {
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("12", "3", "1.5"), 10, 20))
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("12", "1.5", "3"), 30, 40))

	s.Require().NoError(s.k.PokeWeights(s.atHeight(40), s.poolID))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.WETH))
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("3"), s.weight(keepertest.DAI))
}

func (s *KeeperTestSuite) TestGetCurrentWeights() {
	weights := keepertest.Weights(s.T(), s.app, s.poolID)
	s.Require().Len(weights, 3)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("12"), weights[keepertest.XYZ])

	_, err := s.k.GetDenormalizedWeight(s.ctx, s.poolID, keepertest.ABC)
	s.Require().ErrorIs(err, types.ErrNotBound)
}
