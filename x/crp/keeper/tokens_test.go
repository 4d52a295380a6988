package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/crp/testutil/keeper"
	"github.com/paw-chain/crp/x/crp/types"
)

func (s *KeeperTestSuite) fundController(denom string, amount int64) {
	keepertest.FundAccount(s.T(), s.app, controller, sdk.NewCoin(denom, keepertest.Tokens(amount)))
}

func (s *KeeperTestSuite) TestCommitAddTokenTimelock() {
	s.fundController(keepertest.ABC, 10)
	ctx := s.atHeight(100)
	s.Require().NoError(s.k.CommitAddToken(ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("1.5")))
	requireEvent(s.T(), ctx, types.EventTypeTokenCommitted)

	commitment, found, err := s.k.GetNewTokenCommitment(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(int64(100), commitment.CommitHeight)
	s.Require().Equal(int64(110), commitment.ApplicableHeight)

	for height := int64(100); height < 110; height++ {
		err := s.k.ApplyAddToken(s.atHeight(height), controller, s.poolID)
		s.Require().ErrorIs(err, types.ErrTimelockNotElapsed, "height %d", height)
	}
	s.Require().False(s.app.PoolKeeper.IsBound(s.ctx, s.bpoolID(), keepertest.ABC))

	ctx = s.atHeight(110)
	s.Require().NoError(s.k.ApplyAddToken(ctx, controller, s.poolID))
	requireEvent(s.T(), ctx, types.EventTypeTokenAdded)
	s.Require().True(s.app.PoolKeeper.IsBound(s.ctx, s.bpoolID(), keepertest.ABC))

	_, found, err = s.k.GetNewTokenCommitment(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().False(found)
	err = s.k.ApplyAddToken(s.atHeight(111), controller, s.poolID)
	s.Require().ErrorIs(err, types.ErrNoPendingCommitment)
}

func (s *KeeperTestSuite) TestAddThenRemoveToken() {
	s.fundController(keepertest.ABC, 10)
	s.Require().NoError(s.k.CommitAddToken(s.ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("1.5")))
	s.Require().NoError(s.k.ApplyAddToken(s.atHeight(11), controller, s.poolID))

	// 100·1.5/15 new shares
	s.Require().Equal(keepertest.Tokens(110), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(keepertest.Tokens(110), s.shares(controller))
	s.Require().Equal(keepertest.Tokens(10), s.poolBalance(keepertest.ABC))
	s.Require().True(s.balance(controller, keepertest.ABC).IsZero())
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("1.5"), s.weight(keepertest.ABC))

	ctx := s.atHeight(12)
	s.Require().NoError(s.k.RemoveToken(ctx, controller, s.poolID, keepertest.ABC))
	requireEvent(s.T(), ctx, types.EventTypeTokenRemoved)

	s.Require().Equal(keepertest.Tokens(100), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(keepertest.Tokens(10), s.balance(controller, keepertest.ABC))
	s.Require().False(s.app.PoolKeeper.IsBound(s.ctx, s.bpoolID(), keepertest.ABC))

	tokens, err := s.app.PoolKeeper.GetCurrentTokens(s.ctx, s.bpoolID())
	s.Require().NoError(err)
	s.Require().Equal([]string{keepertest.XYZ, keepertest.WETH, keepertest.DAI}, tokens)
}

func (s *KeeperTestSuite) TestCommitAddTokenSupersedes() {
	s.fundController(keepertest.ABC, 10)
	s.fundController(keepertest.ASD, 10)
	s.Require().NoError(s.k.CommitAddToken(s.ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("1.5")))

	ctx := s.atHeight(5)
	s.Require().NoError(s.k.CommitAddToken(ctx, controller, s.poolID, keepertest.ASD, keepertest.Tokens(10), keepertest.Dec("1.5")))
	ev := requireEvent(s.T(), ctx, types.EventTypeCommitmentSuperseded)
	denom, _ := attribute(ev, types.AttributeKeyDenom)
	s.Require().Equal(keepertest.ABC, denom)

	// the replacement restarts the time lock
	err := s.k.ApplyAddToken(s.atHeight(11), controller, s.poolID)
	s.Require().ErrorIs(err, types.ErrTimelockNotElapsed)
	s.Require().NoError(s.k.ApplyAddToken(s.atHeight(15), controller, s.poolID))

	s.Require().True(s.app.PoolKeeper.IsBound(s.ctx, s.bpoolID(), keepertest.ASD))
	s.Require().False(s.app.PoolKeeper.IsBound(s.ctx, s.bpoolID(), keepertest.ABC))
}

func (s *KeeperTestSuite) TestCommitAddTokenErrors() {
	restricted := s.newPool(types.CanChangeWeights)

	tests := []struct {
		name   string
		caller sdk.AccAddress
		poolID uint64
		denom  string
		amount int64
		weight string
		err    error
	}{
		{"already bound", controller, s.poolID, keepertest.XYZ, 10, "1.5", types.ErrAlreadyBound},
		{"already bound and total exceeded", controller, s.poolID, keepertest.XYZ, 10, "36", types.ErrAlreadyBound},
		{"total exceeded", controller, s.poolID, keepertest.ABC, 10, "36", types.ErrTotalWeightExceeded},
		{"below min weight", controller, s.poolID, keepertest.ABC, 10, "0.5", types.ErrWeightBelowMin},
		{"above max weight", controller, s.poolID, keepertest.ABC, 10, "51", types.ErrWeightAboveMax},
		{"zero balance", controller, s.poolID, keepertest.ABC, 0, "1.5", types.ErrInvalidAmount},
		{"bad denom", controller, s.poolID, "!", 10, "1.5", types.ErrInvalidToken},
		{"not controller", stranger, s.poolID, keepertest.ABC, 10, "1.5", types.ErrNotController},
		{"no right", controller, restricted, keepertest.ABC, 10, "1.5", types.ErrPermissionDenied},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := s.k.CommitAddToken(s.ctx, tc.caller, tc.poolID, tc.denom, keepertest.Tokens(tc.amount), keepertest.Dec(tc.weight))
			s.Require().ErrorIs(err, tc.err)
			_, found, err := s.k.GetNewTokenCommitment(s.ctx, tc.poolID)
			s.Require().NoError(err)
			s.Require().False(found)
		})
	}
}

func (s *KeeperTestSuite) TestApplyAddTokenRechecks() {
	// weights may move between commit and apply
	s.fundController(keepertest.ABC, 10)
	s.Require().NoError(s.k.CommitAddToken(s.ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("30")))
	s.Require().NoError(s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.XYZ, keepertest.Dec("20")))

	err := s.k.ApplyAddToken(s.atHeight(11), controller, s.poolID)
	s.Require().ErrorIs(err, types.ErrTotalWeightExceeded)
	_, found, err := s.k.GetNewTokenCommitment(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().True(found)

	err = s.k.ApplyAddToken(s.atHeight(11), stranger, s.poolID)
	s.Require().ErrorIs(err, types.ErrNotController)
}

func (s *KeeperTestSuite) TestApplyAddTokenInsufficientBalance() {
	s.fundController(keepertest.ABC, 5)
	s.Require().NoError(s.k.CommitAddToken(s.ctx, controller, s.poolID, keepertest.ABC, keepertest.Tokens(10), keepertest.Dec("1.5")))

	err := s.k.ApplyAddToken(s.atHeight(11), controller, s.poolID)
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	s.Require().Equal(keepertest.Tokens(5), s.balance(controller, keepertest.ABC))
	s.Require().Equal(keepertest.Tokens(100), s.k.TotalShares(s.ctx, s.poolID))
}

func (s *KeeperTestSuite) TestApplyAddTokenMaxTokens() {
	denoms := []string{"utok4", "utok5", "utok6", "utok7", "utok8"}
	height := int64(1)
	for _, denom := range denoms {
		s.fundController(denom, 1)
		s.Require().NoError(s.k.CommitAddToken(s.atHeight(height), controller, s.poolID, denom, keepertest.Tokens(1), keepertest.Dec("1")))
		height += 10
		s.Require().NoError(s.k.ApplyAddToken(s.atHeight(height), controller, s.poolID))
	}

	s.fundController("utok9", 1)
	err := s.k.CommitAddToken(s.atHeight(height), controller, s.poolID, "utok9", keepertest.Tokens(1), keepertest.Dec("1"))
	s.Require().ErrorIs(err, types.ErrMaxTokens)
}

func (s *KeeperTestSuite) TestRemoveTokenErrors() {
	err := s.k.RemoveToken(s.ctx, controller, s.poolID, keepertest.ABC)
	s.Require().ErrorIs(err, types.ErrNotBound)

	err = s.k.RemoveToken(s.ctx, stranger, s.poolID, keepertest.DAI)
	s.Require().ErrorIs(err, types.ErrNotController)

	restricted := s.newPool(types.CanChangeWeights)
	err = s.k.RemoveToken(s.ctx, controller, restricted, keepertest.DAI)
	s.Require().ErrorIs(err, types.ErrPermissionDenied)

	s.Require().NoError(s.k.RemoveToken(s.ctx, controller, s.poolID, keepertest.DAI))
	err = s.k.RemoveToken(s.ctx, controller, s.poolID, keepertest.WETH)
	s.Require().ErrorIs(err, types.ErrMinTokens)
}

func (s *KeeperTestSuite) TestRemoveTokenWithoutShares() {
	s.Require().NoError(s.app.BankKeeper.SendCoins(s.ctx, controller, stranger,
		sdk.NewCoins(sdk.NewCoin(types.ShareDenom(s.poolID), keepertest.Tokens(95)))))

	err := s.k.RemoveToken(s.ctx, controller, s.poolID, keepertest.DAI)
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	s.Require().True(s.app.PoolKeeper.IsBound(s.ctx, s.bpoolID(), keepertest.DAI))
	s.Require().Equal(keepertest.Tokens(10_000), s.poolBalance(keepertest.DAI))
}
