package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/crp/testutil/keeper"
	"github.com/paw-chain/crp/x/crp/keeper"
	"github.com/paw-chain/crp/x/crp/types"
)

func (s *KeeperTestSuite) TestInvariantsHold() {
	s.Require().NoError(s.k.UpdateWeight(s.ctx, controller, s.poolID, keepertest.WETH, keepertest.Dec("3")))
	s.Require().NoError(s.k.UpdateWeightsGradually(s.ctx, controller, s.poolID, decs("20", "1", "1"), 10, 20))
	s.Require().NoError(s.k.PokeWeights(s.atHeight(15), s.poolID))

	msg, broken := keeper.AllInvariants(*s.k)(s.ctx)
	s.Require().False(broken, msg)
	s.Require().NoError(s.app.AssertInvariants())
}

func (s *KeeperTestSuite) TestShareSupplyInvariantBroken() {
	// burn every share behind the keeper's back
	s.Require().NoError(s.app.BankKeeper.SendCoinsFromAccountToModule(s.ctx, controller, types.ModuleName,
		shareCoins(s.poolID, 100)))
	s.Require().NoError(s.app.BankKeeper.BurnCoins(s.ctx, types.ModuleName,
		shareCoins(s.poolID, 100)))

	msg, broken := keeper.ShareSupplyInvariant(*s.k)(s.ctx)
	s.Require().True(broken)
	s.Require().Contains(msg, "share supply is zero")
	s.Require().True(s.k.TotalShares(s.ctx, s.poolID).Equal(math.ZeroInt()))
}

func shareCoins(poolID uint64, amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(types.ShareDenom(poolID), keepertest.Tokens(amount)))
}
