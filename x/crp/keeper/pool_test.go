package keeper_test

import (
	"cosmossdk.io/math"

	keepertest "github.com/paw-chain/crp/testutil/keeper"
	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	"github.com/paw-chain/crp/x/crp/types"
)

func (s *KeeperTestSuite) TestCreatePool() {
	config := keepertest.DefaultPoolConfig()

	pool, err := s.k.GetPool(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().True(pool.IsCreated())
	s.Require().Equal(controller.String(), pool.Controller)
	s.Require().Equal(int64(1), pool.CreatedHeight)

	s.Require().Equal(keepertest.Tokens(100), s.k.TotalShares(s.ctx, s.poolID))
	s.Require().Equal(keepertest.Tokens(100), s.shares(controller))

	tokens, err := s.app.PoolKeeper.GetCurrentTokens(s.ctx, pool.BPoolId)
	s.Require().NoError(err)
	s.Require().Equal([]string{keepertest.XYZ, keepertest.WETH, keepertest.DAI}, tokens)

	for _, token := range config.Tokens {
		s.Require().Equal(token.Balance, s.poolBalance(token.Denom))
		keepertest.RequireDecEqual(s.T(), token.Weight, s.weight(token.Denom))
		s.Require().Equal(token.Balance.MulRaw(9), s.balance(controller, token.Denom))
	}

	public, err := s.app.PoolKeeper.IsPublicSwap(s.ctx, pool.BPoolId)
	s.Require().NoError(err)
	s.Require().True(public)
	fee, err := s.app.PoolKeeper.GetSwapFee(s.ctx, pool.BPoolId)
	s.Require().NoError(err)
	keepertest.RequireDecEqual(s.T(), config.SwapFee, fee)

	// the reserves belong to the underlying pool, controlled by the holder
	bpool, err := s.app.PoolKeeper.GetPool(s.ctx, pool.BPoolId)
	s.Require().NoError(err)
	s.Require().Equal(types.PoolAddress(s.poolID).String(), bpool.Controller)
}

func (s *KeeperTestSuite) TestCreatePoolErrors() {
	config := keepertest.DefaultPoolConfig()
	poolID := keepertest.RegisterTestPool(s.T(), s.app, controller, config)

	err := s.k.CreatePool(s.ctx, stranger, poolID, keepertest.Tokens(100))
	s.Require().ErrorIs(err, types.ErrNotController)

	err = s.k.CreatePool(s.ctx, controller, poolID, math.ZeroInt())
	s.Require().ErrorIs(err, types.ErrInvalidInitialSupply)

	err = s.k.CreatePool(s.ctx, controller, s.poolID, keepertest.Tokens(100))
	s.Require().ErrorIs(err, types.ErrPoolAlreadyCreated)

	err = s.k.CreatePool(s.ctx, controller, 99, keepertest.Tokens(100))
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (s *KeeperTestSuite) TestCreatePoolInsufficientBalance() {
	poor := keepertest.TestAddr("poor")
	config := keepertest.DefaultPoolConfig()
	poolID, err := s.k.NewPool(s.ctx, poor, config)
	s.Require().NoError(err)

	// enough XYZ and WETH but no DAI
	s.Require().NoError(s.app.SetBalance(s.ctx, poor, keepertest.XYZ, config.Tokens[0].Balance))
	s.Require().NoError(s.app.SetBalance(s.ctx, poor, keepertest.WETH, config.Tokens[1].Balance))

	err = s.k.CreatePool(s.ctx, poor, poolID, keepertest.Tokens(100))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)

	pool, err := s.k.GetPool(s.ctx, poolID)
	s.Require().NoError(err)
	s.Require().False(pool.IsCreated())
	s.Require().Equal(config.Tokens[0].Balance, s.balance(poor, keepertest.XYZ))
	s.Require().True(s.k.TotalShares(s.ctx, poolID).IsZero())
}

func (s *KeeperTestSuite) TestNewPoolValidation() {
	_, err := s.k.NewPool(s.ctx, nil, keepertest.DefaultPoolConfig())
	s.Require().ErrorIs(err, types.ErrInvalidAddress)

	config := keepertest.DefaultPoolConfig()
	config.Tokens = config.Tokens[:1]
	_, err = s.k.NewPool(s.ctx, controller, config)
	s.Require().ErrorIs(err, types.ErrMinTokens)

	config = keepertest.DefaultPoolConfig()
	config.AddTokenTimeLock = 11
	_, err = s.k.NewPool(s.ctx, controller, config)
	s.Require().ErrorIs(err, types.ErrInconsistentTimelock)

	config = keepertest.DefaultPoolConfig()
	config.Elastic = true
	config.Rights = types.CanPauseSwap
	_, err = s.k.NewPool(s.ctx, controller, config)
	s.Require().ErrorIs(err, types.ErrPermissionDenied)
}

func (s *KeeperTestSuite) TestNewPoolMaxPools() {
	s.Require().NoError(s.k.SetParams(s.ctx, types.Params{MaxPools: 2}))

	_, err := s.k.NewPool(s.ctx, controller, keepertest.DefaultPoolConfig())
	s.Require().NoError(err)
	_, err = s.k.NewPool(s.ctx, controller, keepertest.DefaultPoolConfig())
	s.Require().ErrorIs(err, types.ErrMaxPools)
}

func (s *KeeperTestSuite) TestNewPoolEvent() {
	ctx := s.atHeight(2)
	poolID, err := s.k.NewPool(ctx, controller, keepertest.DefaultPoolConfig())
	s.Require().NoError(err)

	ev := requireEvent(s.T(), ctx, types.EventTypePoolRegistered)
	rights, _ := attribute(ev, types.AttributeKeyRights)
	s.Require().Equal(types.AllRights.String(), rights)

	pool, err := s.k.GetPool(ctx, poolID)
	s.Require().NoError(err)
	s.Require().False(pool.IsCreated())
}

func (s *KeeperTestSuite) TestSetController() {
	newController := keepertest.TestAddr("new controller")

	err := s.k.SetController(s.ctx, stranger, s.poolID, newController)
	s.Require().ErrorIs(err, types.ErrNotController)
	err = s.k.SetController(s.ctx, controller, s.poolID, nil)
	s.Require().ErrorIs(err, types.ErrInvalidAddress)

	s.Require().NoError(s.k.SetController(s.ctx, controller, s.poolID, newController))
	pool, err := s.k.GetPool(s.ctx, s.poolID)
	s.Require().NoError(err)
	s.Require().Equal(newController.String(), pool.Controller)

	err = s.k.SetSwapFee(s.ctx, controller, s.poolID, keepertest.Dec("0.01"))
	s.Require().ErrorIs(err, types.ErrNotController)
	s.Require().NoError(s.k.SetSwapFee(s.ctx, newController, s.poolID, keepertest.Dec("0.01")))
}

func (s *KeeperTestSuite) TestSetSwapFee() {
	ctx := s.atHeight(2)
	s.Require().NoError(s.k.SetSwapFee(ctx, controller, s.poolID, keepertest.Dec("0.01")))
	requireEvent(s.T(), ctx, types.EventTypeSwapFeeChanged)

	fee, err := s.app.PoolKeeper.GetSwapFee(s.ctx, s.bpoolID())
	s.Require().NoError(err)
	keepertest.RequireDecEqual(s.T(), keepertest.Dec("0.01"), fee)

	for _, bad := range []math.LegacyDec{bpooltypes.MaxFee.Add(keepertest.Dec("0.01")), math.LegacyZeroDec()} {
		err = s.k.SetSwapFee(s.ctx, controller, s.poolID, bad)
		s.Require().ErrorIs(err, types.ErrInvalidSwapFee)
	}

	err = s.k.SetSwapFee(s.ctx, stranger, s.poolID, keepertest.Dec("0.01"))
	s.Require().ErrorIs(err, types.ErrNotController)

	restricted := s.newPool(types.CanPauseSwap)
	err = s.k.SetSwapFee(s.ctx, controller, restricted, keepertest.Dec("0.01"))
	s.Require().ErrorIs(err, types.ErrPermissionDenied)

	registered := keepertest.RegisterTestPool(s.T(), s.app, controller, keepertest.DefaultPoolConfig())
	err = s.k.SetSwapFee(s.ctx, controller, registered, keepertest.Dec("0.01"))
	s.Require().ErrorIs(err, types.ErrPoolNotCreated)
}

func (s *KeeperTestSuite) TestSetPublicSwap() {
	s.Require().NoError(s.k.SetPublicSwap(s.ctx, controller, s.poolID, false))
	public, err := s.app.PoolKeeper.IsPublicSwap(s.ctx, s.bpoolID())
	s.Require().NoError(err)
	s.Require().False(public)

	s.Require().NoError(s.k.SetPublicSwap(s.ctx, controller, s.poolID, true))
	public, err = s.app.PoolKeeper.IsPublicSwap(s.ctx, s.bpoolID())
	s.Require().NoError(err)
	s.Require().True(public)

	restricted := s.newPool(types.CanChangeSwapFee)
	err = s.k.SetPublicSwap(s.ctx, controller, restricted, false)
	s.Require().ErrorIs(err, types.ErrPermissionDenied)
}

// The controller check runs before the rights check, which runs before the
// creation check.
func (s *KeeperTestSuite) TestAuthorizationOrder() {
	restricted := s.newPool(types.NoRights)
	err := s.k.SetSwapFee(s.ctx, stranger, restricted, keepertest.Dec("0.01"))
	s.Require().ErrorIs(err, types.ErrNotController)

	config := keepertest.DefaultPoolConfig()
	config.Rights = types.NoRights
	registered := keepertest.RegisterTestPool(s.T(), s.app, controller, config)
	err = s.k.UpdateWeight(s.ctx, controller, registered, keepertest.WETH, keepertest.Dec("3"))
	s.Require().ErrorIs(err, types.ErrPermissionDenied)

	err = s.k.UpdateWeight(s.ctx, stranger, registered, keepertest.WETH, keepertest.Dec("3"))
	s.Require().ErrorIs(err, types.ErrNotController)
}

func (s *KeeperTestSuite) TestRightsAreImmutable() {
	restricted := s.newPool(types.CanPauseSwap)
	s.Require().NoError(s.k.SetController(s.ctx, controller, restricted, stranger))

	pool, err := s.k.GetPool(s.ctx, restricted)
	s.Require().NoError(err)
	s.Require().Equal(types.CanPauseSwap, pool.Rights)
}
