// Package simapp wires the auth, bank, bpool and crp keepers on an in-memory
// multistore and drives them block by block.
package simapp

import (
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"

	"github.com/paw-chain/crp/x/bpool"
	bpoolkeeper "github.com/paw-chain/crp/x/bpool/keeper"
	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	"github.com/paw-chain/crp/x/crp"
	crpkeeper "github.com/paw-chain/crp/x/crp/keeper"
	crptypes "github.com/paw-chain/crp/x/crp/types"
)

// App is a minimal application holding the pool modules.
type App struct {
	logger log.Logger
	cdc    codec.Codec
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey
	ctx    sdk.Context

	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	PoolKeeper    *bpoolkeeper.Keeper
	CRPKeeper     *crpkeeper.Keeper

	BPoolModule bpool.AppModule
	CRPModule   crp.AppModule

	invariants *InvariantRegistry
}

// maccPerms are the module account permissions. The mint account funds test
// accounts and absorbs burned supply; crp mints and burns pool shares.
var maccPerms = map[string][]string{
	minttypes.ModuleName: {authtypes.Minter, authtypes.Burner},
	crptypes.ModuleName:  {authtypes.Minter, authtypes.Burner},
}

// Option customizes the app at construction.
type Option func(*options)

type options struct {
	wrapPoolKeeper func(crptypes.PoolKeeper) crptypes.PoolKeeper
	hooks          []bpooltypes.PoolHooks
	startHeight    int64
}

// WithPoolKeeperWrapper lets the crp keeper see the bpool keeper through a
// wrapper, e.g. a fault-injecting one.
func WithPoolKeeperWrapper(wrap func(crptypes.PoolKeeper) crptypes.PoolKeeper) Option {
	return func(o *options) { o.wrapPoolKeeper = wrap }
}

// WithPoolHooks installs reserve-change hooks on the bpool keeper.
func WithPoolHooks(hooks ...bpooltypes.PoolHooks) Option {
	return func(o *options) { o.hooks = append(o.hooks, hooks...) }
}

// WithStartHeight sets the height of the first block.
func WithStartHeight(height int64) Option {
	return func(o *options) { o.startHeight = height }
}

// New builds an App on a fresh MemDB.
func New(logger log.Logger, opts ...Option) (*App, error) {
	o := options{startHeight: 1}
	for _, opt := range opts {
		opt(&o)
	}

	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, bpooltypes.StoreKey, crptypes.StoreKey)
	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load stores: %w", err)
	}

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)
	bech32Prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()

	app := &App{
		logger:     logger,
		cdc:        cdc,
		cms:        cms,
		keys:       keys,
		invariants: NewInvariantRegistry(),
	}
	app.AccountKeeper = authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(bech32Prefix),
		bech32Prefix,
		authority.String(),
	)
	app.BankKeeper = bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		app.AccountKeeper,
		BlockedAddresses(),
		authority.String(),
		logger,
	)
	app.PoolKeeper = bpoolkeeper.NewKeeper(keys[bpooltypes.StoreKey], app.BankKeeper)
	if len(o.hooks) > 0 {
		app.PoolKeeper.SetHooks(o.hooks...)
	}

	var poolKeeper crptypes.PoolKeeper = app.PoolKeeper
	if o.wrapPoolKeeper != nil {
		poolKeeper = o.wrapPoolKeeper(poolKeeper)
	}
	app.CRPKeeper = crpkeeper.NewKeeper(keys[crptypes.StoreKey], app.BankKeeper, poolKeeper)

	app.BPoolModule = bpool.NewAppModule(*app.PoolKeeper)
	app.CRPModule = crp.NewAppModule(*app.CRPKeeper)
	app.CRPModule.RegisterInvariants(app.invariants)

	app.ctx = sdk.NewContext(cms, cmtproto.Header{Height: o.startHeight, ChainID: "crp-sim-1"}, false, logger)
	return app, nil
}

// BlockedAddresses returns the module accounts that may not receive funds
// from other modules.
func BlockedAddresses() map[string]bool {
	blocked := make(map[string]bool, len(maccPerms))
	for name := range maccPerms {
		blocked[authtypes.NewModuleAddress(name).String()] = true
	}
	return blocked
}

// AppCodec returns the codec of the SDK modules.
func (a *App) AppCodec() codec.Codec {
	return a.cdc
}

// Context returns the context of the current block.
func (a *App) Context() sdk.Context {
	return a.ctx
}

// Height returns the current block height.
func (a *App) Height() int64 {
	return a.ctx.BlockHeight()
}

// StoreKey returns the store key mounted under name.
func (a *App) StoreKey(name string) *storetypes.KVStoreKey {
	return a.keys[name]
}

// NextBlock ends the current block, commits it and opens the next one.
func (a *App) NextBlock() error {
	if err := a.CRPModule.EndBlock(a.ctx); err != nil {
		return fmt.Errorf("end block %d: %w", a.Height(), err)
	}
	a.cms.Commit()
	a.ctx = a.ctx.
		WithBlockHeight(a.Height() + 1).
		WithEventManager(sdk.NewEventManager())
	return nil
}

// AdvanceTo runs blocks until the current height reaches height.
func (a *App) AdvanceTo(height int64) error {
	for a.Height() < height {
		if err := a.NextBlock(); err != nil {
			return err
		}
	}
	return nil
}

// AssertInvariants runs every registered invariant against the current state.
func (a *App) AssertInvariants() error {
	return a.invariants.Check(a.ctx)
}
