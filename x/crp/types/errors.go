package types

import (
	"cosmossdk.io/errors"
)

// crp module sentinel errors
var (
	ErrNotController           = errors.Register(ModuleName, 1, "caller is not the pool controller")
	ErrPermissionDenied        = errors.Register(ModuleName, 2, "pool does not grant the required right")
	ErrWeightBelowMin          = errors.Register(ModuleName, 3, "weight below minimum")
	ErrWeightAboveMax          = errors.Register(ModuleName, 4, "weight above maximum")
	ErrTotalWeightExceeded     = errors.Register(ModuleName, 5, "total weight above maximum")
	ErrChangePeriodTooShort    = errors.Register(ModuleName, 6, "weight change period below minimum")
	ErrAlreadyBound            = errors.Register(ModuleName, 7, "token already bound")
	ErrNotBound                = errors.Register(ModuleName, 8, "token not bound")
	ErrNoPendingCommitment     = errors.Register(ModuleName, 9, "no token committed")
	ErrTimelockNotElapsed      = errors.Register(ModuleName, 10, "token time lock not elapsed")
	ErrTooEarlyToPoke          = errors.Register(ModuleName, 11, "weight schedule has not started")
	ErrInsufficientBalance     = errors.Register(ModuleName, 12, "insufficient balance")
	ErrUnsupportedOperation    = errors.Register(ModuleName, 13, "operation not supported by this pool")
	ErrPoolNotCreated          = errors.Register(ModuleName, 14, "pool not created")
	ErrPoolAlreadyCreated      = errors.Register(ModuleName, 15, "pool already created")
	ErrInvalidInitialSupply    = errors.Register(ModuleName, 16, "invalid initial supply")
	ErrPoolNotFound            = errors.Register(ModuleName, 17, "pool not found")
	ErrReentrancy              = errors.Register(ModuleName, 18, "reentrant call")
	ErrGradualUpdateInProgress = errors.Register(ModuleName, 19, "gradual weight update in progress")
	ErrInvalidSchedule         = errors.Register(ModuleName, 20, "invalid weight schedule")
	ErrNotWhitelisted          = errors.Register(ModuleName, 21, "liquidity provider not whitelisted")
	ErrInvalidAddress          = errors.Register(ModuleName, 22, "invalid address")
	ErrInvalidAmount           = errors.Register(ModuleName, 23, "invalid amount")
	ErrLimitIn                 = errors.Register(ModuleName, 24, "amount in above limit")
	ErrLimitOut                = errors.Register(ModuleName, 25, "amount out below limit")
	ErrMaxTokens               = errors.Register(ModuleName, 26, "too many tokens")
	ErrMinTokens               = errors.Register(ModuleName, 27, "too few tokens")
	ErrInvalidSwapFee          = errors.Register(ModuleName, 28, "invalid swap fee")
	ErrInconsistentTimelock    = errors.Register(ModuleName, 29, "add token time lock exceeds minimum weight change period")
	ErrInvalidToken            = errors.Register(ModuleName, 30, "invalid token")
	ErrMaxPools                = errors.Register(ModuleName, 31, "pool limit reached")
	ErrInvalidParams           = errors.Register(ModuleName, 32, "invalid params")
	ErrInvalidGenesis          = errors.Register(ModuleName, 33, "invalid genesis state")
)
