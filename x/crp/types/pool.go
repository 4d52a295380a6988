package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
)

// DefaultInitialSupply is the share supply minted by CreatePool when no other
// amount is chosen.
var DefaultInitialSupply = math.NewIntWithDecimal(100, 18)

// PoolToken is a token, its initial reserve and its denormalized weight.
type PoolToken struct {
	Denom   string         `json:"denom"`
	Balance math.Int       `json:"balance"`
	Weight  math.LegacyDec `json:"weight"`
}

// PoolConfig holds the construction parameters of a pool.
type PoolConfig struct {
	Tokens                    []PoolToken    `json:"tokens"`
	SwapFee                   math.LegacyDec `json:"swap_fee"`
	Rights                    Rights         `json:"rights"`
	Elastic                   bool           `json:"elastic"`
	MinimumWeightChangePeriod int64          `json:"minimum_weight_change_period"`
	AddTokenTimeLock          int64          `json:"add_token_time_lock"`
}

// Validate checks the construction parameters.
func (c PoolConfig) Validate() error {
	if len(c.Tokens) < bpooltypes.MinBoundTokens {
		return ErrMinTokens.Wrapf("%d tokens < %d", len(c.Tokens), bpooltypes.MinBoundTokens)
	}
	if len(c.Tokens) > bpooltypes.MaxBoundTokens {
		return ErrMaxTokens.Wrapf("%d tokens > %d", len(c.Tokens), bpooltypes.MaxBoundTokens)
	}

	weights := make([]math.LegacyDec, len(c.Tokens))
	seen := make(map[string]struct{}, len(c.Tokens))
	for i, token := range c.Tokens {
		if err := sdk.ValidateDenom(token.Denom); err != nil {
			return ErrInvalidToken.Wrap(err.Error())
		}
		if _, dup := seen[token.Denom]; dup {
			return ErrInvalidToken.Wrapf("duplicate token %s", token.Denom)
		}
		seen[token.Denom] = struct{}{}
		if token.Balance.IsNil() || token.Balance.LT(bpooltypes.MinBalance) {
			return ErrInvalidAmount.Wrapf("%s balance %s < %s", token.Denom, token.Balance, bpooltypes.MinBalance)
		}
		weights[i] = token.Weight
	}
	if err := ValidateWeights(weights); err != nil {
		return err
	}

	if c.SwapFee.IsNil() || c.SwapFee.LT(bpooltypes.MinFee) || c.SwapFee.GT(bpooltypes.MaxFee) {
		return ErrInvalidSwapFee.Wrapf("fee %s outside [%s, %s]", c.SwapFee, bpooltypes.MinFee, bpooltypes.MaxFee)
	}
	if c.Rights&^AllRights != 0 {
		return ErrPermissionDenied.Wrapf("unknown rights bits %b", c.Rights)
	}
	if c.Elastic && !c.Rights.Has(CanChangeWeights) {
		return ErrPermissionDenied.Wrap("elastic pools require change_weights")
	}
	if c.MinimumWeightChangePeriod < 0 || c.AddTokenTimeLock < 0 {
		return ErrInvalidSchedule.Wrap("periods cannot be negative")
	}
	if c.AddTokenTimeLock > c.MinimumWeightChangePeriod {
		return ErrInconsistentTimelock.Wrapf("%d > %d", c.AddTokenTimeLock, c.MinimumWeightChangePeriod)
	}
	return nil
}

// ConfigurableRightsPool is a controller record wrapping one underlying pool.
// BPoolId is zero until the pool is created.
type ConfigurableRightsPool struct {
	Id         uint64 `json:"id"`
	Controller string `json:"controller"`
	PoolConfig
	BPoolId       uint64 `json:"bpool_id"`
	CreatedHeight int64  `json:"created_height"`
}

// IsCreated reports whether the underlying pool exists.
func (p ConfigurableRightsPool) IsCreated() bool {
	return p.BPoolId != 0
}

// Validate checks a stored pool record.
func (p ConfigurableRightsPool) Validate() error {
	if p.Id == 0 {
		return ErrPoolNotFound.Wrap("pool id cannot be zero")
	}
	if _, err := sdk.AccAddressFromBech32(p.Controller); err != nil {
		return ErrInvalidAddress.Wrapf("controller: %s", err)
	}
	return p.PoolConfig.Validate()
}

// ValidateWeight checks a single weight against the pool bounds.
func ValidateWeight(weight math.LegacyDec) error {
	if weight.IsNil() || weight.LT(bpooltypes.MinWeight) {
		return ErrWeightBelowMin.Wrapf("%s < %s", weight, bpooltypes.MinWeight)
	}
	if weight.GT(bpooltypes.MaxWeight) {
		return ErrWeightAboveMax.Wrapf("%s > %s", weight, bpooltypes.MaxWeight)
	}
	return nil
}

// ValidateTotalWeight checks a weight sum against the pool bound.
func ValidateTotalWeight(total math.LegacyDec) error {
	if total.GT(bpooltypes.MaxTotalWeight) {
		return ErrTotalWeightExceeded.Wrapf("%s > %s", total, bpooltypes.MaxTotalWeight)
	}
	return nil
}

// ValidateWeights checks each weight, then their sum.
func ValidateWeights(weights []math.LegacyDec) error {
	total := math.LegacyZeroDec()
	for _, w := range weights {
		if err := ValidateWeight(w); err != nil {
			return err
		}
		total = total.Add(w)
	}
	return ValidateTotalWeight(total)
}
