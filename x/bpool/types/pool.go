package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Record is the reserve and weight of one bound token.
type Record struct {
	Denom        string         `json:"denom"`
	Balance      math.Int       `json:"balance"`
	DenormWeight math.LegacyDec `json:"denorm_weight"`
}

// Pool is a weighted pool. Records keep bind order.
type Pool struct {
	Id          uint64         `json:"id"`
	Controller  string         `json:"controller"`
	SwapFee     math.LegacyDec `json:"swap_fee"`
	PublicSwap  bool           `json:"public_swap"`
	TotalWeight math.LegacyDec `json:"total_weight"`
	Records     []Record       `json:"records"`
}

// NewPool returns an empty pool owned by controller.
func NewPool(id uint64, controller sdk.AccAddress) Pool {
	return Pool{
		Id:          id,
		Controller:  controller.String(),
		SwapFee:     MinFee,
		PublicSwap:  false,
		TotalWeight: math.LegacyZeroDec(),
		Records:     []Record{},
	}
}

// FindRecord returns the index of denom in the pool records.
func (p Pool) FindRecord(denom string) (int, bool) {
	for i, rec := range p.Records {
		if rec.Denom == denom {
			return i, true
		}
	}
	return -1, false
}

// Tokens returns the bound denoms in bind order.
func (p Pool) Tokens() []string {
	tokens := make([]string, len(p.Records))
	for i, rec := range p.Records {
		tokens[i] = rec.Denom
	}
	return tokens
}

// Validate checks the pool against the pool bounds.
func (p Pool) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Controller); err != nil {
		return ErrInvalidAddress.Wrapf("pool %d controller: %s", p.Id, err)
	}
	if err := ValidateSwapFee(p.SwapFee); err != nil {
		return err
	}
	if len(p.Records) > MaxBoundTokens {
		return ErrMaxTokens.Wrapf("pool %d has %d tokens", p.Id, len(p.Records))
	}

	total := math.LegacyZeroDec()
	seen := make(map[string]struct{}, len(p.Records))
	for _, rec := range p.Records {
		if err := sdk.ValidateDenom(rec.Denom); err != nil {
			return ErrInvalidDenom.Wrap(err.Error())
		}
		if _, dup := seen[rec.Denom]; dup {
			return ErrIsBound.Wrapf("duplicate record %s", rec.Denom)
		}
		seen[rec.Denom] = struct{}{}
		if err := ValidateWeight(rec.DenormWeight); err != nil {
			return err
		}
		if rec.Balance.IsNil() || rec.Balance.LT(MinBalance) {
			return ErrMinBalance.Wrapf("%s balance %s", rec.Denom, rec.Balance)
		}
		total = total.Add(rec.DenormWeight)
	}
	if total.GT(MaxTotalWeight) {
		return ErrMaxTotalWeight.Wrapf("pool %d total %s", p.Id, total)
	}
	if p.TotalWeight.IsNil() || !total.Equal(p.TotalWeight) {
		return fmt.Errorf("pool %d total weight %s does not match records %s", p.Id, p.TotalWeight, total)
	}
	return nil
}

// ValidateWeight checks a single denormalized weight.
func ValidateWeight(weight math.LegacyDec) error {
	if weight.IsNil() || weight.LT(MinWeight) {
		return ErrMinWeight.Wrapf("weight %s < %s", weight, MinWeight)
	}
	if weight.GT(MaxWeight) {
		return ErrMaxWeight.Wrapf("weight %s > %s", weight, MaxWeight)
	}
	return nil
}

// ValidateSwapFee checks the swap fee bounds.
func ValidateSwapFee(fee math.LegacyDec) error {
	if fee.IsNil() || fee.LT(MinFee) {
		return ErrMinFee.Wrapf("fee %s < %s", fee, MinFee)
	}
	if fee.GT(MaxFee) {
		return ErrMaxFee.Wrapf("fee %s > %s", fee, MaxFee)
	}
	return nil
}
