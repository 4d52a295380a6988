package types

import (
	"cosmossdk.io/math"
)

// NewTokenCommitment is a token announced for addition. It can be applied
// from ApplicableHeight on; a newer commitment replaces it.
type NewTokenCommitment struct {
	PoolId           uint64         `json:"pool_id"`
	Denom            string         `json:"denom"`
	Balance          math.Int       `json:"balance"`
	Weight           math.LegacyDec `json:"weight"`
	CommitHeight     int64          `json:"commit_height"`
	ApplicableHeight int64          `json:"applicable_height"`
}

// IsApplicable reports whether the time lock has elapsed at height.
func (c NewTokenCommitment) IsApplicable(height int64) bool {
	return height >= c.ApplicableHeight
}
