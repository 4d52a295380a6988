package types

import (
	"cosmossdk.io/math"
)

// GradualUpdate is an active linear weight schedule. Weights move from
// StartWeights at StartHeight to EndWeights at EndHeight, one entry per token
// in Tokens.
type GradualUpdate struct {
	PoolId       uint64           `json:"pool_id"`
	StartHeight  int64            `json:"start_height"`
	EndHeight    int64            `json:"end_height"`
	Tokens       []string         `json:"tokens"`
	StartWeights []math.LegacyDec `json:"start_weights"`
	EndWeights   []math.LegacyDec `json:"end_weights"`
}

// WeightsAt returns the scheduled weights at height. Before the start it
// fails with ErrTooEarlyToPoke; at or after the end it returns the end
// weights exactly.
func (u GradualUpdate) WeightsAt(height int64) ([]math.LegacyDec, error) {
	if height < u.StartHeight {
		return nil, ErrTooEarlyToPoke.Wrapf("height %d < start %d", height, u.StartHeight)
	}

	weights := make([]math.LegacyDec, len(u.EndWeights))
	if height >= u.EndHeight {
		copy(weights, u.EndWeights)
		return weights, nil
	}

	elapsed := height - u.StartHeight
	period := u.EndHeight - u.StartHeight
	for i := range u.EndWeights {
		delta := u.EndWeights[i].Sub(u.StartWeights[i])
		weights[i] = u.StartWeights[i].Add(delta.MulInt64(elapsed).QuoInt64(period))
	}
	return weights, nil
}

// IsComplete reports whether the schedule has reached its end at height.
func (u GradualUpdate) IsComplete(height int64) bool {
	return height >= u.EndHeight
}

// Validate checks the shape and bounds of the schedule.
func (u GradualUpdate) Validate() error {
	if u.EndHeight <= u.StartHeight {
		return ErrInvalidSchedule.Wrapf("end %d not after start %d", u.EndHeight, u.StartHeight)
	}
	if len(u.Tokens) != len(u.StartWeights) || len(u.Tokens) != len(u.EndWeights) {
		return ErrInvalidSchedule.Wrapf("%d tokens, %d start weights, %d end weights",
			len(u.Tokens), len(u.StartWeights), len(u.EndWeights))
	}
	if err := ValidateWeights(u.StartWeights); err != nil {
		return err
	}
	return ValidateWeights(u.EndWeights)
}
