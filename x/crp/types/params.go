package types

// Params defines the parameters for the crp module.
type Params struct {
	// AutoPokeWeights makes the end blocker advance every started schedule.
	AutoPokeWeights bool `json:"auto_poke_weights"`
	// MaxPools caps the number of pools; zero means no cap.
	MaxPools uint64 `json:"max_pools"`
}

// DefaultParams returns default module parameters
func DefaultParams() Params {
	return Params{
		AutoPokeWeights: false,
		MaxPools:        0,
	}
}

// Validate validates the params
func (p Params) Validate() error {
	return nil
}
