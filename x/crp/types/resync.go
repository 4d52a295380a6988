package types

import (
	"cosmossdk.io/math"
)

// ResyncResult reports the outcome of a safe resync. When Resynced is false
// the weight was left unchanged and Reason carries the failure message, which
// may be empty.
type ResyncResult struct {
	PoolId    uint64         `json:"pool_id"`
	Denom     string         `json:"denom"`
	Resynced  bool           `json:"resynced"`
	NewWeight math.LegacyDec `json:"new_weight"`
	Reason    string         `json:"reason"`
	Gulped    bool           `json:"gulped"`
	GulpError string         `json:"gulp_error,omitempty"`
}
