package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rights is the immutable set of capabilities a pool grants its controller.
type Rights uint8

const (
	CanPauseSwap Rights = 1 << iota
	CanChangeSwapFee
	CanChangeWeights
	CanAddRemoveTokens
	CanWhitelistLPs

	NoRights  Rights = 0
	AllRights        = CanPauseSwap | CanChangeSwapFee | CanChangeWeights | CanAddRemoveTokens | CanWhitelistLPs
)

var rightNames = []struct {
	right Rights
	name  string
}{
	{CanPauseSwap, "pause_swap"},
	{CanChangeSwapFee, "change_swap_fee"},
	{CanChangeWeights, "change_weights"},
	{CanAddRemoveTokens, "add_remove_tokens"},
	{CanWhitelistLPs, "whitelist_lps"},
}

// NewRights builds a Rights set from individual flags.
func NewRights(pauseSwap, changeSwapFee, changeWeights, addRemoveTokens, whitelistLPs bool) Rights {
	var r Rights
	for _, f := range []struct {
		set   bool
		right Rights
	}{
		{pauseSwap, CanPauseSwap},
		{changeSwapFee, CanChangeSwapFee},
		{changeWeights, CanChangeWeights},
		{addRemoveTokens, CanAddRemoveTokens},
		{whitelistLPs, CanWhitelistLPs},
	} {
		if f.set {
			r |= f.right
		}
	}
	return r
}

// ParseRights builds a Rights set from capability names.
func ParseRights(names []string) (Rights, error) {
	var r Rights
	for _, name := range names {
		found := false
		for _, rn := range rightNames {
			if rn.name == strings.TrimSpace(name) {
				r |= rn.right
				found = true
				break
			}
		}
		if !found {
			return NoRights, fmt.Errorf("unknown right %q", name)
		}
	}
	return r, nil
}

// Has reports whether every capability in want is granted.
func (r Rights) Has(want Rights) bool {
	return r&want == want
}

// Require returns ErrPermissionDenied unless want is granted.
func (r Rights) Require(want Rights) error {
	if !r.Has(want) {
		return ErrPermissionDenied.Wrap(want.String())
	}
	return nil
}

// Names returns the names of the granted capabilities.
func (r Rights) Names() []string {
	names := []string{}
	for _, rn := range rightNames {
		if r.Has(rn.right) {
			names = append(names, rn.name)
		}
	}
	return names
}

func (r Rights) String() string {
	if r == NoRights {
		return "none"
	}
	return strings.Join(r.Names(), ",")
}

// MarshalJSON encodes the rights as a list of names.
func (r Rights) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Names())
}

// UnmarshalJSON decodes a list of names.
func (r *Rights) UnmarshalJSON(bz []byte) error {
	var names []string
	if err := json.Unmarshal(bz, &names); err != nil {
		return err
	}
	parsed, err := ParseRights(names)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
