package types

import (
	"github.com/cosmos/cosmos-sdk/types/address"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "bpool"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PoolKey      = []byte{0x01} // prefix for pool records
	PoolCountKey = []byte{0x02} // key for the next pool id
)

// GetPoolKey returns the store key for a pool
func GetPoolKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// PoolAddress returns the account holding the reserves of a pool.
func PoolAddress(poolID uint64) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, sdk.Uint64ToBigEndian(poolID)))
}
